// File: maitred/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maitred/config"
	"maitred/cron"
	"maitred/database"
	appointmentRepo "maitred/database/repository/appointment"
	guestRepo "maitred/database/repository/guest"
	summaryRepo "maitred/database/repository/summary"
	"maitred/handlers"
	"maitred/middleware"
	"maitred/routes"
	"maitred/services/events"
	"maitred/services/reservation"
	"maitred/services/summary"
	"maitred/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Storage collaborator selection. The engine behaves identically against
	// either implementation.
	var (
		guests       guestRepo.GuestRepository
		appointments appointmentRepo.AppointmentRepository
		summaries    summaryRepo.SummaryRepository
		publisher    events.Publisher
		queue        *asynq.Client
	)
	if config.AppConfig.UseMemoryStore || config.AppConfig.DatabaseURL == "" {
		logger.Sugar().Warn("main: running against the in-memory store")
		guests = guestRepo.NewMemoryGuestRepo()
		appointments = appointmentRepo.NewMemoryAppointmentRepo()
		summaries = summaryRepo.NewMemorySummaryRepo()
		publisher = events.NewLogPublisher(logger)
	} else {
		database.InitDB()
		utils.InitEventsClient()
		guests = guestRepo.NewMongoGuestRepo()
		appointments = appointmentRepo.NewMongoAppointmentRepo()
		summaries = summaryRepo.NewMongoSummaryRepo()
		publisher = events.NewRedisPublisher(utils.GetEventsClient())
		queue = cron.NewQueueClient()
		cron.InitSummaryWorker(summaries)
	}

	// Reservation engine and per-call session tracking.
	engine := reservation.NewEngine(guests, appointments,
		config.AppConfig.OpeningHour, config.AppConfig.ClosingHour, publisher)
	sessions := reservation.NewSessionManager(engine)
	summaryService := &summary.DefaultService{Repo: summaries, Queue: queue}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	callHandler := handlers.NewCallHandler(sessions, summaryService)
	analyticsHandler := handlers.NewAnalyticsHandler(summaryService)
	routes.RegisterCallRoutes(router, callHandler)
	routes.RegisterAnalyticsRoutes(router, analyticsHandler)
	routes.RegisterHealthRoute(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if queue != nil {
		if err := queue.Close(); err != nil {
			logger.Sugar().Warnf("main: failed to close queue client: %v", err)
		}
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
