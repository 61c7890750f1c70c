package routes

import (
	"net/http"

	"maitred/config"
	"maitred/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterCallRoutes registers the tool surface the conversational
// orchestrator invokes per call.
func RegisterCallRoutes(r *gin.Engine, ch *handlers.CallHandler) {
	api := r.Group("/api/calls")
	{
		api.POST("/:callId/tools/:tool", ch.ToolCallHandler)
		api.GET("/:callId/session", ch.SessionDataHandler)
		api.POST("/:callId/summary", ch.FinalizeHandler)
	}
}

// RegisterAnalyticsRoutes registers the analytics endpoints.
func RegisterAnalyticsRoutes(r *gin.Engine, ah *handlers.AnalyticsHandler) {
	api := r.Group("/analytics")
	{
		api.GET("/summaries", ah.GetSummariesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Hi, this is the " + config.AppConfig.RestaurantName + " reservation desk",
		})
	})
}
