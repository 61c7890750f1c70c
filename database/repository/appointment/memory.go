package appointmentRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"maitred/models"

	"github.com/google/uuid"
)

// memoryAppointmentRepo is the in-memory fallback store. The mutex gives the
// same insert-if-absent guarantee the Mongo partial index provides.
type memoryAppointmentRepo struct {
	mu    sync.Mutex
	appts []models.Appointment
}

// NewMemoryAppointmentRepo returns an AppointmentRepository backed by process memory.
func NewMemoryAppointmentRepo() AppointmentRepository {
	return &memoryAppointmentRepo{}
}

func (r *memoryAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt.Status == models.StatusBooked {
		for i := range r.appts {
			if r.appts[i].StartTime == appt.StartTime && r.appts[i].Status == models.StatusBooked {
				return ErrDuplicateSlot
			}
		}
	}
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	appt.CreatedAt = time.Now()
	r.appts = append(r.appts, *appt)
	return nil
}

func (r *memoryAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].ID == id {
			a := r.appts[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memoryAppointmentRepo) ListActiveByGuest(ctx context.Context, guestID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for i := range r.appts {
		if r.appts[i].GuestID == guestID && r.appts[i].Status != models.StatusCancelled {
			out = append(out, r.appts[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *memoryAppointmentRepo) ExistsBookedAt(ctx context.Context, startTime string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].StartTime == startTime && r.appts[i].Status == models.StatusBooked {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAppointmentRepo) Cancel(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].ID == id && r.appts[i].Status == models.StatusBooked {
			r.appts[i].Status = models.StatusCancelled
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryAppointmentRepo) UpdateDetails(ctx context.Context, id, details string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].Details = details
			return true, nil
		}
	}
	return false, nil
}
