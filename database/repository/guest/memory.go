package guestRepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"maitred/models"

	"github.com/google/uuid"
)

// memoryGuestRepo is the in-memory fallback store. Behavior matches the Mongo
// implementation exactly; the engine must not be able to tell them apart.
type memoryGuestRepo struct {
	mu     sync.Mutex
	guests []models.Guest
}

// NewMemoryGuestRepo returns a GuestRepository backed by process memory.
func NewMemoryGuestRepo() GuestRepository {
	return &memoryGuestRepo{}
}

func (r *memoryGuestRepo) GetByID(ctx context.Context, id string) (*models.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.guests {
		if r.guests[i].ID == id {
			g := r.guests[i]
			return &g, nil
		}
	}
	return nil, nil
}

func (r *memoryGuestRepo) GetByContactNumber(ctx context.Context, number string) (*models.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.guests {
		if r.guests[i].ContactNumber == number {
			g := r.guests[i]
			return &g, nil
		}
	}
	return nil, nil
}

func (r *memoryGuestRepo) Create(ctx context.Context, guest *models.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if guest.ID == "" {
		guest.ID = uuid.New().String()
	}
	guest.CreatedAt = time.Now()
	r.guests = append(r.guests, *guest)
	return nil
}

func (r *memoryGuestRepo) UpdateName(ctx context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.guests {
		if r.guests[i].ID == id {
			r.guests[i].Name = name
			return nil
		}
	}
	return fmt.Errorf("guest %s not found", id)
}
