package repository

import (
	"context"
	"time"

	"wildlife-report-hub/backend/internal/event/domain"
)

// Repository persists sighting events and their report memberships.
type Repository interface {
	// FindNearest returns the closest active event for the animal within
	// radiusMeters of the point, considering only events touched since the
	// cutoff. Returns nil when nothing matches.
	FindNearest(ctx context.Context, animalType string, lat, lng, radiusMeters float64, since time.Time) (*domain.Event, error)
	// Create inserts the event and attaches the given reports in one
	// transaction.
	Create(ctx context.Context, event *domain.Event, reportIDs []string) error
	// AttachReport adds a report to an event and marks the event touched.
	AttachReport(ctx context.Context, eventID, reportID string) error
	// FindByReport returns the event a report belongs to, or nil.
	FindByReport(ctx context.Context, reportID string) (*domain.Event, error)
	UpdateStaff(ctx context.Context, eventID, staffID string) error
	// WithAnimalLock runs fn while holding an exclusive advisory lock for
	// the animal type, serializing clustering decisions across instances.
	WithAnimalLock(ctx context.Context, animalType string, fn func(ctx context.Context) error) error
}
