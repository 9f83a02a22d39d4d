package repository

import (
	"context"
	"time"

	"wildlife-report-hub/backend/internal/report/domain"
)

// Repository persists sighting reports. Soft-deleted rows are invisible to
// every query.
type Repository interface {
	Create(ctx context.Context, report *domain.Report) error
	// FindByID returns nil when the report does not exist.
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	// FindNearbyUnclustered returns reports of the same animal created since
	// the cutoff, within radiusMeters of the point, that belong to no event
	// yet. Ordered nearest first. The report identified by excludeID is
	// left out.
	FindNearbyUnclustered(ctx context.Context, animalType, excludeID string, lat, lng, radiusMeters float64, since time.Time) ([]domain.Report, error)
	UpdateStaff(ctx context.Context, reportID, staffID string) error
	UpdateDescription(ctx context.Context, reportID, description string) error
	SoftDelete(ctx context.Context, reportID string) error
}
