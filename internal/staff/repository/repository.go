package repository

import (
	"context"

	"wildlife-report-hub/backend/internal/staff/domain"
)

// Repository persists staff and their coverage locations.
type Repository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	AddLocation(ctx context.Context, location *domain.Location) error
	// FindNearest returns the staff member whose closest coverage location
	// is nearest to the point, or nil when no staff exist.
	FindNearest(ctx context.Context, lat, lng float64) (*domain.Staff, error)
	FindByID(ctx context.Context, id string) (*domain.Staff, error)
}
