package repository

import (
	"context"

	"wildlife-report-hub/backend/internal/settings/domain"
)

// Repository defines read/write access to system settings.
// Settings are stored as a log table; Latest returns the newest row (or defaults).
type Repository interface {
	// Latest returns the most recent settings with defaults applied. Never returns nil
	// on success; when no row exists the defaults are returned.
	Latest(ctx context.Context) (*domain.Settings, error)
	// Create appends a new settings row.
	Create(ctx context.Context, s *domain.Settings) error
}
