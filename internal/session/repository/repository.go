package repository

import (
	"context"

	"wildlife-report-hub/backend/internal/session/domain"
)

// Repository persists conversation sessions keyed by messaging user id.
type Repository interface {
	// FindByUser returns the user's active session, or nil when none exists.
	// An expired session counts as none and is removed on read.
	FindByUser(ctx context.Context, userID string) (*domain.Session, error)
	// Save upserts the session. Writes for the same user are serialized.
	Save(ctx context.Context, session *domain.Session) error
	DeleteByUser(ctx context.Context, userID string) error
	// DeleteExpired removes all sessions past their expiry and reports how many.
	DeleteExpired(ctx context.Context) (int64, error)
}
