// Package worker holds background jobs that run outside the webhook path.
package worker

import (
	"context"
	"log/slog"
	"time"

	sessionrepo "wildlife-report-hub/backend/internal/session/repository"
)

// SessionSweeper deletes expired conversation sessions on a fixed interval.
// Expired sessions are also dropped lazily on read; the sweeper keeps the
// table small for users who never come back.
type SessionSweeper struct {
	sessions sessionrepo.Repository
	interval time.Duration
	logger   *slog.Logger
}

func NewSessionSweeper(sessions sessionrepo.Repository, interval time.Duration, logger *slog.Logger) *SessionSweeper {
	return &SessionSweeper{sessions: sessions, interval: interval, logger: logger}
}

// Run sweeps until the context is cancelled. One sweep runs immediately.
func (s *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "session sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "expired sessions removed", "count", n)
	}
}
