package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wildlife-report-hub/backend/internal/session/domain"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) FindByUser(ctx context.Context, userID string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, step, state, created_at, updated_at, expires_at
		FROM bot_sessions
		WHERE user_id = $1`, userID)

	var s domain.Session
	var step string
	var state []byte
	err := row.Scan(&s.ID, &s.UserID, &step, &state, &s.CreatedAt, &s.UpdatedAt, &s.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	s.Step = domain.Step(step)
	if err := json.Unmarshal(state, &s.State); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	s.State.Normalize()

	if s.Expired(time.Now().UTC()) {
		if err := r.DeleteByUser(ctx, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &s, nil
}

func (r *postgresRepository) Save(ctx context.Context, session *domain.Session) error {
	session.State.Normalize()
	state, err := json.Marshal(session.State)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session save: %w", err)
	}
	defer tx.Rollback()

	// Serializes concurrent webhook deliveries for the same user. The lock
	// is released with the transaction.
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, session.UserID); err != nil {
		return fmt.Errorf("lock session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bot_sessions (id, user_id, step, state, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			step = EXCLUDED.step,
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at,
			expires_at = EXCLUDED.expires_at`,
		session.ID, session.UserID, string(session.Step), state,
		session.CreatedAt, session.UpdatedAt, session.ExpiresAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session save: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM bot_sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM bot_sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired sessions: %w", err)
	}
	return n, nil
}
