package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"wildlife-report-hub/backend/internal/settings/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a settings repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Latest returns the newest settings row, or defaults when the table is empty.
func (r *PostgresRepository) Latest(ctx context.Context) (*domain.Settings, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM system_settings ORDER BY created_at DESC LIMIT 1`,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return nil, err
	}
	s := domain.DefaultSettings()
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, err
	}
	s.Normalize()
	return s, nil
}

// Create appends a new settings row.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO system_settings (id, value) VALUES ($1, $2)`,
		uuid.New().String(), raw,
	)
	return err
}
