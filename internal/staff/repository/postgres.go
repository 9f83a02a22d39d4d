package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wildlife-report-hub/backend/internal/staff/domain"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, staff *domain.Staff) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO staff (id, name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)`,
		staff.ID, staff.Name, staff.Email, staff.CreatedAt)
	if err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

func (r *postgresRepository) AddLocation(ctx context.Context, location *domain.Location) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO staff_locations (id, staff_id, label, latitude, longitude, location, created_at)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($5, $4), 4326), $6)`,
		location.ID, location.StaffID, location.Label,
		location.Latitude, location.Longitude, location.CreatedAt)
	if err != nil {
		return fmt.Errorf("add staff location: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindNearest(ctx context.Context, lat, lng float64) (*domain.Staff, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.name, s.email, s.created_at, s.updated_at
		FROM staff s
		JOIN staff_locations sl ON sl.staff_id = s.id
		WHERE s.deleted_at IS NULL
		ORDER BY ST_Distance(sl.location::geography, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography) ASC
		LIMIT 1`, lat, lng)
	staff, err := scanStaff(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find nearest staff: %w", err)
	}
	return staff, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*domain.Staff, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM staff
		WHERE id = $1 AND deleted_at IS NULL`, id)
	staff, err := scanStaff(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return staff, nil
}

func scanStaff(row *sql.Row) (*domain.Staff, error) {
	var staff domain.Staff
	if err := row.Scan(&staff.ID, &staff.Name, &staff.Email,
		&staff.CreatedAt, &staff.UpdatedAt); err != nil {
		return nil, err
	}
	return &staff, nil
}
