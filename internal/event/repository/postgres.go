package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wildlife-report-hub/backend/internal/event/domain"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const eventColumns = `
	e.id, e.representative_report_id, e.center_latitude, e.center_longitude,
	e.staff_id, e.created_at, e.updated_at, e.deleted_at`

func (r *postgresRepository) FindNearest(ctx context.Context, animalType string, lat, lng, radiusMeters float64, since time.Time) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events e
		JOIN reports rep ON rep.id = e.representative_report_id
		WHERE rep.animal_type = $1
		  AND e.deleted_at IS NULL
		  AND e.updated_at >= $2
		  AND ST_DWithin(e.center_location::geography, ST_SetSRID(ST_MakePoint($4, $3), 4326)::geography, $5)
		ORDER BY ST_Distance(e.center_location::geography, ST_SetSRID(ST_MakePoint($4, $3), 4326)::geography) ASC,
			e.created_at ASC
		LIMIT 1`,
		animalType, since, lat, lng, radiusMeters)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find nearest event: %w", err)
	}
	return event, nil
}

func (r *postgresRepository) Create(ctx context.Context, event *domain.Event, reportIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event create: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO events (id, representative_report_id, center_latitude, center_longitude,
			center_location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($4, $3), 4326), $5, $5)`,
		event.ID, event.RepresentativeReportID, event.CenterLatitude, event.CenterLongitude,
		event.CreatedAt); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	for _, reportID := range reportIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO event_reports (event_id, report_id) VALUES ($1, $2)`,
			event.ID, reportID); err != nil {
			return fmt.Errorf("attach report %s: %w", reportID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit event create: %w", err)
	}
	return nil
}

func (r *postgresRepository) AttachReport(ctx context.Context, eventID, reportID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report attach: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO event_reports (event_id, report_id) VALUES ($1, $2)`,
		eventID, reportID); err != nil {
		return fmt.Errorf("attach report: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE events SET updated_at = now() WHERE id = $1`, eventID); err != nil {
		return fmt.Errorf("touch event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report attach: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByReport(ctx context.Context, reportID string) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events e
		JOIN event_reports er ON er.event_id = e.id
		WHERE er.report_id = $1 AND e.deleted_at IS NULL`, reportID)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by report: %w", err)
	}
	return event, nil
}

func (r *postgresRepository) UpdateStaff(ctx context.Context, eventID, staffID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET staff_id = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, eventID, staffID)
	if err != nil {
		return fmt.Errorf("assign event staff: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// WithAnimalLock holds a session advisory lock on a dedicated connection for
// the duration of fn. Queries inside fn run on the regular pool; the lock
// only serializes who may cluster a given animal at a time.
func (r *postgresRepository) WithAnimalLock(ctx context.Context, animalType string, fn func(ctx context.Context) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire lock connection: %w", err)
	}
	defer conn.Close()

	key := "cluster:" + animalType
	if _, err := conn.ExecContext(ctx,
		`SELECT pg_advisory_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("acquire cluster lock: %w", err)
	}
	defer conn.ExecContext(context.WithoutCancel(ctx),
		`SELECT pg_advisory_unlock(hashtext($1))`, key)

	return fn(ctx)
}

func scanEvent(row *sql.Row) (*domain.Event, error) {
	var event domain.Event
	var staffID sql.NullString
	var deletedAt sql.NullTime
	err := row.Scan(&event.ID, &event.RepresentativeReportID,
		&event.CenterLatitude, &event.CenterLongitude,
		&staffID, &event.CreatedAt, &event.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	if staffID.Valid {
		event.StaffID = &staffID.String
	}
	if deletedAt.Valid {
		event.DeletedAt = &deletedAt.Time
	}
	return &event, nil
}
