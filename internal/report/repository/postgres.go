package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wildlife-report-hub/backend/internal/report/domain"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, report *domain.Report) error {
	images, err := json.Marshal(report.Images)
	if err != nil {
		return fmt.Errorf("encode report images: %w", err)
	}
	var phone sql.NullString
	if report.PhoneNumber != "" {
		phone = sql.NullString{String: report.PhoneNumber, Valid: true}
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reports (id, animal_type, latitude, longitude, location,
			address, phone_number, description, status, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($4, $3), 4326),
			$5, $6, $7, $8, $9, $10, $10)`,
		report.ID, report.AnimalType, report.Latitude, report.Longitude,
		report.Address, phone, report.Description, report.Status, images,
		report.CreatedAt)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

const reportColumns = `
	id, animal_type, latitude, longitude, address, phone_number,
	description, status, staff_id, images, created_at, updated_at, deleted_at`

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE id = $1 AND deleted_at IS NULL`, id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	return report, nil
}

func (r *postgresRepository) FindNearbyUnclustered(ctx context.Context, animalType, excludeID string, lat, lng, radiusMeters float64, since time.Time) ([]domain.Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE animal_type = $1
		  AND id <> $2
		  AND deleted_at IS NULL
		  AND created_at >= $3
		  AND NOT EXISTS (
			SELECT 1 FROM event_reports er WHERE er.report_id = reports.id
		  )
		  AND ST_DWithin(location::geography, ST_SetSRID(ST_MakePoint($5, $4), 4326)::geography, $6)
		ORDER BY ST_Distance(location::geography, ST_SetSRID(ST_MakePoint($5, $4), 4326)::geography) ASC,
			created_at ASC`,
		animalType, excludeID, since, lat, lng, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("find nearby reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan nearby report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nearby reports: %w", err)
	}
	return reports, nil
}

func (r *postgresRepository) UpdateStaff(ctx context.Context, reportID, staffID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET staff_id = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		reportID, staffID)
	if err != nil {
		return fmt.Errorf("assign report staff: %w", err)
	}
	return requireRow(res, domain.ErrReportNotFound)
}

func (r *postgresRepository) UpdateDescription(ctx context.Context, reportID, description string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET description = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`,
		reportID, description)
	if err != nil {
		return fmt.Errorf("update report description: %w", err)
	}
	return requireRow(res, domain.ErrReportNotFound)
}

func (r *postgresRepository) SoftDelete(ctx context.Context, reportID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, reportID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return requireRow(res, domain.ErrReportNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var report domain.Report
	var phone, staffID sql.NullString
	var images []byte
	var deletedAt sql.NullTime
	err := row.Scan(&report.ID, &report.AnimalType, &report.Latitude, &report.Longitude,
		&report.Address, &phone, &report.Description, &report.Status, &staffID,
		&images, &report.CreatedAt, &report.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		report.PhoneNumber = phone.String
	}
	if staffID.Valid {
		report.StaffID = &staffID.String
	}
	if deletedAt.Valid {
		report.DeletedAt = &deletedAt.Time
	}
	if err := json.Unmarshal(images, &report.Images); err != nil {
		return nil, fmt.Errorf("decode report images: %w", err)
	}
	return &report, nil
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
