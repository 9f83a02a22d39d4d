// Package service assigns responders to incoming reports.
package service

import (
	"context"
	"fmt"
	"log/slog"

	eventrepo "wildlife-report-hub/backend/internal/event/repository"
	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	reportrepo "wildlife-report-hub/backend/internal/report/repository"
	staffdomain "wildlife-report-hub/backend/internal/staff/domain"
	staffrepo "wildlife-report-hub/backend/internal/staff/repository"
)

type Assigner struct {
	staff   staffrepo.Repository
	reports reportrepo.Repository
	events  eventrepo.Repository
	logger  *slog.Logger
}

func NewAssigner(staff staffrepo.Repository, reports reportrepo.Repository, events eventrepo.Repository, logger *slog.Logger) *Assigner {
	return &Assigner{staff: staff, reports: reports, events: events, logger: logger}
}

// AssignNearest picks the staff member closest to the sighting and assigns
// them to the report. When the report belongs to an event, the event takes
// the same staff member. Returns nil when no staff are registered.
func (a *Assigner) AssignNearest(ctx context.Context, report *reportdomain.Report) (*staffdomain.Staff, error) {
	staff, err := a.staff.FindNearest(ctx, report.Latitude, report.Longitude)
	if err != nil {
		return nil, fmt.Errorf("find nearest staff: %w", err)
	}
	if staff == nil {
		a.logger.WarnContext(ctx, "no staff available for assignment", "report_id", report.ID)
		return nil, nil
	}

	if err := a.reports.UpdateStaff(ctx, report.ID, staff.ID); err != nil {
		return nil, fmt.Errorf("assign staff to report: %w", err)
	}

	event, err := a.events.FindByReport(ctx, report.ID)
	if err != nil {
		return nil, fmt.Errorf("look up report event: %w", err)
	}
	if event != nil {
		if err := a.events.UpdateStaff(ctx, event.ID, staff.ID); err != nil {
			return nil, fmt.Errorf("assign staff to event: %w", err)
		}
	}

	a.logger.InfoContext(ctx, "staff assigned",
		"report_id", report.ID,
		"staff_id", staff.ID,
	)
	return staff, nil
}
