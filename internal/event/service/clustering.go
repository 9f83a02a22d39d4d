// Package service implements event clustering: deciding whether a new report
// joins an existing event, opens a new one together with a pending report,
// or stays unclustered.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	eventdomain "wildlife-report-hub/backend/internal/event/domain"
	eventrepo "wildlife-report-hub/backend/internal/event/repository"
	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	reportrepo "wildlife-report-hub/backend/internal/report/repository"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
)

// Outcome names what clustering did with a report.
type Outcome string

const (
	// OutcomeAttached means the report joined an existing event.
	OutcomeAttached Outcome = "attached"
	// OutcomeCreated means the report and a pending report opened a new event.
	OutcomeCreated Outcome = "created"
	// OutcomePending means no match was found and the report stays on its own.
	OutcomePending Outcome = "pending"
)

// Result describes the clustering decision for one report.
type Result struct {
	Outcome Outcome
	EventID string
}

type ClusteringService struct {
	events  eventrepo.Repository
	reports reportrepo.Repository
	logger  *slog.Logger
}

func NewClusteringService(events eventrepo.Repository, reports reportrepo.Repository, logger *slog.Logger) *ClusteringService {
	return &ClusteringService{events: events, reports: reports, logger: logger}
}

// ClusterReport places a freshly registered report. Matching considers only
// reports and events of the same animal type, within the configured time
// window and radius; the nearest match wins. The whole decision runs under
// a per-animal advisory lock so two concurrent registrations cannot open
// duplicate events.
func (s *ClusteringService) ClusterReport(ctx context.Context, report *reportdomain.Report, settings *settingsdomain.Settings) (*Result, error) {
	window := time.Duration(settings.ClusteringTimeMinutes) * time.Minute
	radius := float64(settings.ClusteringRadiusMeters)
	since := report.CreatedAt.Add(-window)

	result := &Result{Outcome: OutcomePending}
	err := s.events.WithAnimalLock(ctx, report.AnimalType, func(ctx context.Context) error {
		event, err := s.events.FindNearest(ctx, report.AnimalType,
			report.Latitude, report.Longitude, radius, since)
		if err != nil {
			return err
		}
		if event != nil {
			if err := s.events.AttachReport(ctx, event.ID, report.ID); err != nil {
				return err
			}
			result.Outcome = OutcomeAttached
			result.EventID = event.ID
			return nil
		}

		candidates, err := s.reports.FindNearbyUnclustered(ctx, report.AnimalType,
			report.ID, report.Latitude, report.Longitude, radius, since)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}

		// The earlier pending report opens the event and sets its center.
		representative := candidates[0]
		event = &eventdomain.Event{
			ID:                     uuid.NewString(),
			RepresentativeReportID: representative.ID,
			CenterLatitude:         representative.Latitude,
			CenterLongitude:        representative.Longitude,
			CreatedAt:              time.Now().UTC(),
		}
		if err := s.events.Create(ctx, event, []string{representative.ID, report.ID}); err != nil {
			return err
		}
		result.Outcome = OutcomeCreated
		result.EventID = event.ID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cluster report %s: %w", report.ID, err)
	}

	s.logger.InfoContext(ctx, "report clustered",
		"report_id", report.ID,
		"animal_type", report.AnimalType,
		"outcome", string(result.Outcome),
		"event_id", result.EventID,
	)
	return result, nil
}
