// Package service registers finished reports. Registration is three phases:
// the report row itself must be written, while clustering and staff
// assignment are best effort and never fail a submission.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	eventservice "wildlife-report-hub/backend/internal/event/service"
	"wildlife-report-hub/backend/internal/report/domain"
	"wildlife-report-hub/backend/internal/report/repository"
	"wildlife-report-hub/backend/internal/security"
	settingsrepo "wildlife-report-hub/backend/internal/settings/repository"
	staffservice "wildlife-report-hub/backend/internal/staff/service"
)

// RegistrationResult is returned to the dialogue after a submission.
type RegistrationResult struct {
	Report         *domain.Report
	EditURL        string
	MapURL         string
	ClusterOutcome eventservice.Outcome
	EventID        string
}

type RegistrationService struct {
	reports    repository.Repository
	settings   settingsrepo.Repository
	clustering *eventservice.ClusteringService
	assigner   *staffservice.Assigner
	tokens     *security.TokenManager
	appBaseURL string
	logger     *slog.Logger
}

func NewRegistrationService(
	reports repository.Repository,
	settings settingsrepo.Repository,
	clustering *eventservice.ClusteringService,
	assigner *staffservice.Assigner,
	tokens *security.TokenManager,
	appBaseURL string,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		reports:    reports,
		settings:   settings,
		clustering: clustering,
		assigner:   assigner,
		tokens:     tokens,
		appBaseURL: appBaseURL,
		logger:     logger,
	}
}

// Register persists the report and runs the follow-up phases. An error is
// returned only when the report row could not be written; clustering or
// assignment failures are logged and the submission still succeeds.
func (s *RegistrationService) Register(ctx context.Context, input *domain.NewReportInput) (*RegistrationResult, error) {
	ctx, span := otel.Tracer("report").Start(ctx, "RegistrationService.Register")
	defer span.End()

	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}

	report := &domain.Report{
		ID:          uuid.NewString(),
		AnimalType:  input.AnimalType,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
		Description: input.Description,
		Status:      domain.StatusWaiting,
		Images:      input.Images,
		CreatedAt:   time.Now().UTC(),
	}
	if report.Images == nil {
		report.Images = []domain.Image{}
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("register report: %w", err)
	}
	span.SetAttributes(
		attribute.String("report.id", report.ID),
		attribute.String("report.animal_type", report.AnimalType),
	)

	result := &RegistrationResult{
		Report:         report,
		EditURL:        s.editURL(ctx, report.ID),
		MapURL:         mapURL(report.Latitude, report.Longitude),
		ClusterOutcome: eventservice.OutcomePending,
	}

	settings, err := s.settings.Latest(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "load settings for clustering failed",
			"report_id", report.ID, "error", err)
		return result, nil
	}

	if cluster, err := s.clustering.ClusterReport(ctx, report, settings); err != nil {
		s.logger.ErrorContext(ctx, "clustering failed",
			"report_id", report.ID, "error", err)
	} else {
		result.ClusterOutcome = cluster.Outcome
		result.EventID = cluster.EventID
	}

	if staff, err := s.assigner.AssignNearest(ctx, report); err != nil {
		s.logger.ErrorContext(ctx, "staff assignment failed",
			"report_id", report.ID, "error", err)
	} else if staff != nil {
		report.StaffID = &staff.ID
	}

	return result, nil
}

// editURL builds the signed link a reporter can use to amend their report.
// Token issues should not fail; if one does, the link is simply omitted.
func (s *RegistrationService) editURL(ctx context.Context, reportID string) string {
	token, err := s.tokens.IssueReportToken(reportID)
	if err != nil {
		s.logger.ErrorContext(ctx, "issue report token failed",
			"report_id", reportID, "error", err)
		return ""
	}
	return fmt.Sprintf("%s/reports/%s/edit?token=%s",
		s.appBaseURL, reportID, url.QueryEscape(token))
}

func mapURL(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", lat, lng)
}
