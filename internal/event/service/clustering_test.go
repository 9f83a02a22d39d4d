package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	eventdomain "wildlife-report-hub/backend/internal/event/domain"
	"wildlife-report-hub/backend/internal/geo"
	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
)

type memEventRepo struct {
	mu          sync.Mutex
	events      map[string]*eventdomain.Event
	eventAnimal map[string]string
	members     map[string][]string
	lockKeys    []string
	reports     *memReportRepo
}

func newMemEventRepo(reports *memReportRepo) *memEventRepo {
	return &memEventRepo{
		events:      make(map[string]*eventdomain.Event),
		eventAnimal: make(map[string]string),
		members:     make(map[string][]string),
		reports:     reports,
	}
}

func (r *memEventRepo) FindNearest(_ context.Context, animalType string, lat, lng, radiusMeters float64, since time.Time) (*eventdomain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *eventdomain.Event
	bestDist := radiusMeters
	for id, ev := range r.events {
		if r.eventAnimal[id] != animalType || ev.UpdatedAt.Before(since) {
			continue
		}
		d := geo.DistanceMeters(lat, lng, ev.CenterLatitude, ev.CenterLongitude)
		if d <= bestDist {
			best = ev
			bestDist = d
		}
	}
	if best == nil {
		return nil, nil
	}
	copied := *best
	return &copied, nil
}

func (r *memEventRepo) Create(_ context.Context, event *eventdomain.Event, reportIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	copied.UpdatedAt = copied.CreatedAt
	r.events[event.ID] = &copied
	r.eventAnimal[event.ID] = r.reports.animalOf(event.RepresentativeReportID)
	r.members[event.ID] = append([]string(nil), reportIDs...)
	return nil
}

func (r *memEventRepo) AttachReport(_ context.Context, eventID, reportID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[eventID] = append(r.members[eventID], reportID)
	r.events[eventID].UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memEventRepo) FindByReport(_ context.Context, reportID string) (*eventdomain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, members := range r.members {
		for _, m := range members {
			if m == reportID {
				copied := *r.events[id]
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (r *memEventRepo) UpdateStaff(_ context.Context, eventID, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[eventID]
	if !ok {
		return eventdomain.ErrEventNotFound
	}
	ev.StaffID = &staffID
	return nil
}

func (r *memEventRepo) WithAnimalLock(ctx context.Context, animalType string, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	r.lockKeys = append(r.lockKeys, animalType)
	r.mu.Unlock()
	return fn(ctx)
}

func (r *memEventRepo) clustered(reportID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, members := range r.members {
		for _, m := range members {
			if m == reportID {
				return true
			}
		}
	}
	return false
}

type memReportRepo struct {
	mu      sync.Mutex
	reports map[string]*reportdomain.Report
	events  *memEventRepo
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{reports: make(map[string]*reportdomain.Report)}
}

func (r *memReportRepo) Create(_ context.Context, report *reportdomain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *report
	r.reports[report.ID] = &copied
	return nil
}

func (r *memReportRepo) FindByID(_ context.Context, id string) (*reportdomain.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, nil
	}
	copied := *report
	return &copied, nil
}

func (r *memReportRepo) FindNearbyUnclustered(_ context.Context, animalType, excludeID string, lat, lng, radiusMeters float64, since time.Time) ([]reportdomain.Report, error) {
	r.mu.Lock()
	candidates := make([]reportdomain.Report, 0)
	for _, report := range r.reports {
		if report.ID == excludeID || report.AnimalType != animalType || report.CreatedAt.Before(since) {
			continue
		}
		if geo.DistanceMeters(lat, lng, report.Latitude, report.Longitude) > radiusMeters {
			continue
		}
		candidates = append(candidates, *report)
	}
	r.mu.Unlock()

	filtered := candidates[:0]
	for _, c := range candidates {
		if r.events == nil || !r.events.clustered(c.ID) {
			filtered = append(filtered, c)
		}
	}
	// nearest first
	for i := 0; i < len(filtered); i++ {
		for j := i + 1; j < len(filtered); j++ {
			di := geo.DistanceMeters(lat, lng, filtered[i].Latitude, filtered[i].Longitude)
			dj := geo.DistanceMeters(lat, lng, filtered[j].Latitude, filtered[j].Longitude)
			if dj < di {
				filtered[i], filtered[j] = filtered[j], filtered[i]
			}
		}
	}
	return filtered, nil
}

func (r *memReportRepo) UpdateStaff(_ context.Context, reportID, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[reportID]
	if !ok {
		return reportdomain.ErrReportNotFound
	}
	report.StaffID = &staffID
	return nil
}

func (r *memReportRepo) UpdateDescription(_ context.Context, reportID, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[reportID]
	if !ok {
		return reportdomain.ErrReportNotFound
	}
	report.Description = description
	return nil
}

func (r *memReportRepo) SoftDelete(_ context.Context, reportID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reports, reportID)
	return nil
}

func (r *memReportRepo) animalOf(reportID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if report, ok := r.reports[reportID]; ok {
		return report.AnimalType
	}
	return ""
}

func newClusteringFixture() (*ClusteringService, *memReportRepo, *memEventRepo) {
	reports := newMemReportRepo()
	events := newMemEventRepo(reports)
	reports.events = events
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClusteringService(events, reports, logger), reports, events
}

func addReport(t *testing.T, repo *memReportRepo, animal string, lat, lng float64, createdAt time.Time) *reportdomain.Report {
	t.Helper()
	report := &reportdomain.Report{
		ID:         uuid.NewString(),
		AnimalType: animal,
		Latitude:   lat,
		Longitude:  lng,
		Status:     reportdomain.StatusWaiting,
		CreatedAt:  createdAt,
	}
	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatal(err)
	}
	return report
}

// Roughly 50 m north at these latitudes.
const latStep50m = 0.00045

func TestClusterCloseReportsShareEvent(t *testing.T) {
	svc, reports, events := newClusteringFixture()
	settings := settingsdomain.DefaultSettings()
	now := time.Now().UTC()

	first := addReport(t, reports, "monkey", 36.2300, 137.9700, now.Add(-5*time.Minute))
	second := addReport(t, reports, "monkey", 36.2300+latStep50m, 137.9700, now)

	result, err := svc.ClusterReport(context.Background(), second, settings)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != OutcomeCreated {
		t.Fatalf("outcome = %q, want created", result.Outcome)
	}
	if !events.clustered(first.ID) || !events.clustered(second.ID) {
		t.Error("both reports should be in the event")
	}
	ev := events.events[result.EventID]
	if ev.RepresentativeReportID != first.ID {
		t.Errorf("representative = %q, want the earlier report", ev.RepresentativeReportID)
	}
	if ev.CenterLatitude != first.Latitude {
		t.Errorf("center = %f, want the representative's location", ev.CenterLatitude)
	}
}

func TestClusterThirdReportAttachesToEvent(t *testing.T) {
	svc, reports, events := newClusteringFixture()
	settings := settingsdomain.DefaultSettings()
	now := time.Now().UTC()

	addReport(t, reports, "monkey", 36.2300, 137.9700, now.Add(-10*time.Minute))
	second := addReport(t, reports, "monkey", 36.2300+latStep50m, 137.9700, now.Add(-5*time.Minute))
	if _, err := svc.ClusterReport(context.Background(), second, settings); err != nil {
		t.Fatal(err)
	}

	third := addReport(t, reports, "monkey", 36.2300+2*latStep50m, 137.9700, now)
	result, err := svc.ClusterReport(context.Background(), third, settings)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != OutcomeAttached {
		t.Fatalf("outcome = %q, want attached", result.Outcome)
	}
	if len(events.members[result.EventID]) != 3 {
		t.Errorf("event has %d members", len(events.members[result.EventID]))
	}
}

func TestClusterDistantReportStaysPending(t *testing.T) {
	svc, reports, _ := newClusteringFixture()
	settings := settingsdomain.DefaultSettings()
	now := time.Now().UTC()

	// About 2 km away: outside the 500 m default radius.
	addReport(t, reports, "monkey", 36.2300, 137.9700, now.Add(-5*time.Minute))
	far := addReport(t, reports, "monkey", 36.2300+0.018, 137.9700, now)

	result, err := svc.ClusterReport(context.Background(), far, settings)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != OutcomePending {
		t.Fatalf("outcome = %q, want pending", result.Outcome)
	}
}

func TestClusterOldReportStaysPending(t *testing.T) {
	svc, reports, _ := newClusteringFixture()
	settings := settingsdomain.DefaultSettings()
	now := time.Now().UTC()

	// Two hours apart: outside the 60 minute default window.
	addReport(t, reports, "monkey", 36.2300, 137.9700, now.Add(-2*time.Hour))
	late := addReport(t, reports, "monkey", 36.2300+latStep50m, 137.9700, now)

	result, err := svc.ClusterReport(context.Background(), late, settings)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != OutcomePending {
		t.Fatalf("outcome = %q, want pending", result.Outcome)
	}
}

func TestClusterIgnoresOtherAnimals(t *testing.T) {
	svc, reports, _ := newClusteringFixture()
	settings := settingsdomain.DefaultSettings()
	now := time.Now().UTC()

	addReport(t, reports, "deer", 36.2300, 137.9700, now.Add(-5*time.Minute))
	monkey := addReport(t, reports, "monkey", 36.2300+latStep50m, 137.9700, now)

	result, err := svc.ClusterReport(context.Background(), monkey, settings)
	if err != nil {
		t.Fatal(err)
	}
	if result.Outcome != OutcomePending {
		t.Fatalf("outcome = %q, different animals must not cluster", result.Outcome)
	}
}

func TestClusterTakesAnimalLock(t *testing.T) {
	svc, reports, events := newClusteringFixture()
	now := time.Now().UTC()
	report := addReport(t, reports, "bear", 36.0, 138.0, now)

	if _, err := svc.ClusterReport(context.Background(), report, settingsdomain.DefaultSettings()); err != nil {
		t.Fatal(err)
	}
	if len(events.lockKeys) != 1 || events.lockKeys[0] != "bear" {
		t.Errorf("lock keys = %v", events.lockKeys)
	}
}
