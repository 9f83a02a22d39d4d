package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wildlife-report-hub/backend/internal/analysis"
	"wildlife-report-hub/backend/internal/config"
	"wildlife-report-hub/backend/internal/conversation"
	"wildlife-report-hub/backend/internal/db"
	eventrepo "wildlife-report-hub/backend/internal/event/repository"
	eventservice "wildlife-report-hub/backend/internal/event/service"
	"wildlife-report-hub/backend/internal/geo"
	"wildlife-report-hub/backend/internal/messaging"
	"wildlife-report-hub/backend/internal/observability"
	reportrepo "wildlife-report-hub/backend/internal/report/repository"
	reportservice "wildlife-report-hub/backend/internal/report/service"
	"wildlife-report-hub/backend/internal/security"
	"wildlife-report-hub/backend/internal/server"
	sessionrepo "wildlife-report-hub/backend/internal/session/repository"
	settingsrepo "wildlife-report-hub/backend/internal/settings/repository"
	staffrepo "wildlife-report-hub/backend/internal/staff/repository"
	staffservice "wildlife-report-hub/backend/internal/staff/service"
	"wildlife-report-hub/backend/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := observability.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "wildlife-report-hub", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("init telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	sessions := sessionrepo.NewPostgresRepository(database)
	settings := settingsrepo.NewPostgresRepository(database)
	reports := reportrepo.NewPostgresRepository(database)
	events := eventrepo.NewPostgresRepository(database)
	staff := staffrepo.NewPostgresRepository(database)

	geocoder := geo.NewClient(cfg.NominatimBaseURL, cfg.OverpassBaseURL, cfg.NominatimUserAgent)
	sender := messaging.NewClient(cfg.MessagingAPIBaseURL, cfg.ChannelAccessToken)
	tokens := security.NewTokenManager(cfg.ReportTokenSecret, cfg.ReportTokenLifetime())

	clustering := eventservice.NewClusteringService(events, reports, logger)
	assigner := staffservice.NewAssigner(staff, reports, events, logger)
	registration := reportservice.NewRegistrationService(
		reports, settings, clustering, assigner, tokens, cfg.AppBaseURL, logger)

	handlers := conversation.NewHandlers(
		analysis.NewTemplateAnalyzer(),
		analysis.NewTemplateQuestionGenerator(),
		analysis.NewTemplateDraftGenerator(),
		geocoder,
		registration,
		logger,
	)
	engine := conversation.NewEngine(sessions, settings, sender, handlers, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(cfg.ChannelSecret, engine).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
