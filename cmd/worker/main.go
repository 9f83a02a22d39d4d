package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wildlife-report-hub/backend/internal/config"
	"wildlife-report-hub/backend/internal/db"
	"wildlife-report-hub/backend/internal/observability"
	sessionrepo "wildlife-report-hub/backend/internal/session/repository"
	"wildlife-report-hub/backend/internal/worker"
)

// Worker process: periodically sweeps expired conversation sessions.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := worker.NewSessionSweeper(
		sessionrepo.NewPostgresRepository(database),
		cfg.SweepInterval(),
		observability.Logger(),
	)
	log.Printf("session sweeper running every %s", cfg.SweepInterval())
	sweeper.Run(ctx)
	log.Println("worker stopped")
}
