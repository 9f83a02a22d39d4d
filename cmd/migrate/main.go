package main

import (
	"errors"
	"flag"
	"log"

	"wildlife-report-hub/backend/internal/config"
	"wildlife-report-hub/backend/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("no migrations to apply")
			return
		}
		log.Fatalf("migrate %s: %v", *direction, err)
	}
	log.Printf("migrations %s applied", *direction)
}
