package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"wildlife-report-hub/backend/internal/config"
	"wildlife-report-hub/backend/internal/db"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
	settingsrepo "wildlife-report-hub/backend/internal/settings/repository"
	staffdomain "wildlife-report-hub/backend/internal/staff/domain"
	staffrepo "wildlife-report-hub/backend/internal/staff/repository"
)

// Development seed: one settings row with defaults and a couple of staff
// members around Matsumoto city hall.
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

	ctx := context.Background()

	settings := settingsrepo.NewPostgresRepository(database)
	if err := settings.Create(ctx, settingsdomain.DefaultSettings()); err != nil {
		log.Fatalf("seed settings: %v", err)
	}
	log.Println("seeded default settings")

	staff := staffrepo.NewPostgresRepository(database)
	now := time.Now().UTC()
	seedStaff := []struct {
		name  string
		email string
		label string
		lat   float64
		lng   float64
	}{
		{"山田太郎", "yamada@example.jp", "本庁舎", 36.2380, 137.9720},
		{"佐藤花子", "sato@example.jp", "西支所", 36.2405, 137.9330},
	}
	for _, s := range seedStaff {
		member := &staffdomain.Staff{
			ID:        uuid.NewString(),
			Name:      s.name,
			Email:     s.email,
			CreatedAt: now,
		}
		if err := staff.Create(ctx, member); err != nil {
			log.Fatalf("seed staff %s: %v", s.name, err)
		}
		if err := staff.AddLocation(ctx, &staffdomain.Location{
			ID:        uuid.NewString(),
			StaffID:   member.ID,
			Label:     s.label,
			Latitude:  s.lat,
			Longitude: s.lng,
			CreatedAt: now,
		}); err != nil {
			log.Fatalf("seed staff location %s: %v", s.label, err)
		}
		log.Printf("seeded staff %s (%s)", s.name, s.label)
	}
}
