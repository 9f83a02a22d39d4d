// Package domain holds the sighting report model and the animal catalog.
package domain

import (
	"errors"
	"time"
)

var (
	ErrReportNotFound = errors.New("report not found")
)

// Report status. Reports start waiting; administrators mark them completed
// once handled.
const (
	StatusWaiting   = "waiting"
	StatusCompleted = "completed"
)

// Image is one submitted photo paired with its confirmed description.
type Image struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Animal identifies a reportable species.
type Animal struct {
	Key   string
	Label string
}

// defaultAnimals is the built-in catalog. The enabled subset comes from
// system settings; keys not listed here are still accepted as "other".
var defaultAnimals = []Animal{
	{Key: "monkey", Label: "サル"},
	{Key: "deer", Label: "シカ"},
	{Key: "wild_boar", Label: "イノシシ"},
	{Key: "bear", Label: "クマ"},
	{Key: "other", Label: "その他"},
}

// Animals returns the catalog entries for the given enabled keys, in catalog
// order. Unknown keys are ignored; an empty list yields the full catalog.
func Animals(enabledKeys []string) []Animal {
	if len(enabledKeys) == 0 {
		out := make([]Animal, len(defaultAnimals))
		copy(out, defaultAnimals)
		return out
	}
	enabled := make(map[string]bool, len(enabledKeys))
	for _, k := range enabledKeys {
		enabled[k] = true
	}
	var out []Animal
	for _, a := range defaultAnimals {
		if enabled[a.Key] {
			out = append(out, a)
		}
	}
	return out
}

// AnimalLabel returns the Japanese label for a catalog key, or the key
// itself when unknown.
func AnimalLabel(key string) string {
	for _, a := range defaultAnimals {
		if a.Key == key {
			return a.Label
		}
	}
	return key
}

// ParseAnimal resolves free text to a catalog key, matching either the key
// or the Japanese label.
func ParseAnimal(text string) (string, bool) {
	for _, a := range defaultAnimals {
		if text == a.Key || text == a.Label {
			return a.Key, true
		}
	}
	return "", false
}

// Report is one registered sighting.
type Report struct {
	ID          string
	AnimalType  string
	Latitude    float64
	Longitude   float64
	Address     string
	PhoneNumber string
	Description string
	Status      string
	StaffID     *string
	Images      []Image
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// NewReportInput is what the dialogue hands over for registration.
type NewReportInput struct {
	AnimalType  string
	Latitude    float64
	Longitude   float64
	Address     string
	PhoneNumber string
	Description string
	Images      []Image
}

func (in *NewReportInput) Validate() error {
	if in.AnimalType == "" {
		return errors.New("animal type is required")
	}
	if in.Latitude == 0 && in.Longitude == 0 {
		return errors.New("location is required")
	}
	return nil
}
