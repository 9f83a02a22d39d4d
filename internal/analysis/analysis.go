// Package analysis produces the generated parts of the dialogue: photo
// screening verdicts, behavior follow-up questions, and the report draft.
// Implementations may call an external model; the template implementations
// here are deterministic.
package analysis

import (
	"context"

	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
)

// ImageAnalysis is a screening verdict for one submitted photo.
type ImageAnalysis struct {
	Accepted       bool
	DetectedAnimal string // catalog key, empty when undetermined
	Description    string
	Reason         string // set when rejected
}

// ImageAnalyzer screens a photo against the animal the reporter selected.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, imageID, expectedAnimal string) (*ImageAnalysis, error)
}

// QuestionGenerator produces the follow-up question batch for a behavior
// category. The whole batch is generated up front and consumed one card at
// a time.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, animalType, category string) ([]sessiondomain.QuestionCard, error)
}

// DraftGenerator turns collected answers into reporter-facing text.
type DraftGenerator interface {
	GenerateActionDetail(ctx context.Context, animalType, category string, answers []sessiondomain.QuestionAnswer) (string, error)
	GenerateDraft(ctx context.Context, state *sessiondomain.State) (*sessiondomain.ReportDraft, error)
}

// ActionCategory is one behavior kind the reporter can pick.
type ActionCategory struct {
	Key   string
	Label string
}

var actionCategories = []ActionCategory{
	{Key: "movement", Label: "移動"},
	{Key: "stay", Label: "滞留"},
	{Key: "approach", Label: "接近"},
	{Key: "feeding", Label: "採食"},
	{Key: "threat", Label: "威嚇"},
	{Key: "escape", Label: "逃避"},
	{Key: "damage", Label: "被害"},
	{Key: "other", Label: "その他"},
}

func Categories() []ActionCategory {
	out := make([]ActionCategory, len(actionCategories))
	copy(out, actionCategories)
	return out
}

// CategoryLabel returns the Japanese label for a category key, or the key
// itself when unknown.
func CategoryLabel(key string) string {
	for _, c := range actionCategories {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}

// ValidCategory reports whether key names a known behavior category.
func ValidCategory(key string) bool {
	for _, c := range actionCategories {
		if c.Key == key {
			return true
		}
	}
	return false
}
