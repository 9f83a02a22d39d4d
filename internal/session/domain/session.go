// Package domain holds the conversation session model. A session tracks one
// reporter's progress through the sighting dialogue and carries everything
// collected so far in its State.
package domain

import (
	"time"

	"github.com/google/uuid"

	"wildlife-report-hub/backend/internal/geo"
)

// Step identifies where the reporter is in the dialogue.
type Step string

const (
	StepAnimalType          Step = "animal-type"
	StepPhoto               Step = "photo"
	StepImageDescription    Step = "image-description"
	StepDateTime            Step = "datetime"
	StepLocation            Step = "location"
	StepLandmarkSelection   Step = "landmark-selection"
	StepActionCategory      Step = "action-category"
	StepActionQuestion      Step = "action-question"
	StepActionDetailConfirm Step = "action-detail-confirm"
	StepConfirm             Step = "confirm"
	StepPhoneNumber         Step = "phone-number"
)

// MaxImageRejections is the number of screening rejections after which
// further photos are accepted without screening.
const MaxImageRejections = 2

// Image is one accepted photo paired with its screening description.
type Image struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// QuestionChoice is one selectable answer on a question card.
type QuestionChoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// QuestionCard is a generated follow-up question about the animal's behavior.
type QuestionCard struct {
	QuestionID   string           `json:"questionId"`
	QuestionText string           `json:"questionText"`
	Choices      []QuestionChoice `json:"choices"`
	CaptureKey   string           `json:"captureKey"`
}

// QuestionAnswer records the reporter's choice for one question card.
type QuestionAnswer struct {
	QuestionID           string   `json:"questionId"`
	QuestionText         string   `json:"questionText"`
	SelectedChoiceIDs    []string `json:"selectedChoiceIds"`
	SelectedChoiceLabels []string `json:"selectedChoiceLabels"`
	CaptureKey           string   `json:"captureKey"`
}

// ReportDraft is the summarized report shown to the reporter before submission.
type ReportDraft struct {
	When      string `json:"when"`
	Where     string `json:"where"`
	What      string `json:"what"`
	Situation string `json:"situation"`
}

// State is everything gathered during the dialogue. Persisted as jsonb, so
// every field needs a stable tag.
type State struct {
	AnimalType string `json:"animalType,omitempty"`

	Images              []Image `json:"images"`
	ImageRejectionCount int     `json:"imageRejectionCount,omitempty"`
	SkipImageScreening  bool    `json:"skipImageScreening,omitempty"`
	ProposedDescription string  `json:"proposedDescription,omitempty"`
	Description         string  `json:"description,omitempty"`

	SightedAt *time.Time `json:"sightedAt,omitempty"`

	Latitude          *float64               `json:"latitude,omitempty"`
	Longitude         *float64               `json:"longitude,omitempty"`
	Address           string                 `json:"address,omitempty"`
	StructuredAddress *geo.StructuredAddress `json:"structuredAddress,omitempty"`
	NearbyLandmarks   []geo.Landmark         `json:"nearbyLandmarks"`
	LandmarkName      string                 `json:"landmarkName,omitempty"`

	ActionCategory  string           `json:"actionCategory,omitempty"`
	QuestionQueue   []QuestionCard   `json:"questionQueue"`
	CurrentQuestion *QuestionCard    `json:"currentQuestion,omitempty"`
	ActionAnswers   []QuestionAnswer `json:"actionAnswers"`
	ActionDetail    string           `json:"actionDetail,omitempty"`

	Draft       *ReportDraft `json:"draft,omitempty"`
	PhoneNumber string       `json:"phoneNumber,omitempty"`
}

// Normalize materializes nil slices so state round-trips through jsonb
// without null-vs-empty surprises.
func (s *State) Normalize() {
	if s.Images == nil {
		s.Images = []Image{}
	}
	if s.NearbyLandmarks == nil {
		s.NearbyLandmarks = []geo.Landmark{}
	}
	if s.QuestionQueue == nil {
		s.QuestionQueue = []QuestionCard{}
	}
	if s.ActionAnswers == nil {
		s.ActionAnswers = []QuestionAnswer{}
	}
}

func InitialState() State {
	var s State
	s.Normalize()
	return s
}

// Session is one reporter's in-progress dialogue.
type Session struct {
	ID        string
	UserID    string
	Step      Step
	State     State
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// New starts a fresh session at the first step.
func New(userID string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Step:      StepAnimalType,
		State:     InitialState(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Touch slides the expiry window forward from now.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}
