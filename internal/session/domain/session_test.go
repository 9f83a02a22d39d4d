package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	s := New("U1234", 24*time.Hour)
	if s.UserID != "U1234" {
		t.Errorf("user id = %q", s.UserID)
	}
	if s.Step != StepAnimalType {
		t.Errorf("step = %q, want %q", s.Step, StepAnimalType)
	}
	if s.ID == "" {
		t.Error("expected generated id")
	}
	want := s.CreatedAt.Add(24 * time.Hour)
	if !s.ExpiresAt.Equal(want) {
		t.Errorf("expires at = %v, want %v", s.ExpiresAt, want)
	}
}

func TestExpired(t *testing.T) {
	s := New("U1", time.Hour)
	if s.Expired(s.CreatedAt.Add(30 * time.Minute)) {
		t.Error("session expired too early")
	}
	if !s.Expired(s.CreatedAt.Add(2 * time.Hour)) {
		t.Error("session should be expired")
	}
}

func TestTouchSlidesExpiry(t *testing.T) {
	s := New("U1", time.Hour)
	later := s.CreatedAt.Add(50 * time.Minute)
	s.Touch(later, time.Hour)
	if !s.ExpiresAt.Equal(later.Add(time.Hour)) {
		t.Errorf("expires at = %v after touch", s.ExpiresAt)
	}
	if !s.UpdatedAt.Equal(later) {
		t.Errorf("updated at = %v after touch", s.UpdatedAt)
	}
}

func TestStateRoundTrip(t *testing.T) {
	lat, lng := 36.23, 137.97
	when := time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)
	in := State{
		AnimalType: "monkey",
		Images: []Image{
			{ID: "msg-1", Description: "サルが写っている写真"},
			{ID: "msg-2", Description: "サルが2頭写っている写真"},
		},
		SightedAt:  &when,
		Latitude:   &lat,
		Longitude:  &lng,
		Address:    "長野県松本市大手3丁目",
		QuestionQueue: []QuestionCard{{
			QuestionID:   "q1",
			QuestionText: "何頭いましたか?",
			Choices:      []QuestionChoice{{ID: "c1", Label: "1頭"}},
			CaptureKey:   "count",
		}},
		ActionAnswers: []QuestionAnswer{{
			QuestionID:           "q1",
			SelectedChoiceIDs:    []string{"c1"},
			SelectedChoiceLabels: []string{"1頭"},
			CaptureKey:           "count",
		}},
		Draft: &ReportDraft{When: "4月1日 9時30分ごろ", Where: "長野県松本市大手3丁目"},
	}

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out State
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if out.AnimalType != "monkey" || len(out.Images) != 2 {
		t.Errorf("unexpected state: %+v", out)
	}
	if out.Images[0].ID != "msg-1" || out.Images[0].Description != "サルが写っている写真" {
		t.Errorf("image pair lost: %+v", out.Images[0])
	}
	if out.Latitude == nil || *out.Latitude != lat {
		t.Error("latitude lost in round trip")
	}
	if len(out.QuestionQueue) != 1 || out.QuestionQueue[0].Choices[0].Label != "1頭" {
		t.Errorf("question queue lost: %+v", out.QuestionQueue)
	}
	if out.Draft == nil || out.Draft.When != "4月1日 9時30分ごろ" {
		t.Error("draft lost in round trip")
	}
}

func TestNormalizeMaterializesSlices(t *testing.T) {
	var s State
	s.Normalize()
	if s.Images == nil || s.NearbyLandmarks == nil || s.QuestionQueue == nil || s.ActionAnswers == nil {
		t.Errorf("normalize left nil slices: %+v", s)
	}
}
