// Package conversation drives the sighting report dialogue: one handler per
// step, an engine that dispatches webhook events to them, and the Japanese
// prompts the reporter sees.
package conversation

import (
	"strings"

	"wildlife-report-hub/backend/internal/postback"
)

// InputKind classifies an incoming webhook event.
type InputKind string

const (
	KindText     InputKind = "text"
	KindImage    InputKind = "image"
	KindLocation InputKind = "location"
	KindPostback InputKind = "postback"
	KindFollow   InputKind = "follow"
)

// Input is one reporter interaction, already stripped of transport detail.
type Input struct {
	UserID     string
	ReplyToken string
	Kind       InputKind

	Text string

	ImageID string

	Latitude  float64
	Longitude float64
	Address   string

	Postback *postback.Payload
	// PostbackDatetime carries the datetimepicker result, formatted
	// "2006-01-02T15:04".
	PostbackDatetime string
}

// Action returns the postback action, or "" for non-postback inputs.
func (in *Input) Action() string {
	if in.Kind != KindPostback || in.Postback == nil {
		return ""
	}
	return in.Postback.Action
}

// Param returns a postback parameter, or "" when absent.
func (in *Input) Param(key string) string {
	if in.Postback == nil {
		return ""
	}
	return in.Postback.Get(key)
}

// resetKeywords interrupt the dialogue from any step.
var resetKeywords = []string{"リセット", "reset"}

// IsReset reports whether the input is a reset request.
func (in *Input) IsReset() bool {
	if in.Kind != KindText {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(in.Text))
	for _, kw := range resetKeywords {
		if text == kw {
			return true
		}
	}
	return false
}
