package conversation

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"wildlife-report-hub/backend/internal/messaging"
	"wildlife-report-hub/backend/internal/postback"
	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
)

// ConfirmHandler shows the final draft and waits for the submit decision.
type ConfirmHandler struct{}

func NewConfirmHandler() *ConfirmHandler { return &ConfirmHandler{} }

func (h *ConfirmHandler) Handle(_ context.Context, sess *sessiondomain.Session, in *Input, _ *settingsdomain.Settings) (*Response, error) {
	switch in.Action() {
	case postback.ActionConfirmReport:
		sess.Step = sessiondomain.StepPhoneNumber
		return respond(phoneNumberPrompt()), nil
	// Landmark quick replies can outlive the landmark step; a late tap
	// still records the choice and reruns the behavior questions.
	case postback.ActionSelectLandmark:
		if lm, ok := landmarkByID(sess.State.NearbyLandmarks, in.Param(paramLandmark)); ok {
			sess.State.LandmarkName = lm.Name
		}
		sess.Step = sessiondomain.StepActionCategory
		return respond(actionCategoryPrompt()), nil
	case postback.ActionSkipLandmark:
		sess.State.LandmarkName = ""
		sess.Step = sessiondomain.StepActionCategory
		return respond(actionCategoryPrompt()), nil
	}
	if sess.State.Draft == nil {
		sess.Step = sessiondomain.StepActionCategory
		return respond(actionCategoryPrompt()), nil
	}
	return reprompt(draftPrompt(sess.State.Draft)), nil
}

// phonePattern matches Japanese numbers after hyphens and spaces are
// stripped: a leading zero plus nine or ten more digits.
var phonePattern = regexp.MustCompile(`^0\d{9,10}$`)

// NormalizePhoneNumber strips separators and validates the digits.
func NormalizePhoneNumber(text string) (string, bool) {
	cleaned := strings.NewReplacer("-", "", "ー", "", " ", "", "　", "").Replace(strings.TrimSpace(text))
	if !phonePattern.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}

// PhoneNumberHandler collects an optional callback number and submits the
// report. Submission failure keeps the session so the reporter can retry.
type PhoneNumberHandler struct {
	registrar Registrar
	logger    *slog.Logger
}

func NewPhoneNumberHandler(registrar Registrar, logger *slog.Logger) *PhoneNumberHandler {
	return &PhoneNumberHandler{registrar: registrar, logger: logger}
}

func (h *PhoneNumberHandler) Handle(ctx context.Context, sess *sessiondomain.Session, in *Input, _ *settingsdomain.Settings) (*Response, error) {
	switch {
	case in.Action() == postback.ActionSkipPhoneNumber:
		return h.submit(ctx, sess, "")
	case in.Kind == KindText:
		phone, ok := NormalizePhoneNumber(in.Text)
		if !ok {
			return reprompt(invalidPhonePrompt()), nil
		}
		return h.submit(ctx, sess, phone)
	}
	return reprompt(phoneNumberPrompt()), nil
}

func (h *PhoneNumberHandler) submit(ctx context.Context, sess *sessiondomain.Session, phone string) (*Response, error) {
	state := &sess.State
	images := make([]reportdomain.Image, 0, len(state.Images))
	for _, img := range state.Images {
		images = append(images, reportdomain.Image{ID: img.ID, Description: img.Description})
	}
	input := &reportdomain.NewReportInput{
		AnimalType:  state.AnimalType,
		PhoneNumber: phone,
		Address:     state.Address,
		Images:      images,
	}
	if state.Latitude != nil {
		input.Latitude = *state.Latitude
	}
	if state.Longitude != nil {
		input.Longitude = *state.Longitude
	}
	if state.Draft != nil {
		input.Description = state.Draft.Situation
	} else {
		input.Description = state.ActionDetail
	}

	result, err := h.registrar.Register(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "report submission failed",
			"user_id", sess.UserID, "error", err)
		// The step stays put so the reporter can simply retry.
		messages := []messaging.Message{submitFailedMessage()}
		if state.Draft != nil {
			messages = append(messages, draftPrompt(state.Draft))
		}
		return reprompt(messages...), nil
	}

	return &Response{
		Messages:   completionMessages(result),
		EndSession: true,
	}, nil
}
