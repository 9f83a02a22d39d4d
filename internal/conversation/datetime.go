package conversation

import (
	"context"
	"time"

	"wildlife-report-hub/backend/internal/postback"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
)

// datetimePickerLayout is the format the platform's datetimepicker returns.
const datetimePickerLayout = "2006-01-02T15:04"

func nowLocal() time.Time {
	return time.Now().In(time.Local)
}

// DateTimeHandler asks when the animal was sighted: right now, or a picked
// datetime.
type DateTimeHandler struct{}

func NewDateTimeHandler() *DateTimeHandler { return &DateTimeHandler{} }

func (h *DateTimeHandler) Handle(_ context.Context, sess *sessiondomain.Session, in *Input, _ *settingsdomain.Settings) (*Response, error) {
	switch in.Action() {
	case postback.ActionDateTimeNow:
		now := nowLocal()
		sess.State.SightedAt = &now
		sess.Step = sessiondomain.StepLocation
		return respond(locationPrompt()), nil
	case postback.ActionSelectDateTime:
		picked, err := time.ParseInLocation(datetimePickerLayout, in.PostbackDatetime, time.Local)
		if err != nil {
			return reprompt(dateTimePrompt(nowLocal())), nil
		}
		sess.State.SightedAt = &picked
		sess.Step = sessiondomain.StepLocation
		return respond(locationPrompt()), nil
	}
	return reprompt(dateTimePrompt(nowLocal())), nil
}
