package conversation

import (
	"context"

	"wildlife-report-hub/backend/internal/messaging"
	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	reportservice "wildlife-report-hub/backend/internal/report/service"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
)

// Response is what a step handler wants sent back. Save marks that the
// input was accepted and the session changed; rejected inputs leave it
// unset so re-prompting never slides the expiry window. EndSession marks
// the dialogue finished; the engine discards the session instead.
type Response struct {
	Messages   []messaging.Message
	Save       bool
	EndSession bool
}

// Handler advances the dialogue for the step the session is on. Handlers
// mutate the session in place; the engine persists it afterwards.
type Handler interface {
	Handle(ctx context.Context, sess *sessiondomain.Session, in *Input, settings *settingsdomain.Settings) (*Response, error)
}

// Registrar submits a finished report. Satisfied by the report
// registration service.
type Registrar interface {
	Register(ctx context.Context, input *reportdomain.NewReportInput) (*reportservice.RegistrationResult, error)
}

func respond(messages ...messaging.Message) *Response {
	return &Response{Messages: messages, Save: true}
}

// reprompt re-issues a prompt for input the handler did not accept. The
// session is left untouched and not persisted.
func reprompt(messages ...messaging.Message) *Response {
	return &Response{Messages: messages}
}
