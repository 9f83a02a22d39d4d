package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"wildlife-report-hub/backend/internal/messaging"
	"wildlife-report-hub/backend/internal/postback"
	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
	sessionrepo "wildlife-report-hub/backend/internal/session/repository"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
	settingsrepo "wildlife-report-hub/backend/internal/settings/repository"
)

// Engine routes reporter inputs to the handler for their current step and
// persists the session around each turn. Reset keywords and the start-over
// action interrupt any step.
type Engine struct {
	sessions sessionrepo.Repository
	settings settingsrepo.Repository
	sender   messaging.Sender
	handlers map[sessiondomain.Step]Handler
	logger   *slog.Logger
}

func NewEngine(
	sessions sessionrepo.Repository,
	settings settingsrepo.Repository,
	sender messaging.Sender,
	handlers map[sessiondomain.Step]Handler,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		sessions: sessions,
		settings: settings,
		sender:   sender,
		handlers: handlers,
		logger:   logger,
	}
}

// Handle processes one webhook event end to end: interrupt checks, session
// load, step dispatch, session save, reply.
func (e *Engine) Handle(ctx context.Context, in *Input) error {
	ctx, span := otel.Tracer("conversation").Start(ctx, "Engine.Handle")
	defer span.End()
	span.SetAttributes(attribute.String("input.kind", string(in.Kind)))

	settings := e.loadSettings(ctx)
	ttl := time.Duration(settings.SessionTTLHours) * time.Hour

	if in.Kind == KindFollow {
		sess := sessiondomain.New(in.UserID, ttl)
		if err := e.sessions.Save(ctx, sess); err != nil {
			return fmt.Errorf("start session on follow: %w", err)
		}
		return e.reply(ctx, in, greetingMessage(), animalTypePrompt(e.animals(settings)))
	}

	if in.IsReset() {
		if err := e.sessions.DeleteByUser(ctx, in.UserID); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
		return e.reply(ctx, in, resetMessage(), animalTypePrompt(e.animals(settings)))
	}

	if in.Action() == postback.ActionStartOver {
		sess := sessiondomain.New(in.UserID, ttl)
		if err := e.sessions.Save(ctx, sess); err != nil {
			return fmt.Errorf("restart session: %w", err)
		}
		return e.reply(ctx, in, startOverMessage(), animalTypePrompt(e.animals(settings)))
	}

	sess, err := e.sessions.FindByUser(ctx, in.UserID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		sess = sessiondomain.New(in.UserID, ttl)
	}
	span.SetAttributes(attribute.String("session.step", string(sess.Step)))

	handler, ok := e.handlers[sess.Step]
	if !ok {
		// Sessions written by older versions can carry steps we no longer
		// know. Start the dialogue over instead of going silent.
		e.logger.WarnContext(ctx, "unknown session step, restarting",
			"user_id", in.UserID, "step", string(sess.Step))
		sess = sessiondomain.New(in.UserID, ttl)
		if err := e.sessions.Save(ctx, sess); err != nil {
			return fmt.Errorf("restart session: %w", err)
		}
		return e.reply(ctx, in, startOverMessage(), animalTypePrompt(e.animals(settings)))
	}

	resp, err := handler.Handle(ctx, sess, in, settings)
	if err != nil {
		e.logger.ErrorContext(ctx, "step handler failed",
			"user_id", in.UserID, "step", string(sess.Step), "error", err)
		return e.reply(ctx, in, errorMessage())
	}

	switch {
	case resp.EndSession:
		if err := e.sessions.DeleteByUser(ctx, in.UserID); err != nil {
			return fmt.Errorf("end session: %w", err)
		}
	case resp.Save:
		sess.Touch(time.Now().UTC(), ttl)
		if err := e.sessions.Save(ctx, sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	return e.reply(ctx, in, resp.Messages...)
}

func (e *Engine) reply(ctx context.Context, in *Input, messages ...messaging.Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := e.sender.Reply(ctx, in.ReplyToken, messages); err != nil {
		return fmt.Errorf("reply to %s: %w", in.UserID, err)
	}
	return nil
}

// loadSettings falls back to defaults so a settings outage never blocks
// the dialogue.
func (e *Engine) loadSettings(ctx context.Context) *settingsdomain.Settings {
	settings, err := e.settings.Latest(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, "load settings failed, using defaults", "error", err)
		return settingsdomain.DefaultSettings()
	}
	return settings
}

func (e *Engine) animals(settings *settingsdomain.Settings) []reportdomain.Animal {
	return reportdomain.Animals(settings.EnabledAnimalTypes)
}
