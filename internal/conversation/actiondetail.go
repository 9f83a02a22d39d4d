package conversation

import (
	"context"
	"log/slog"

	"wildlife-report-hub/backend/internal/analysis"
	"wildlife-report-hub/backend/internal/postback"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
)

// ActionCategoryHandler records the behavior category and queues its
// follow-up questions. The whole batch is generated once; cards are then
// served one at a time.
type ActionCategoryHandler struct {
	questions analysis.QuestionGenerator
	logger    *slog.Logger
}

func NewActionCategoryHandler(questions analysis.QuestionGenerator, logger *slog.Logger) *ActionCategoryHandler {
	return &ActionCategoryHandler{questions: questions, logger: logger}
}

func (h *ActionCategoryHandler) Handle(ctx context.Context, sess *sessiondomain.Session, in *Input, _ *settingsdomain.Settings) (*Response, error) {
	if in.Action() != postback.ActionSelectAction {
		return reprompt(actionCategoryPrompt()), nil
	}
	category := in.Param(paramCategory)
	if !analysis.ValidCategory(category) {
		return reprompt(actionCategoryPrompt()), nil
	}
	sess.State.ActionCategory = category

	cards, err := h.questions.GenerateQuestions(ctx, sess.State.AnimalType, category)
	if err != nil || len(cards) == 0 {
		if err != nil {
			h.logger.WarnContext(ctx, "question generation failed",
				"user_id", sess.UserID, "category", category, "error", err)
		}
		// No questions to ask: the category label alone becomes the detail.
		sess.State.ActionDetail = analysis.CategoryLabel(category)
		sess.Step = sessiondomain.StepActionDetailConfirm
		return respond(actionDetailPrompt(sess.State.ActionDetail)), nil
	}

	sess.State.CurrentQuestion = &cards[0]
	sess.State.QuestionQueue = cards[1:]
	sess.Step = sessiondomain.StepActionQuestion
	return respond(questionPrompt(sess.State.CurrentQuestion)), nil
}

// ActionQuestionHandler consumes the question queue one answer at a time,
// then has the detail sentence generated.
type ActionQuestionHandler struct {
	drafts analysis.DraftGenerator
	logger *slog.Logger
}

func NewActionQuestionHandler(drafts analysis.DraftGenerator, logger *slog.Logger) *ActionQuestionHandler {
	return &ActionQuestionHandler{drafts: drafts, logger: logger}
}

func (h *ActionQuestionHandler) Handle(ctx context.Context, sess *sessiondomain.Session, in *Input, _ *settingsdomain.Settings) (*Response, error) {
	card := sess.State.CurrentQuestion
	if card == nil {
		// Queue state was lost; fall back to picking the category again.
		sess.Step = sessiondomain.StepActionCategory
		return respond(actionCategoryPrompt()), nil
	}

	if in.Action() != postback.ActionAnswerQuestion || in.Param(paramQuestionID) != card.QuestionID {
		return reprompt(questionPrompt(card)), nil
	}
	choice, ok := findChoice(card, in.Param(paramChoiceID))
	if !ok {
		return reprompt(questionPrompt(card)), nil
	}

	sess.State.ActionAnswers = append(sess.State.ActionAnswers, sessiondomain.QuestionAnswer{
		QuestionID:           card.QuestionID,
		QuestionText:         card.QuestionText,
		SelectedChoiceIDs:    []string{choice.ID},
		SelectedChoiceLabels: []string{choice.Label},
		CaptureKey:           card.CaptureKey,
	})

	if len(sess.State.QuestionQueue) > 0 {
		next := sess.State.QuestionQueue[0]
		sess.State.CurrentQuestion = &next
		sess.State.QuestionQueue = sess.State.QuestionQueue[1:]
		return respond(questionPrompt(sess.State.CurrentQuestion)), nil
	}
	sess.State.CurrentQuestion = nil

	detail, err := h.drafts.GenerateActionDetail(ctx, sess.State.AnimalType,
		sess.State.ActionCategory, sess.State.ActionAnswers)
	if err != nil {
		h.logger.WarnContext(ctx, "action detail generation failed",
			"user_id", sess.UserID, "error", err)
		detail = analysis.CategoryLabel(sess.State.ActionCategory)
	}
	sess.State.ActionDetail = detail
	sess.Step = sessiondomain.StepActionDetailConfirm
	return respond(actionDetailPrompt(detail)), nil
}

func findChoice(card *sessiondomain.QuestionCard, choiceID string) (sessiondomain.QuestionChoice, bool) {
	for _, c := range card.Choices {
		if c.ID == choiceID {
			return c, true
		}
	}
	return sessiondomain.QuestionChoice{}, false
}

// ActionDetailConfirmHandler lets the reporter accept the generated detail
// or redo the question round, then produces the confirmation draft.
type ActionDetailConfirmHandler struct {
	drafts analysis.DraftGenerator
}

func NewActionDetailConfirmHandler(drafts analysis.DraftGenerator) *ActionDetailConfirmHandler {
	return &ActionDetailConfirmHandler{drafts: drafts}
}

func (h *ActionDetailConfirmHandler) Handle(ctx context.Context, sess *sessiondomain.Session, in *Input, _ *settingsdomain.Settings) (*Response, error) {
	switch in.Action() {
	case postback.ActionConfirmDetail:
		draft, err := h.drafts.GenerateDraft(ctx, &sess.State)
		if err != nil {
			return nil, err
		}
		sess.State.Draft = draft
		sess.Step = sessiondomain.StepConfirm
		return respond(draftPrompt(draft)), nil
	case postback.ActionRestartDetail:
		sess.State.ActionCategory = ""
		sess.State.ActionDetail = ""
		sess.State.ActionAnswers = nil
		sess.State.QuestionQueue = nil
		sess.State.CurrentQuestion = nil
		sess.State.Normalize()
		sess.Step = sessiondomain.StepActionCategory
		return respond(actionCategoryPrompt()), nil
	}
	return reprompt(actionDetailPrompt(sess.State.ActionDetail)), nil
}
