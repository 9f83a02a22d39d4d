package conversation

import (
	"context"
	"log/slog"

	"wildlife-report-hub/backend/internal/analysis"
	"wildlife-report-hub/backend/internal/postback"
	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
)

// PhotoHandler runs the photo step. Submitted photos are screened against
// the selected animal; after repeated rejections screening is switched off
// so the reporter is never stuck.
type PhotoHandler struct {
	analyzer analysis.ImageAnalyzer
	logger   *slog.Logger
}

func NewPhotoHandler(analyzer analysis.ImageAnalyzer, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{analyzer: analyzer, logger: logger}
}

func (h *PhotoHandler) Handle(ctx context.Context, sess *sessiondomain.Session, in *Input, _ *settingsdomain.Settings) (*Response, error) {
	switch in.Action() {
	case postback.ActionSkipPhoto:
		sess.Step = sessiondomain.StepDateTime
		return respond(dateTimePrompt(nowLocal())), nil
	case postback.ActionAddPhoto:
		return reprompt(photoPrompt()), nil
	}

	if in.Kind != KindImage {
		return reprompt(photoPrompt()), nil
	}

	if sess.State.SkipImageScreening {
		return h.accept(sess, in.ImageID,
			reportdomain.AnimalLabel(sess.State.AnimalType)+"が写っている写真"), nil
	}

	result, err := h.analyzer.AnalyzeImage(ctx, in.ImageID, sess.State.AnimalType)
	if err != nil {
		// Screening is an aid, not a gate. Accept the photo as-is when the
		// analyzer is unavailable.
		h.logger.WarnContext(ctx, "image analysis failed, accepting photo",
			"user_id", sess.UserID, "error", err)
		return h.accept(sess, in.ImageID,
			reportdomain.AnimalLabel(sess.State.AnimalType)+"が写っている写真"), nil
	}

	rejected := !result.Accepted
	if !rejected && result.DetectedAnimal != "" && result.DetectedAnimal != sess.State.AnimalType {
		rejected = true
		result.Reason = "選択した動物と写真の動物が一致しないようです。"
	}
	if rejected {
		sess.State.ImageRejectionCount++
		if sess.State.ImageRejectionCount >= sessiondomain.MaxImageRejections {
			sess.State.SkipImageScreening = true
			return respond(screeningDisabledMessage(), photoPrompt()), nil
		}
		return respond(imageRejectedPrompt(result.Reason)), nil
	}

	return h.accept(sess, in.ImageID, result.Description), nil
}

func (h *PhotoHandler) accept(sess *sessiondomain.Session, imageID, description string) *Response {
	sess.State.Images = append(sess.State.Images, sessiondomain.Image{
		ID:          imageID,
		Description: description,
	})
	sess.State.ProposedDescription = description
	sess.Step = sessiondomain.StepImageDescription
	return respond(imageDescriptionPrompt(description))
}

// ImageDescriptionHandler confirms the proposed description of the last
// accepted photo. Rejecting drops the photo and returns to the photo step.
type ImageDescriptionHandler struct{}

func NewImageDescriptionHandler() *ImageDescriptionHandler {
	return &ImageDescriptionHandler{}
}

func (h *ImageDescriptionHandler) Handle(_ context.Context, sess *sessiondomain.Session, in *Input, _ *settingsdomain.Settings) (*Response, error) {
	switch in.Action() {
	case postback.ActionConfirmDesc:
		if sess.State.Description == "" {
			sess.State.Description = sess.State.ProposedDescription
		} else if sess.State.ProposedDescription != "" {
			sess.State.Description += "。" + sess.State.ProposedDescription
		}
		sess.State.ProposedDescription = ""
		return respond(photoContinuePrompt()), nil
	case postback.ActionRejectDesc:
		if n := len(sess.State.Images); n > 0 {
			sess.State.Images = sess.State.Images[:n-1]
		}
		sess.State.ProposedDescription = ""
		sess.Step = sessiondomain.StepPhoto
		return respond(imageRejectedPrompt("")), nil
	case postback.ActionAddPhoto:
		sess.Step = sessiondomain.StepPhoto
		return respond(photoPrompt()), nil
	case postback.ActionSkipPhoto:
		sess.Step = sessiondomain.StepDateTime
		return respond(dateTimePrompt(nowLocal())), nil
	}
	return reprompt(imageDescriptionPrompt(sess.State.ProposedDescription)), nil
}
