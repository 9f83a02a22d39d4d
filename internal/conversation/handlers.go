package conversation

import (
	"log/slog"

	"wildlife-report-hub/backend/internal/analysis"
	"wildlife-report-hub/backend/internal/geo"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
)

// NewHandlers wires the complete step handler set for the engine.
func NewHandlers(
	analyzer analysis.ImageAnalyzer,
	questions analysis.QuestionGenerator,
	drafts analysis.DraftGenerator,
	geocoder geo.Geocoder,
	registrar Registrar,
	logger *slog.Logger,
) map[sessiondomain.Step]Handler {
	return map[sessiondomain.Step]Handler{
		sessiondomain.StepAnimalType:          NewAnimalTypeHandler(),
		sessiondomain.StepPhoto:               NewPhotoHandler(analyzer, logger),
		sessiondomain.StepImageDescription:    NewImageDescriptionHandler(),
		sessiondomain.StepDateTime:            NewDateTimeHandler(),
		sessiondomain.StepLocation:            NewLocationHandler(geocoder, logger),
		sessiondomain.StepLandmarkSelection:   NewLandmarkHandler(),
		sessiondomain.StepActionCategory:      NewActionCategoryHandler(questions, logger),
		sessiondomain.StepActionQuestion:      NewActionQuestionHandler(drafts, logger),
		sessiondomain.StepActionDetailConfirm: NewActionDetailConfirmHandler(drafts),
		sessiondomain.StepConfirm:             NewConfirmHandler(),
		sessiondomain.StepPhoneNumber:         NewPhoneNumberHandler(registrar, logger),
	}
}
