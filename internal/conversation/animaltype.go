package conversation

import (
	"context"

	"wildlife-report-hub/backend/internal/postback"
	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
	settingsdomain "wildlife-report-hub/backend/internal/settings/domain"
)

// AnimalTypeHandler runs the first step: which animal was sighted. It
// accepts the quick-reply postback or free text naming a catalog animal.
type AnimalTypeHandler struct{}

func NewAnimalTypeHandler() *AnimalTypeHandler { return &AnimalTypeHandler{} }

func (h *AnimalTypeHandler) Handle(_ context.Context, sess *sessiondomain.Session, in *Input, settings *settingsdomain.Settings) (*Response, error) {
	animals := reportdomain.Animals(settings.EnabledAnimalTypes)

	key, ok := h.selectedAnimal(in)
	if ok && !enabled(animals, key) {
		ok = false
	}
	if !ok {
		return reprompt(animalTypePrompt(animals)), nil
	}

	sess.State.AnimalType = key
	sess.Step = sessiondomain.StepPhoto
	return respond(photoPrompt()), nil
}

func (h *AnimalTypeHandler) selectedAnimal(in *Input) (string, bool) {
	switch in.Kind {
	case KindPostback:
		if in.Action() != postback.ActionSelectAnimal {
			return "", false
		}
		return reportdomain.ParseAnimal(in.Param(paramAnimal))
	case KindText:
		return reportdomain.ParseAnimal(in.Text)
	default:
		return "", false
	}
}

func enabled(animals []reportdomain.Animal, key string) bool {
	for _, a := range animals {
		if a.Key == key {
			return true
		}
	}
	return false
}
