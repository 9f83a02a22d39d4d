package analysis

import (
	"context"
	"fmt"
	"strings"

	reportdomain "wildlife-report-hub/backend/internal/report/domain"
	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
)

// TemplateAnalyzer accepts every photo and describes it from the selected
// animal. It stands in where no vision model is configured.
type TemplateAnalyzer struct{}

func NewTemplateAnalyzer() *TemplateAnalyzer { return &TemplateAnalyzer{} }

func (a *TemplateAnalyzer) AnalyzeImage(_ context.Context, _, expectedAnimal string) (*ImageAnalysis, error) {
	label := reportdomain.AnimalLabel(expectedAnimal)
	return &ImageAnalysis{
		Accepted:       true,
		DetectedAnimal: expectedAnimal,
		Description:    label + "が写っている写真",
	}, nil
}

// countQuestion is asked for every category.
var countQuestion = sessiondomain.QuestionCard{
	QuestionID:   "count",
	QuestionText: "何頭くらい見かけましたか?",
	Choices: []sessiondomain.QuestionChoice{
		{ID: "one", Label: "1頭"},
		{ID: "few", Label: "2〜3頭"},
		{ID: "many", Label: "4頭以上"},
		{ID: "unknown", Label: "わからない"},
	},
	CaptureKey: "count",
}

var categoryQuestions = map[string]sessiondomain.QuestionCard{
	"movement": {
		QuestionID:   "movement_direction",
		QuestionText: "どちらの方向へ移動していましたか?",
		Choices: []sessiondomain.QuestionChoice{
			{ID: "mountain", Label: "山の方向"},
			{ID: "residential", Label: "住宅地の方向"},
			{ID: "road", Label: "道路沿い"},
			{ID: "unknown", Label: "わからない"},
		},
		CaptureKey: "direction",
	},
	"stay": {
		QuestionID:   "stay_place",
		QuestionText: "どのような場所にとどまっていましたか?",
		Choices: []sessiondomain.QuestionChoice{
			{ID: "field", Label: "田畑"},
			{ID: "garden", Label: "庭・敷地内"},
			{ID: "roadside", Label: "道路・路肩"},
			{ID: "other", Label: "その他"},
		},
		CaptureKey: "place",
	},
	"approach": {
		QuestionID:   "approach_target",
		QuestionText: "何に近づいていましたか?",
		Choices: []sessiondomain.QuestionChoice{
			{ID: "people", Label: "人"},
			{ID: "house", Label: "住宅"},
			{ID: "vehicle", Label: "車両"},
			{ID: "unknown", Label: "わからない"},
		},
		CaptureKey: "target",
	},
	"feeding": {
		QuestionID:   "feeding_target",
		QuestionText: "何を食べていましたか?",
		Choices: []sessiondomain.QuestionChoice{
			{ID: "crops", Label: "農作物"},
			{ID: "garbage", Label: "ごみ"},
			{ID: "plants", Label: "草木・果実"},
			{ID: "unknown", Label: "わからない"},
		},
		CaptureKey: "food",
	},
	"threat": {
		QuestionID:   "threat_manner",
		QuestionText: "どのような様子でしたか?",
		Choices: []sessiondomain.QuestionChoice{
			{ID: "voice", Label: "鳴き声で威嚇"},
			{ID: "posture", Label: "身構えていた"},
			{ID: "charge", Label: "向かってきた"},
			{ID: "unknown", Label: "わからない"},
		},
		CaptureKey: "manner",
	},
	"escape": {
		QuestionID:   "escape_direction",
		QuestionText: "どちらへ逃げていきましたか?",
		Choices: []sessiondomain.QuestionChoice{
			{ID: "mountain", Label: "山の方向"},
			{ID: "forest", Label: "林・茂み"},
			{ID: "unknown", Label: "わからない"},
		},
		CaptureKey: "direction",
	},
	"damage": {
		QuestionID:   "damage_target",
		QuestionText: "何に被害がありましたか?",
		Choices: []sessiondomain.QuestionChoice{
			{ID: "crops", Label: "農作物"},
			{ID: "property", Label: "建物・物品"},
			{ID: "person", Label: "人"},
			{ID: "other", Label: "その他"},
		},
		CaptureKey: "target",
	},
}

// TemplateQuestionGenerator serves a fixed question batch per category:
// the shared head-count question plus one category-specific question.
type TemplateQuestionGenerator struct{}

func NewTemplateQuestionGenerator() *TemplateQuestionGenerator {
	return &TemplateQuestionGenerator{}
}

func (g *TemplateQuestionGenerator) GenerateQuestions(_ context.Context, _, category string) ([]sessiondomain.QuestionCard, error) {
	if !ValidCategory(category) {
		return nil, fmt.Errorf("unknown action category %q", category)
	}
	questions := []sessiondomain.QuestionCard{countQuestion}
	if q, ok := categoryQuestions[category]; ok {
		questions = append(questions, q)
	}
	return questions, nil
}

// TemplateDraftGenerator assembles the detail sentence and the confirmation
// draft from collected state without an external model.
type TemplateDraftGenerator struct{}

func NewTemplateDraftGenerator() *TemplateDraftGenerator {
	return &TemplateDraftGenerator{}
}

func (g *TemplateDraftGenerator) GenerateActionDetail(_ context.Context, _, category string, answers []sessiondomain.QuestionAnswer) (string, error) {
	parts := make([]string, 0, len(answers))
	for _, a := range answers {
		if len(a.SelectedChoiceLabels) == 0 {
			continue
		}
		parts = append(parts, strings.Join(a.SelectedChoiceLabels, "、"))
	}
	label := CategoryLabel(category)
	if len(parts) == 0 {
		return label, nil
	}
	return fmt.Sprintf("%s(%s)", label, strings.Join(parts, "、")), nil
}

func (g *TemplateDraftGenerator) GenerateDraft(_ context.Context, state *sessiondomain.State) (*sessiondomain.ReportDraft, error) {
	when := "日時不明"
	if state.SightedAt != nil {
		when = fmt.Sprintf("%d月%d日 %d時%02d分ごろ",
			int(state.SightedAt.Month()), state.SightedAt.Day(),
			state.SightedAt.Hour(), state.SightedAt.Minute())
	}

	where := state.Address
	if where == "" && state.Latitude != nil && state.Longitude != nil {
		where = fmt.Sprintf("%.6f, %.6f", *state.Latitude, *state.Longitude)
	}
	if state.LandmarkName != "" {
		where = fmt.Sprintf("%s(%s付近)", where, state.LandmarkName)
	}

	situation := state.ActionDetail
	if state.Description != "" {
		if situation != "" {
			situation = state.Description + "。" + situation
		} else {
			situation = state.Description
		}
	}

	return &sessiondomain.ReportDraft{
		When:      when,
		Where:     where,
		What:      reportdomain.AnimalLabel(state.AnimalType),
		Situation: situation,
	}, nil
}
