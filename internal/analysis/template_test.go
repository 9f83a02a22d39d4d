package analysis

import (
	"context"
	"strings"
	"testing"
	"time"

	sessiondomain "wildlife-report-hub/backend/internal/session/domain"
)

func TestTemplateAnalyzerAccepts(t *testing.T) {
	got, err := NewTemplateAnalyzer().AnalyzeImage(context.Background(), "msg-1", "monkey")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Accepted {
		t.Error("template analyzer should accept")
	}
	if !strings.Contains(got.Description, "サル") {
		t.Errorf("description = %q", got.Description)
	}
}

func TestGenerateQuestions(t *testing.T) {
	g := NewTemplateQuestionGenerator()
	for _, c := range Categories() {
		qs, err := g.GenerateQuestions(context.Background(), "monkey", c.Key)
		if err != nil {
			t.Fatalf("%s: %v", c.Key, err)
		}
		if len(qs) == 0 {
			t.Fatalf("%s: no questions", c.Key)
		}
		if qs[0].QuestionID != "count" {
			t.Errorf("%s: first question = %q, want count", c.Key, qs[0].QuestionID)
		}
		for _, q := range qs {
			if len(q.Choices) == 0 {
				t.Errorf("%s: question %q has no choices", c.Key, q.QuestionID)
			}
		}
	}
	if _, err := g.GenerateQuestions(context.Background(), "monkey", "flying"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestGenerateActionDetail(t *testing.T) {
	g := NewTemplateDraftGenerator()
	detail, err := g.GenerateActionDetail(context.Background(), "monkey", "movement",
		[]sessiondomain.QuestionAnswer{
			{SelectedChoiceLabels: []string{"2〜3頭"}},
			{SelectedChoiceLabels: []string{"山の方向"}},
		})
	if err != nil {
		t.Fatal(err)
	}
	if detail != "移動(2〜3頭、山の方向)" {
		t.Errorf("detail = %q", detail)
	}

	empty, err := g.GenerateActionDetail(context.Background(), "monkey", "other", nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty != "その他" {
		t.Errorf("detail without answers = %q", empty)
	}
}

func TestGenerateDraft(t *testing.T) {
	g := NewTemplateDraftGenerator()
	when := time.Date(2025, 4, 1, 9, 5, 0, 0, time.Local)
	lat, lng := 36.23, 137.97
	state := &sessiondomain.State{
		AnimalType:   "wild_boar",
		SightedAt:    &when,
		Latitude:     &lat,
		Longitude:    &lng,
		Address:      "長野県松本市大手3丁目",
		LandmarkName: "松本城公園",
		Description:  "イノシシが写っている写真",
		ActionDetail: "移動(1頭、道路沿い)",
	}
	draft, err := g.GenerateDraft(context.Background(), state)
	if err != nil {
		t.Fatal(err)
	}
	if draft.When != "4月1日 9時05分ごろ" {
		t.Errorf("when = %q", draft.When)
	}
	if draft.Where != "長野県松本市大手3丁目(松本城公園付近)" {
		t.Errorf("where = %q", draft.Where)
	}
	if draft.What != "イノシシ" {
		t.Errorf("what = %q", draft.What)
	}
	if draft.Situation != "イノシシが写っている写真。移動(1頭、道路沿い)" {
		t.Errorf("situation = %q", draft.Situation)
	}
}

func TestGenerateDraftFallbacks(t *testing.T) {
	g := NewTemplateDraftGenerator()
	lat, lng := 36.23, 137.97
	draft, err := g.GenerateDraft(context.Background(), &sessiondomain.State{
		AnimalType: "bear",
		Latitude:   &lat,
		Longitude:  &lng,
	})
	if err != nil {
		t.Fatal(err)
	}
	if draft.When != "日時不明" {
		t.Errorf("when = %q", draft.When)
	}
	if draft.Where != "36.230000, 137.970000" {
		t.Errorf("where = %q", draft.Where)
	}
}
