package postback

import "testing"

func TestParseSinglePair(t *testing.T) {
	p := Parse("action=select_animal")
	if p.Action != ActionSelectAnimal {
		t.Errorf("Action = %q, want %q", p.Action, ActionSelectAnimal)
	}
}

func TestParseMultiplePairs(t *testing.T) {
	p := Parse("action=select_animal&value=monkey")
	if p.Action != ActionSelectAnimal {
		t.Errorf("Action = %q, want %q", p.Action, ActionSelectAnimal)
	}
	if got := p.Get("value"); got != "monkey" {
		t.Errorf("value = %q, want monkey", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	p := Parse("")
	if p.Action != "" {
		t.Errorf("Action = %q, want empty", p.Action)
	}
	if p.Has("action") {
		t.Error("empty payload should not have an action key")
	}
}

func TestParseEmptyActionValue(t *testing.T) {
	p := Parse("action=&value=monkey")
	if !p.Has("action") {
		t.Error("action key should be present")
	}
	if p.Action != "" {
		t.Errorf("Action = %q, want empty", p.Action)
	}
	if got := p.Get("value"); got != "monkey" {
		t.Errorf("value = %q, want monkey", got)
	}
}

func TestParseURLEncodedUnicode(t *testing.T) {
	p := Parse("action=test&value=%E3%82%B5%E3%83%AB")
	if got := p.Get("value"); got != "サル" {
		t.Errorf("value = %q, want サル", got)
	}
}

func TestBuildSinglePair(t *testing.T) {
	if got := Build(map[string]string{"action": "select_animal"}); got != "action=select_animal" {
		t.Errorf("Build = %q, want action=select_animal", got)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []map[string]string{
		{"action": "select_animal", "value": "wild_boar"},
		{"action": "select_landmark", "id": "node/123456"},
		{"action": "answer_question", "qid": "q1", "cid": "c2"},
		{"action": "test", "value": "サル と 🐗"},
		{"action": "test", "value": "a=b&c=d"},
	}
	for _, record := range cases {
		p := Parse(Build(record))
		if p.Action != record["action"] {
			t.Errorf("round trip %v: Action = %q, want %q", record, p.Action, record["action"])
		}
		for k, v := range record {
			if got := p.Get(k); got != v {
				t.Errorf("round trip %v: %s = %q, want %q", record, k, got, v)
			}
		}
		if len(p.Params) != len(record) {
			t.Errorf("round trip %v: got %d params, want %d", record, len(p.Params), len(record))
		}
	}
}
