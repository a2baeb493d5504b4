package topic

import (
	"testing"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   Topic
		ok     bool
	}{
		{"direct name", []string{"quiz", "me", "on", "lists"}, TopicLists, true},
		{"synonym", []string{"what", "is", "a", "loop"}, TopicControl, true},
		{"plural synonym", []string{"explain", "arrays"}, TopicLists, true},
		{"data types via token", []string{"data", "types"}, TopicDataTypes, true},
		{"first match wins", []string{"functions", "and", "lists"}, TopicFunctions, true},
		{"no topic", []string{"tell", "me", "a", "joke"}, "", false},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Find(tt.tokens)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Find(%v) = (%q, %v), want (%q, %v)", tt.tokens, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParse_CoversAllTopics(t *testing.T) {
	seen := map[Topic]bool{}
	for tok := range synonyms {
		got, ok := Parse(tok)
		if !ok {
			t.Fatalf("Parse(%q) not ok", tok)
		}
		if !Valid(got) {
			t.Errorf("Parse(%q) = %q, not a valid topic", tok, got)
		}
		seen[got] = true
	}
	for _, tp := range AllTopics() {
		if !seen[tp] {
			t.Errorf("topic %q has no synonym entries", tp)
		}
	}
}

func TestDisplayName(t *testing.T) {
	for _, tp := range AllTopics() {
		if tp.DisplayName() == string(tp) {
			t.Errorf("%q.DisplayName() fell through to the raw value", tp)
		}
	}
}

func TestDifficulty_UpDown(t *testing.T) {
	if got := Beginner.Up(); got != Intermediate {
		t.Errorf("Beginner.Up() = %v, want Intermediate", got)
	}
	if got := Advanced.Up(); got != Advanced {
		t.Errorf("Advanced.Up() = %v, want Advanced (clamped)", got)
	}
	if got := Beginner.Down(); got != Beginner {
		t.Errorf("Beginner.Down() = %v, want Beginner (clamped)", got)
	}
	if got := Advanced.Down(); got != Intermediate {
		t.Errorf("Advanced.Down() = %v, want Intermediate", got)
	}
}

func TestDifficulty_StringRoundTrip(t *testing.T) {
	for _, d := range AllDifficulties() {
		got, ok := ParseDifficulty(d.String())
		if !ok || got != d {
			t.Errorf("ParseDifficulty(%q) = (%v, %v), want (%v, true)", d.String(), got, ok, d)
		}
	}
	if _, ok := ParseDifficulty("expert"); ok {
		t.Error("ParseDifficulty(\"expert\") should not be ok")
	}
}

func TestDifficulty_Clamp(t *testing.T) {
	if got := Difficulty(-1).Clamp(); got != Beginner {
		t.Errorf("Clamp(-1) = %v, want Beginner", got)
	}
	if got := Difficulty(9).Clamp(); got != Advanced {
		t.Errorf("Clamp(9) = %v, want Advanced", got)
	}
	if got := Intermediate.Clamp(); got != Intermediate {
		t.Errorf("Clamp(Intermediate) = %v, want Intermediate", got)
	}
}
