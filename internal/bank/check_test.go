package bank

import (
	"testing"

	"github.com/abhisek/studybuddy/internal/topic"
)

func openQuestion(answer string, accept ...string) *Question {
	return &Question{
		ID: "q", Topic: topic.TopicLists, Difficulty: topic.Beginner,
		Prompt: "p", Answer: answer, Accept: accept,
	}
}

func TestCheckAnswer_Open(t *testing.T) {
	tests := []struct {
		name       string
		q          *Question
		submission string
		correct    bool
		conclusive bool
	}{
		{"exact", openQuestion("append"), "append", true, true},
		{"case and spacing", openQuestion("append"), "  APPEND ", true, true},
		{"trailing punctuation", openQuestion("tuple"), "It's a tuple.", true, true},
		{"containment", openQuestion("tuple"), "i think it is a tuple", true, true},
		{"accept alternative", openQuestion("None", "none"), "none", true, true},
		{"numeric value", openQuestion("3"), "3.0", true, true},
		{"multi-word answer", openQuestion("an infinite loop", "infinite loop"), "infinite loop", true, true},
		{"mismatch is inconclusive", openQuestion("tuple"), "a frozen list", false, false},
		{"empty is conclusive", openQuestion("tuple"), "   ", false, true},
		{"partial word does not contain", openQuestion("if"), "iffy", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, conclusive := CheckAnswer(tt.submission, tt.q)
			if correct != tt.correct || conclusive != tt.conclusive {
				t.Errorf("CheckAnswer(%q) = (%v, %v), want (%v, %v)",
					tt.submission, correct, conclusive, tt.correct, tt.conclusive)
			}
		})
	}
}

func TestCheckAnswer_MultipleChoice(t *testing.T) {
	q := &Question{
		ID: "mc", Topic: topic.TopicLists, Difficulty: topic.Beginner,
		Prompt:  "p",
		Answer:  "pop",
		Choices: []string{"remove", "pop", "discard", "cut"},
	}
	tests := []struct {
		name       string
		submission string
		correct    bool
	}{
		{"by index", "2", true},
		{"by wrong index", "1", false},
		{"index out of range", "9", false},
		{"by text", "pop", true},
		{"by text case-insensitive", "POP", true},
		{"wrong text", "remove", false},
		{"garbage", "banana", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, conclusive := CheckAnswer(tt.submission, q)
			if !conclusive {
				t.Fatalf("multiple choice verdicts must be conclusive")
			}
			if correct != tt.correct {
				t.Errorf("CheckAnswer(%q) = %v, want %v", tt.submission, correct, tt.correct)
			}
		})
	}
}

func TestCheckAnswer_IndexOnlyCountsForMC(t *testing.T) {
	// On an open question a bare number is compared as a value, never as
	// a choice index.
	q := openQuestion("3")
	if correct, _ := CheckAnswer("1", q); correct {
		t.Error("\"1\" should not match answer \"3\"")
	}
	if correct, _ := CheckAnswer("3", q); !correct {
		t.Error("\"3\" should match answer \"3\"")
	}
}
