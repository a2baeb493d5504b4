package quiz

import (
	"testing"

	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/topic"
)

// testBank builds a small bank: two beginner and one intermediate
// question on lists, one beginner question on functions.
func testBank(t *testing.T) *bank.Bank {
	t.Helper()
	b, err := bank.New([]bank.Question{
		{ID: "l-b-1", Topic: topic.TopicLists, Difficulty: topic.Beginner,
			Prompt: "p1", Answer: "a", Hints: []string{"h1", "h2"}},
		{ID: "l-b-2", Topic: topic.TopicLists, Difficulty: topic.Beginner,
			Prompt: "p2", Answer: "a", Hints: []string{"h1"}},
		{ID: "l-i-1", Topic: topic.TopicLists, Difficulty: topic.Intermediate,
			Prompt: "p3", Answer: "a", Hints: []string{"h1"}},
		{ID: "f-b-1", Topic: topic.TopicFunctions, Difficulty: topic.Beginner,
			Prompt: "p4", Answer: "a", Hints: []string{"h1"}},
	})
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	return b
}

func TestStart_ServesLowestID(t *testing.T) {
	b := testBank(t)
	s := NewSession()

	q := Start(s, topic.TopicLists, topic.Beginner, b)
	if q == nil || q.ID != "l-b-1" {
		t.Fatalf("got %v, want l-b-1", q)
	}
	if s.State != AwaitingAnswer {
		t.Errorf("state = %s, want awaiting-answer", s.State)
	}
	if s.HintLevel != 0 {
		t.Errorf("hint level = %d, want 0", s.HintLevel)
	}
}

func TestStart_SameTopicKeepsSeen(t *testing.T) {
	b := testBank(t)
	s := NewSession()

	q1 := Start(s, topic.TopicLists, topic.Beginner, b)
	q2 := Start(s, topic.TopicLists, topic.Beginner, b)
	if q1.ID == q2.ID {
		t.Errorf("restart served the abandoned question %q again", q1.ID)
	}
}

func TestStart_NewTopicResetsRun(t *testing.T) {
	b := testBank(t)
	s := NewSession()

	Start(s, topic.TopicLists, topic.Beginner, b)
	Submit(s, true, topic.Beginner, b)
	if s.Answered != 1 {
		t.Fatalf("answered = %d, want 1", s.Answered)
	}

	Start(s, topic.TopicFunctions, topic.Beginner, b)
	if s.Answered != 0 || s.Correct != 0 {
		t.Errorf("counters survived a topic switch: %d/%d", s.Correct, s.Answered)
	}
	if len(s.Seen) != 1 {
		t.Errorf("seen set should hold only the fresh question, got %v", s.Seen)
	}
}

func TestStart_ExhaustedTopic(t *testing.T) {
	b := testBank(t)
	s := NewSession()
	seenAll := map[string]bool{"l-b-1": true, "l-b-2": true, "l-i-1": true}
	s.Topic = topic.TopicLists
	s.Seen = seenAll

	q := Start(s, topic.TopicLists, topic.Beginner, b)
	if q != nil {
		t.Fatalf("expected nil question, got %q", q.ID)
	}
	if s.State != Complete {
		t.Errorf("state = %s, want complete", s.State)
	}
}

func TestHint_LadderAndCap(t *testing.T) {
	b := testBank(t)
	s := NewSession()
	Start(s, topic.TopicLists, topic.Beginner, b) // l-b-1, two hints

	h1, ok := Hint(s)
	if !ok || h1 != "h1" {
		t.Fatalf("first hint = (%q, %v)", h1, ok)
	}
	h2, ok := Hint(s)
	if !ok || h2 != "h2" {
		t.Fatalf("second hint = (%q, %v)", h2, ok)
	}

	// Ladder exhausted: repeated requests fail and the level stays put.
	for i := 0; i < 2; i++ {
		if _, ok := Hint(s); ok {
			t.Fatal("hint beyond the ladder should fail")
		}
		if s.HintLevel != 2 {
			t.Fatalf("hint level moved on a failed request: %d", s.HintLevel)
		}
	}
}

func TestHint_RequiresOpenQuestion(t *testing.T) {
	s := NewSession()
	if _, ok := Hint(s); ok {
		t.Error("hint without an open question should fail")
	}
}

func TestSubmit_AdvancesAndResetsHints(t *testing.T) {
	b := testBank(t)
	s := NewSession()
	Start(s, topic.TopicLists, topic.Beginner, b)
	Hint(s)

	res := Submit(s, true, topic.Beginner, b)
	if res.Next == nil || res.Next.ID != "l-b-2" {
		t.Fatalf("next = %v, want l-b-2", res.Next)
	}
	if s.HintLevel != 0 {
		t.Errorf("hint level = %d after new question, want 0", s.HintLevel)
	}
	if s.Answered != 1 || s.Correct != 1 {
		t.Errorf("counters = %d/%d, want 1/1", s.Correct, s.Answered)
	}
}

func TestSubmit_RelaxesDifficultyBeforeCompleting(t *testing.T) {
	b := testBank(t)
	s := NewSession()
	Start(s, topic.TopicLists, topic.Beginner, b)

	// Stay at beginner: two beginner questions, then the intermediate
	// one is served rather than completing early.
	res := Submit(s, true, topic.Beginner, b)
	if res.Next == nil || res.Next.ID != "l-b-2" {
		t.Fatalf("second question = %v, want l-b-2", res.Next)
	}
	res = Submit(s, true, topic.Beginner, b)
	if res.Next == nil || res.Next.ID != "l-i-1" {
		t.Fatalf("third question = %v, want l-i-1", res.Next)
	}
}

func TestSubmit_CompletesWhenExhausted(t *testing.T) {
	b := testBank(t)
	s := NewSession()
	Start(s, topic.TopicLists, topic.Beginner, b)
	Submit(s, true, topic.Beginner, b)
	Submit(s, false, topic.Beginner, b)
	res := Submit(s, true, topic.Beginner, b)

	if res.Next != nil {
		t.Fatalf("expected completion, got next %q", res.Next.ID)
	}
	if res.Summary == nil {
		t.Fatal("expected a summary")
	}
	if res.Summary.Answered != 3 || res.Summary.Correct != 2 {
		t.Errorf("summary = %d/%d, want 2/3", res.Summary.Correct, res.Summary.Answered)
	}
	if got := res.Summary.Accuracy(); got != 2.0/3.0 {
		t.Errorf("accuracy = %v, want 2/3", got)
	}
	if s.State != Complete {
		t.Errorf("state = %s, want complete", s.State)
	}
}

func TestSubmit_NeverRepeatsQuestions(t *testing.T) {
	b := testBank(t)
	s := NewSession()

	served := map[string]bool{}
	q := Start(s, topic.TopicLists, topic.Beginner, b)
	for q != nil {
		if served[q.ID] {
			t.Fatalf("question %q served twice", q.ID)
		}
		served[q.ID] = true
		res := Submit(s, true, s.Difficulty, b)
		q = res.Next
	}
	if len(served) != 3 {
		t.Errorf("served %d questions, want 3", len(served))
	}
}

func TestStop(t *testing.T) {
	b := testBank(t)
	s := NewSession()

	// Nothing to summarize on a fresh session.
	if sum := Stop(s); sum != nil {
		t.Fatalf("expected nil summary, got %+v", sum)
	}
	if s.State != Idle {
		t.Errorf("state = %s, want idle", s.State)
	}

	// Mid-quiz stop drops the open question without grading it.
	Start(s, topic.TopicLists, topic.Beginner, b)
	Submit(s, true, topic.Beginner, b)
	sum := Stop(s)
	if sum == nil {
		t.Fatal("expected a summary")
	}
	if sum.Answered != 1 {
		t.Errorf("abandoned question was graded: answered = %d", sum.Answered)
	}
	if s.State != Complete || s.Current != nil {
		t.Errorf("state = %s current = %v, want complete/nil", s.State, s.Current)
	}
}
