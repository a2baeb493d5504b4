package quiz

import (
	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/topic"
)

// State identifies where a session's quiz stands.
type State int

const (
	// Idle means no quiz is running and no question is open.
	Idle State = iota

	// AwaitingAnswer means a question has been served and not yet
	// answered or abandoned.
	AwaitingAnswer

	// Complete means the topic's question pool was exhausted or the
	// learner ended the quiz.
	Complete
)

// String returns the state's display name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingAnswer:
		return "awaiting-answer"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Session tracks one learner's quiz across turns.
//
// Invariants: Current is non-nil exactly when State is AwaitingAnswer;
// HintLevel only grows while a question is open and resets to zero
// when a new question is served; a question id never repeats within
// one topic run.
type Session struct {
	State State

	// Topic is the quiz topic. It survives quiz completion so a bare
	// "quiz me" can resume the last topic.
	Topic topic.Topic

	// Difficulty is the learner's current working level on Topic, as
	// decided by the adaptation policy. The served question may sit at
	// a neighbouring level when the exact pool runs dry.
	Difficulty topic.Difficulty

	// Current is the open question, nil unless awaiting an answer.
	Current *bank.Question

	// HintLevel counts hints revealed for Current, 0..bank.MaxHints.
	HintLevel int

	// Seen holds ids of questions served during this topic run,
	// including an abandoned current question.
	Seen map[string]bool

	// Answered and Correct count graded submissions for the summary.
	Answered int
	Correct  int
}

// NewSession returns an idle session with no history.
func NewSession() *Session {
	return &Session{Seen: make(map[string]bool)}
}

// Summary describes a finished quiz run.
type Summary struct {
	Topic    topic.Topic
	Answered int
	Correct  int
	Final    topic.Difficulty
}

// Accuracy returns the summary's share of correct answers, zero when
// nothing was answered.
func (s Summary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Result reports the session mechanics of one graded submission.
type Result struct {
	// Next is the freshly served question, nil when the run completed.
	Next *bank.Question

	// Summary is non-nil exactly when the run completed.
	Summary *Summary
}

// Start begins a quiz on tp at the given working level. A different
// topic resets the run; the same topic keeps its seen set and counters
// so questions never repeat within a run. An open question is dropped
// without grading. Returns the served question, or nil with the
// session marked Complete when every question for tp has been seen.
func Start(s *Session, tp topic.Topic, d topic.Difficulty, b *bank.Bank) *bank.Question {
	if tp != s.Topic {
		s.Topic = tp
		s.Seen = make(map[string]bool)
		s.Answered = 0
		s.Correct = 0
	}
	s.Difficulty = d.Clamp()
	s.Current = nil
	s.HintLevel = 0

	q := b.SelectRelaxed(s.Topic, s.Difficulty, s.Seen)
	if q == nil {
		s.State = Complete
		return nil
	}
	s.Seen[q.ID] = true
	s.Current = q
	s.State = AwaitingAnswer
	return q
}

// Hint reveals the next hint for the open question. ok is false when
// no question is open or the ladder is exhausted, either because the
// question has no more hints or the cap was reached. The level never
// moves on a failed request.
func Hint(s *Session) (string, bool) {
	if s.State != AwaitingAnswer || s.Current == nil {
		return "", false
	}
	if s.HintLevel >= len(s.Current.Hints) || s.HintLevel >= bank.MaxHints {
		return "", false
	}
	h := s.Current.Hints[s.HintLevel]
	s.HintLevel++
	return h, true
}

// Submit grades the open question as correct or not and advances the
// session: the working level moves to next, a fresh unseen question is
// served with the hint ladder reset, or the run completes when the
// topic has nothing left. The caller evaluates the answer and records
// the attempt; Submit only runs the session mechanics.
func Submit(s *Session, correct bool, next topic.Difficulty, b *bank.Bank) Result {
	s.Answered++
	if correct {
		s.Correct++
	}
	s.Difficulty = next.Clamp()
	s.Current = nil
	s.HintLevel = 0

	q := b.SelectRelaxed(s.Topic, s.Difficulty, s.Seen)
	if q == nil {
		s.State = Complete
		return Result{Summary: s.summary()}
	}
	s.Seen[q.ID] = true
	s.Current = q
	s.State = AwaitingAnswer
	return Result{Next: q}
}

// Stop ends the run early. An open question is dropped without
// grading. Returns a summary when any answers were graded, nil when
// there was nothing to summarize.
func Stop(s *Session) *Summary {
	hadRun := s.Answered > 0 || s.Current != nil
	s.Current = nil
	s.HintLevel = 0
	if !hadRun {
		return nil
	}
	s.State = Complete
	return s.summary()
}

func (s *Session) summary() *Summary {
	return &Summary{
		Topic:    s.Topic,
		Answered: s.Answered,
		Correct:  s.Correct,
		Final:    s.Difficulty,
	}
}
