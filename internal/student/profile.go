package student

import (
	"slices"
	"time"

	"github.com/abhisek/studybuddy/internal/topic"
)

// Attempt is one graded answer, recorded at the moment of grading.
// Attempts are immutable once recorded.
type Attempt struct {
	QuestionID string
	Topic      topic.Topic
	// Difficulty is the level the question was served at, which may
	// differ from the level the controller would pick today.
	Difficulty topic.Difficulty
	Correct    bool
	HintsUsed  int
	At         time.Time
}

// Profile accumulates a learner's attempt history. The log is
// append-only and every aggregate is a pure fold over it, so any
// derived number can be recomputed from the record alone.
//
// A Profile is confined to one session; the engine serializes access.
type Profile struct {
	attempts []Attempt
}

// NewProfile returns an empty profile.
func NewProfile() *Profile {
	return &Profile{}
}

// Record appends one attempt to the log.
func (p *Profile) Record(a Attempt) {
	p.attempts = append(p.attempts, a)
}

// History returns a copy of the full log in record order.
func (p *Profile) History() []Attempt {
	return slices.Clone(p.attempts)
}

// TotalAttempts returns the number of recorded attempts across topics.
func (p *Profile) TotalAttempts() int {
	return len(p.attempts)
}

// TotalCorrect returns the number of correct attempts across topics.
func (p *Profile) TotalCorrect() int {
	n := 0
	for _, a := range p.attempts {
		if a.Correct {
			n++
		}
	}
	return n
}

// Attempts returns the number of attempts on one topic.
func (p *Profile) Attempts(tp topic.Topic) int {
	n := 0
	for _, a := range p.attempts {
		if a.Topic == tp {
			n++
		}
	}
	return n
}

// Correct returns the number of correct attempts on one topic.
func (p *Profile) Correct(tp topic.Topic) int {
	n := 0
	for _, a := range p.attempts {
		if a.Topic == tp && a.Correct {
			n++
		}
	}
	return n
}

// Topics returns the topics with at least one attempt, in display order.
func (p *Profile) Topics() []topic.Topic {
	touched := make(map[topic.Topic]bool, len(p.attempts))
	for _, a := range p.attempts {
		touched[a.Topic] = true
	}
	var out []topic.Topic
	for _, tp := range topic.AllTopics() {
		if touched[tp] {
			out = append(out, tp)
		}
	}
	return out
}

// Accuracy returns the share of correct attempts on the topic.
// ok is false when the topic has no attempts: zero history has no
// accuracy, rather than an accuracy of zero.
func (p *Profile) Accuracy(tp topic.Topic) (float64, bool) {
	total, correct := 0, 0
	for _, a := range p.attempts {
		if a.Topic != tp {
			continue
		}
		total++
		if a.Correct {
			correct++
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(correct) / float64(total), true
}

// Streak returns the signed run length ending at the topic's latest
// attempt: positive counts consecutive correct answers, negative
// consecutive incorrect ones, zero means no attempts. A result that
// breaks the run restarts the count at magnitude one in the new sign.
func (p *Profile) Streak(tp topic.Topic) int {
	streak := 0
	for i := len(p.attempts) - 1; i >= 0; i-- {
		a := p.attempts[i]
		if a.Topic != tp {
			continue
		}
		if streak == 0 {
			if a.Correct {
				streak = 1
			} else {
				streak = -1
			}
			continue
		}
		if a.Correct == (streak > 0) {
			if streak > 0 {
				streak++
			} else {
				streak--
			}
			continue
		}
		break
	}
	return streak
}

// HintsInLastN returns how many of the up-to-n most recent attempts on
// the topic used at least one hint.
func (p *Profile) HintsInLastN(tp topic.Topic, n int) int {
	hinted := 0
	for _, a := range p.LastN(tp, n) {
		if a.HintsUsed > 0 {
			hinted++
		}
	}
	return hinted
}

// LastN returns up to n most recent attempts on the topic, oldest
// first.
func (p *Profile) LastN(tp topic.Topic, n int) []Attempt {
	if n <= 0 {
		return nil
	}
	var out []Attempt
	for i := len(p.attempts) - 1; i >= 0 && len(out) < n; i-- {
		if p.attempts[i].Topic == tp {
			out = append(out, p.attempts[i])
		}
	}
	slices.Reverse(out)
	return out
}
