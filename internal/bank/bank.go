package bank

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/abhisek/studybuddy/internal/topic"
)

// Bank is an immutable question collection with precomputed indices by
// topic and by (topic, difficulty).
type Bank struct {
	questions []Question
	byID      map[string]*Question
	byTopic   map[topic.Topic][]*Question
	byCell    map[cellKey][]*Question
}

type cellKey struct {
	topic      topic.Topic
	difficulty topic.Difficulty
}

// New builds a bank from the given questions. The set is validated and
// every index is sorted by ascending ID so selection is deterministic.
func New(questions []Question) (*Bank, error) {
	if err := validate(questions); err != nil {
		return nil, err
	}
	b := &Bank{
		questions: slices.Clone(questions),
		byID:      make(map[string]*Question, len(questions)),
		byTopic:   make(map[topic.Topic][]*Question),
		byCell:    make(map[cellKey][]*Question),
	}
	for i := range b.questions {
		q := &b.questions[i]
		b.byID[q.ID] = q
		b.byTopic[q.Topic] = append(b.byTopic[q.Topic], q)
		key := cellKey{q.Topic, q.Difficulty}
		b.byCell[key] = append(b.byCell[key], q)
	}
	for _, qs := range b.byTopic {
		sortByID(qs)
	}
	for _, qs := range b.byCell {
		sortByID(qs)
	}
	return b, nil
}

func sortByID(qs []*Question) {
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
}

// validate performs structural checks on a question set.
// Returns a combined error describing all problems found, or nil if valid.
func validate(questions []Question) error {
	var errs []string

	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		switch {
		case q.ID == "":
			errs = append(errs, "question with empty id")
		case ids[q.ID]:
			errs = append(errs, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		ids[q.ID] = true

		if !topic.Valid(q.Topic) {
			errs = append(errs, fmt.Sprintf("question %q: unknown topic %q", q.ID, q.Topic))
		}
		if q.Difficulty != q.Difficulty.Clamp() {
			errs = append(errs, fmt.Sprintf("question %q: difficulty out of range", q.ID))
		}
		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Sprintf("question %q: empty prompt", q.ID))
		}
		if strings.TrimSpace(q.Answer) == "" {
			errs = append(errs, fmt.Sprintf("question %q: empty answer", q.ID))
		}
		if len(q.Hints) > MaxHints {
			errs = append(errs, fmt.Sprintf("question %q: %d hints exceeds %d", q.ID, len(q.Hints), MaxHints))
		}
		if len(q.Choices) > 0 && !slices.Contains(q.Choices, q.Answer) {
			errs = append(errs, fmt.Sprintf("question %q: answer is not one of the choices", q.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid question bank:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Get returns a question by ID.
func (b *Bank) Get(id string) (*Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// Len returns the total number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// Topics returns the topics present in the bank, in display order.
func (b *Bank) Topics() []topic.Topic {
	var out []topic.Topic
	for _, tp := range topic.AllTopics() {
		if len(b.byTopic[tp]) > 0 {
			out = append(out, tp)
		}
	}
	return out
}

// CellCount returns how many questions exist for a (topic, difficulty) cell.
func (b *Bank) CellCount(tp topic.Topic, d topic.Difficulty) int {
	return len(b.byCell[cellKey{tp, d}])
}

// TopicCount returns how many questions exist for a topic across all levels.
func (b *Bank) TopicCount(tp topic.Topic) int {
	return len(b.byTopic[tp])
}

// Remaining reports how many questions for the topic are not in seen.
func (b *Bank) Remaining(tp topic.Topic, seen map[string]bool) int {
	n := 0
	for _, q := range b.byTopic[tp] {
		if !seen[q.ID] {
			n++
		}
	}
	return n
}

// Select returns the unseen question with the lowest ID in the exact
// (topic, difficulty) cell, or nil when the cell is exhausted.
func (b *Bank) Select(tp topic.Topic, d topic.Difficulty, seen map[string]bool) *Question {
	for _, q := range b.byCell[cellKey{tp, d}] {
		if !seen[q.ID] {
			return q
		}
	}
	return nil
}

// SelectRelaxed behaves like Select but falls back to neighbouring
// difficulties when the requested cell is exhausted, nearest level
// first and easier before harder at equal distance. It returns nil
// only when every question for the topic has been seen.
func (b *Bank) SelectRelaxed(tp topic.Topic, d topic.Difficulty, seen map[string]bool) *Question {
	if q := b.Select(tp, d, seen); q != nil {
		return q
	}
	for dist := topic.Difficulty(1); dist <= topic.Advanced; dist++ {
		for _, cand := range []topic.Difficulty{d - dist, d + dist} {
			if cand < topic.Beginner || cand > topic.Advanced {
				continue
			}
			if q := b.Select(tp, cand, seen); q != nil {
				return q
			}
		}
	}
	return nil
}
