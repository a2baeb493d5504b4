package bank

import "github.com/abhisek/studybuddy/internal/topic"

// MaxHints is the most hints a single question may carry.
const MaxHints = 3

// Question is one entry in the static question bank.
type Question struct {
	// ID uniquely identifies the question within the bank, e.g. "lst-beg-1".
	// Selection is deterministic by ascending ID, so IDs double as ordering.
	ID string

	// Topic and Difficulty key the bank cell this question is served from.
	Topic      topic.Topic
	Difficulty topic.Difficulty

	// Prompt is the question text shown to the learner.
	Prompt string

	// Answer is the canonical correct answer. For multiple choice it is
	// the full text of the correct option.
	Answer string

	// Accept lists alternative phrasings that are also correct, e.g.
	// "none" for "None" or "zero" for "0".
	Accept []string

	// Choices is populated only for multiple-choice questions. A learner
	// may answer with the option text or its 1-based index.
	Choices []string

	// Hints holds up to MaxHints hints, ordered from gentle to explicit.
	Hints []string
}

// MultipleChoice reports whether the question offers fixed options.
func (q *Question) MultipleChoice() bool {
	return len(q.Choices) > 0
}
