package bank

import (
	"strconv"
	"strings"
)

// CheckAnswer compares the learner's submission against a question's
// accepted answers.
//
// Normalization rules:
// - Whitespace is trimmed and collapsed; comparison is case-insensitive
// - Sentence punctuation at token edges is ignored ("It's a tuple." matches "tuple")
// - A submission containing the full answer as a token sequence is correct
// - Numeric answers compare by value ("3.0" matches "3")
// - For multiple choice: matches against the choice text or 1-based index
//
// The second result reports whether the verdict is conclusive. A free-text
// mismatch on an open question is inconclusive and may be escalated to a
// semantic judge; multiple-choice and empty submissions always conclude.
func CheckAnswer(submission string, q *Question) (correct, conclusive bool) {
	submission = strings.TrimSpace(submission)
	if submission == "" {
		return false, true
	}

	if q.MultipleChoice() {
		return checkMultipleChoice(submission, q), true
	}

	sub := normalize(submission)
	for _, want := range append([]string{q.Answer}, q.Accept...) {
		w := normalize(want)
		if sub == w || containsAnswer(sub, w) || numericEqual(sub, w) {
			return true, true
		}
	}
	return false, false
}

// checkMultipleChoice checks the submission against MC choices.
func checkMultipleChoice(submission string, q *Question) bool {
	// Try matching by 1-based index.
	if idx, err := strconv.Atoi(submission); err == nil && idx >= 1 && idx <= len(q.Choices) {
		return strings.EqualFold(
			strings.TrimSpace(q.Choices[idx-1]),
			strings.TrimSpace(q.Answer),
		)
	}

	// Match by text (case-insensitive).
	return strings.EqualFold(submission, strings.TrimSpace(q.Answer))
}

// normalize lowercases, collapses whitespace, and trims sentence
// punctuation from token edges.
func normalize(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?\"';:")
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

// containsAnswer reports whether the normalized submission contains the
// normalized answer as a contiguous token sequence.
func containsAnswer(submission, answer string) bool {
	subTokens := strings.Fields(submission)
	ansTokens := strings.Fields(answer)
	if len(ansTokens) == 0 || len(subTokens) < len(ansTokens) {
		return false
	}
	for i := 0; i+len(ansTokens) <= len(subTokens); i++ {
		match := true
		for j := range ansTokens {
			if subTokens[i+j] != ansTokens[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// numericEqual reports whether both strings parse as numbers with the
// same value.
func numericEqual(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	return errA == nil && errB == nil && fa == fb
}
