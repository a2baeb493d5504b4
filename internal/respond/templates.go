package respond

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/recommend"
	"github.com/abhisek/studybuddy/internal/student"
	"github.com/abhisek/studybuddy/internal/topic"
)

// Presentation thresholds for strengths and review markers.
const (
	strengthThreshold = 0.8
	reviewThreshold   = 0.4
	reviewMinAttempts = 3
)

// Greeting welcomes a new or returning learner.
func Greeting() string {
	return "Hi! I'm your Python study buddy. Ask me to explain a topic, or say \"quiz me on lists\" to practice. I cover: " + topicList() + "."
}

// Farewell says goodbye, summarizing strengths (accuracy at or above 80%)
// and topics worth reviewing (at or below 40%).
func Farewell(p *student.Profile) string {
	var strengths, review []string
	for _, tp := range topic.AllTopics() {
		acc, ok := p.Accuracy(tp)
		if !ok {
			continue
		}
		switch {
		case acc >= strengthThreshold:
			strengths = append(strengths, tp.DisplayName())
		case acc <= reviewThreshold:
			review = append(review, tp.DisplayName())
		}
	}

	if len(strengths) == 0 && len(review) == 0 {
		return "Goodbye! Come back any time to practice some Python."
	}

	var b strings.Builder
	b.WriteString("Goodbye! Here's where you stand:\n")
	if len(strengths) > 0 {
		b.WriteString("Strengths: " + strings.Join(strengths, ", ") + "\n")
	}
	if len(review) > 0 {
		b.WriteString("Worth reviewing: " + strings.Join(review, ", ") + "\n")
	}
	b.WriteString("See you next time!")
	return b.String()
}

// Unknown is the fallback for utterances no rule matched.
func Unknown() string {
	return "I didn't catch that. You can ask me to explain a topic (\"what is a list?\"), start a quiz (\"quiz me on functions\"), ask for a hint, or check your progress."
}

// Question presents a quiz question at its difficulty.
func Question(q *bank.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's a %s question on %s:\n\n%s",
		q.Difficulty, q.Topic.DisplayName(), q.Prompt)

	if q.MultipleChoice() {
		b.WriteString("\n")
		for i, choice := range q.Choices {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, choice)
		}
		b.WriteString("\n\nAnswer with the number or the text.")
	}
	return b.String()
}

// Hint presents one revealed hint.
func Hint(level int, text string) string {
	return fmt.Sprintf("Hint %d: %s", level, text)
}

// NoFurtherHints tells the learner the hint budget is spent.
func NoFurtherHints() string {
	return "No further hints for this one. Give it your best try!"
}

// NoActiveQuestion nudges the learner when a hint or answer arrives with
// no question in play.
func NoActiveQuestion() string {
	return "There's no question in play right now. Say \"quiz me on lists\" (or any topic) to start."
}

// Correct confirms a right answer.
func Correct() string {
	return "Correct! Nice work."
}

// Incorrect reveals the expected answer after a wrong one.
func Incorrect(q *bank.Question) string {
	return fmt.Sprintf("Not quite. The correct answer is: %s.", q.Answer)
}

// TopicProgress is one row of the progress report.
type TopicProgress struct {
	Topic    topic.Topic
	Attempts int
	Correct  int
	Accuracy float64
	Level    topic.Difficulty
}

// Progress renders the per-topic report with a recommendation line.
// Topics with enough attempts and low accuracy get a review marker.
func Progress(rows []TopicProgress, next topic.Topic, reason recommend.Reason) string {
	if len(rows) == 0 {
		return "You haven't answered any questions yet. Say \"quiz me on " + string(next) + "\" to get started!"
	}

	var b strings.Builder
	b.WriteString("Your progress so far:\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "\n%s: %d/%d correct (%.0f%%) at %s level",
			row.Topic.DisplayName(), row.Correct, row.Attempts, row.Accuracy*100, row.Level)
		if row.Attempts >= reviewMinAttempts && row.Accuracy <= reviewThreshold {
			b.WriteString(" Needs review!")
		}
	}
	b.WriteString("\n\n" + recommendation(next, reason))
	return b.String()
}

// recommendation phrases the next-topic suggestion by its reason.
func recommendation(next topic.Topic, reason recommend.Reason) string {
	switch reason {
	case recommend.ReasonNew:
		return fmt.Sprintf("Next up: %s. You haven't tried it yet.", next.DisplayName())
	case recommend.ReasonWeak:
		return fmt.Sprintf("Worth revisiting: %s could use some review.", next.DisplayName())
	default:
		return fmt.Sprintf("Keep it balanced: %s has had the least practice.", next.DisplayName())
	}
}

// Summary wraps up a finished topic run.
func Summary(s quiz.Summary) string {
	return fmt.Sprintf("That wraps up %s! You answered %d of %d correctly (%.0f%%). You finished at the %s level.",
		s.Topic.DisplayName(), s.Correct, s.Answered, s.Accuracy()*100, s.Final)
}

// Stopped acknowledges an explicit stop, with the run summary when one
// exists.
func Stopped(s *quiz.Summary) string {
	if s == nil || s.Answered == 0 {
		return "Okay, stopping here. Say \"quiz me\" whenever you want another round."
	}
	return "Okay, stopping here. " + Summary(*s)
}

// TopicExhausted reports that a topic has no unseen questions left.
func TopicExhausted(tp topic.Topic) string {
	return fmt.Sprintf("You've worked through every %s question I have! Pick another topic, or check your progress.", tp.DisplayName())
}

// NoInformation is the grounded-generation refusal: retrieval found
// nothing, so nothing gets generated.
func NoInformation() string {
	return "I don't have information about that in my study materials. Try asking about " + topicList() + "."
}

func topicList() string {
	names := make([]string, 0, len(topic.AllTopics()))
	for _, tp := range topic.AllTopics() {
		names = append(names, tp.DisplayName())
	}
	return strings.Join(names, ", ")
}
