package respond

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/retrieval"
)

// Assembler renders replies: deterministic templates for the quiz flow,
// grounded generation for explanations and feedback elaboration. All
// generated text is grounded in retrieved passages; with no passages the
// assembler refuses rather than improvise.
type Assembler struct {
	provider llm.Provider
	cfg      Config
}

// NewAssembler creates an assembler. A nil provider degrades every
// generation path to its templated fallback.
func NewAssembler(provider llm.Provider, cfg Config) *Assembler {
	if cfg.MaxTokens <= 0 {
		cfg = DefaultConfig()
	}
	return &Assembler{provider: provider, cfg: cfg}
}

// Explain answers a knowledge question from the given passages. Empty
// passages short-circuit to the no-information message; generation
// failure falls back to quoting the passages directly.
func (a *Assembler) Explain(ctx context.Context, query string, passages []retrieval.Passage) string {
	if len(passages) == 0 {
		return NoInformation()
	}
	if a.provider == nil {
		return passageFallback(passages)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.GenerateTimeout)
	defer cancel()
	ctx = llm.WithPurpose(ctx, "explanation")

	req := llm.Request{
		System: explainSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExplainMessage(query, passages)},
		},
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	}

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return passageFallback(passages)
	}
	text := strings.TrimSpace(contentText(resp.Content))
	if text == "" {
		return passageFallback(passages)
	}
	return text
}

// ElaborateIncorrect adds a short grounded explanation of why the
// expected answer is right. It returns "" when there is nothing grounded
// to say; callers then keep the deterministic feedback line alone.
func (a *Assembler) ElaborateIncorrect(ctx context.Context, q *bank.Question, submission string, passages []retrieval.Passage) string {
	if len(passages) == 0 || a.provider == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.GenerateTimeout)
	defer cancel()
	ctx = llm.WithPurpose(ctx, "feedback")

	req := llm.Request{
		System: feedbackSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildFeedbackMessage(q, submission, passages)},
		},
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	}

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(contentText(resp.Content))
}

const explainSystemPrompt = `You are a friendly Python tutor. Answer the learner's question using ONLY the study material provided. If the material does not cover something, say so instead of guessing. Keep the explanation to 3-5 short sentences with one small code example when it helps. Plain text only, no markdown headings.`

func buildExplainMessage(query string, passages []retrieval.Passage) string {
	var b strings.Builder

	b.WriteString("Study material:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, p.Text)
	}

	b.WriteString("\nLearner's question: ")
	b.WriteString(query)
	return b.String()
}

const feedbackSystemPrompt = `You are a friendly Python tutor. A learner answered a quiz question incorrectly. Using ONLY the study material provided, explain in 1-3 short sentences why the expected answer is right. Do not scold, do not repeat the question, and do not invent facts beyond the material.`

func buildFeedbackMessage(q *bank.Question, submission string, passages []retrieval.Passage) string {
	var b strings.Builder

	b.WriteString("Study material:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, p.Text)
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", q.Prompt)
	fmt.Fprintf(&b, "Expected answer: %s\n", q.Answer)
	fmt.Fprintf(&b, "Learner's answer: %s\n", submission)
	return b.String()
}

// passageFallback quotes the retrieved material when generation is
// unavailable. The reply stays grounded either way.
func passageFallback(passages []retrieval.Passage) string {
	var b strings.Builder
	b.WriteString("Here's what my study materials say:\n")
	for _, p := range passages {
		b.WriteString("\n- " + p.Text)
	}
	return b.String()
}

// contentText extracts plain text from a no-schema response. Providers
// hand back the raw completion bytes; some models still quote them as a
// JSON string.
func contentText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
