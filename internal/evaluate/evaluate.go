package evaluate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/llm"
)

// Grading methods recorded on attempts.
const (
	MethodExact = "exact"
	MethodJudge = "llm-judge"
)

// Config holds configuration for the LLM answer judge.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults. Temperature stays at zero so
// the same submission always grades the same way.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   64,
		Temperature: 0,
	}
}

// Verdict is the outcome of grading one submission.
type Verdict struct {
	Correct bool
	Method  string
}

// Evaluator grades submissions: deterministic matching first, then an
// LLM yes/no judgment for open answers the matcher cannot settle.
type Evaluator struct {
	provider llm.Provider
	cfg      Config
}

// NewEvaluator creates an answer evaluator. A nil provider disables the
// LLM judge; inconclusive mismatches then grade as incorrect.
func NewEvaluator(provider llm.Provider, cfg Config) *Evaluator {
	if cfg.MaxTokens <= 0 {
		cfg = DefaultConfig()
	}
	return &Evaluator{provider: provider, cfg: cfg}
}

// Evaluate grades a submission against a question. It never returns an
// error: when the judge is unavailable or fails, the deterministic
// mismatch stands and the answer grades as incorrect.
func (e *Evaluator) Evaluate(ctx context.Context, q *bank.Question, submission string) Verdict {
	correct, conclusive := bank.CheckAnswer(submission, q)
	if conclusive {
		return Verdict{Correct: correct, Method: MethodExact}
	}

	if e.provider == nil {
		return Verdict{Correct: false, Method: MethodExact}
	}

	matched, err := e.judge(ctx, q, submission)
	if err != nil {
		return Verdict{Correct: false, Method: MethodExact}
	}
	return Verdict{Correct: matched, Method: MethodJudge}
}

// judgeOutput is the raw LLM response.
type judgeOutput struct {
	Verdict string `json:"verdict"`
}

func (e *Evaluator) judge(ctx context.Context, q *bank.Question, submission string) (bool, error) {
	ctx = llm.WithPurpose(ctx, "answer-judge")

	userMsg, err := buildJudgeMessage(q, submission)
	if err != nil {
		return false, fmt.Errorf("build judge prompt: %w", err)
	}

	llmReq := llm.Request{
		System: judgeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      JudgeSchema,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}

	resp, err := e.provider.Generate(ctx, llmReq)
	if err != nil {
		return false, fmt.Errorf("LLM judge failed: %w", err)
	}

	var raw judgeOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return false, fmt.Errorf("failed to parse judge response: %w", err)
	}

	return raw.Verdict == "yes", nil
}

const judgeSystemPrompt = `You are grading short answers for a Python programming tutor. Decide whether the learner's answer expresses the same meaning as the expected answer.

Instructions:
- Judge meaning, not wording. "a mutable ordered sequence" matches "an ordered, changeable collection".
- An answer that misses the core idea is wrong, even if related.
- When unsure, answer "no".`

var judgeUserTemplate = template.Must(template.New("judge").Parse(`Question: {{.Prompt}}
Expected answer: {{.Expected}}
{{- if .Accepted}}
Also accepted: {{.Accepted}}
{{- end}}
Learner's answer: {{.Submission}}`))

type judgeMessageView struct {
	Prompt     string
	Expected   string
	Accepted   string
	Submission string
}

func buildJudgeMessage(q *bank.Question, submission string) (string, error) {
	view := judgeMessageView{
		Prompt:     q.Prompt,
		Expected:   q.Answer,
		Accepted:   strings.Join(q.Accept, "; "),
		Submission: submission,
	}

	var buf bytes.Buffer
	if err := judgeUserTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
