package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results, keeping the most recent (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures one generation-service call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string

	// RequestBody and ResponseBody hold readable transcripts of the
	// exchange, for inspection with the llm subcommands.
	RequestBody  string
	ResponseBody string
}

// TurnEventData captures one handled conversation turn.
type TurnEventData struct {
	SessionID string
	Intent    string
	Topic     string
	LatencyMs int64
}

// AttemptEventData captures one graded answer.
type AttemptEventData struct {
	SessionID     string
	QuestionID    string
	Topic         string
	Difficulty    string
	LearnerAnswer string
	CorrectAnswer string
	Correct       bool
	HintsUsed     int
	Method        string
}

// HintEventData captures one revealed hint.
type HintEventData struct {
	SessionID  string
	QuestionID string
	Topic      string
	HintLevel  int
	HintText   string
}

// SessionEventData captures a session lifecycle action: "created",
// "quiz-started", "quiz-completed", "quiz-stopped".
type SessionEventData struct {
	SessionID string
	Action    string
	Topic     string
	Answered  int
	Correct   int
}

// LLMRequestEvent is a stored LLM request with its envelope.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	Data      LLMRequestEventData
}

// TurnEvent is a stored turn with its envelope.
type TurnEvent struct {
	Sequence  int64
	Timestamp time.Time
	Data      TurnEventData
}

// AttemptEvent is a stored attempt with its envelope.
type AttemptEvent struct {
	Sequence  int64
	Timestamp time.Time
	Data      AttemptEventData
}

// HintEvent is a stored hint reveal with its envelope.
type HintEvent struct {
	Sequence  int64
	Timestamp time.Time
	Data      HintEventData
}

// SessionEvent is a stored session action with its envelope.
type SessionEvent struct {
	Sequence  int64
	Timestamp time.Time
	Data      SessionEventData
}

// Usage aggregates generation-service consumption.
type Usage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events. All
// event types share one monotonic sequence so cross-type ordering is
// well defined (did the hint come before the answer?).
type EventRepo interface {
	// AppendLLMRequest records a generation-service call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendTurn records a handled conversation turn.
	AppendTurn(ctx context.Context, data TurnEventData) error

	// AppendAttempt records a graded answer.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// AppendHint records a revealed hint.
	AppendHint(ctx context.Context, data HintEventData) error

	// AppendSession records a session lifecycle action.
	AppendSession(ctx context.Context, data SessionEventData) error

	// LLMEvents returns stored LLM requests in append order, filtered
	// by opts.
	LLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// UsageByPurpose aggregates LLM usage per request purpose.
	UsageByPurpose(ctx context.Context) (map[string]Usage, error)

	// UsageByModel aggregates LLM usage per model.
	UsageByModel(ctx context.Context) (map[string]Usage, error)

	// TurnCount returns turns handled for a session, or across all
	// sessions when sessionID is empty.
	TurnCount(ctx context.Context, sessionID string) (int, error)

	// AttemptEvents returns stored attempts in append order, filtered
	// by opts.
	AttemptEvents(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error)

	// HintEvents returns stored hint reveals in append order, filtered
	// by opts.
	HintEvents(ctx context.Context, opts QueryOpts) ([]HintEvent, error)

	// SessionEvents returns stored session actions in append order,
	// filtered by opts.
	SessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)
}
