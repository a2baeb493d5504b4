package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process EventRepo. The log lives for the lifetime of
// the process; durable storage across restarts is deliberately out of
// scope for the engine.
//
// One mutex guards every slice and the shared sequence: event appends
// are rare (a handful per turn) and cross-type ordering needs a single
// counter anyway.
type Memory struct {
	mu  sync.Mutex
	seq int64

	llm      []LLMRequestEvent
	turns    []TurnEvent
	attempts []AttemptEvent
	hints    []HintEvent
	sessions []SessionEvent
}

// NewMemory returns an empty event log.
func NewMemory() *Memory {
	return &Memory{}
}

var _ EventRepo = (*Memory)(nil)

// next assigns the next sequence number. Callers must hold mu.
func (m *Memory) next() int64 {
	m.seq++
	return m.seq
}

func (m *Memory) AppendLLMRequest(_ context.Context, data LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.llm = append(m.llm, LLMRequestEvent{Sequence: m.next(), Timestamp: time.Now(), Data: data})
	return nil
}

func (m *Memory) AppendTurn(_ context.Context, data TurnEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, TurnEvent{Sequence: m.next(), Timestamp: time.Now(), Data: data})
	return nil
}

func (m *Memory) AppendAttempt(_ context.Context, data AttemptEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, AttemptEvent{Sequence: m.next(), Timestamp: time.Now(), Data: data})
	return nil
}

func (m *Memory) AppendHint(_ context.Context, data HintEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hints = append(m.hints, HintEvent{Sequence: m.next(), Timestamp: time.Now(), Data: data})
	return nil
}

func (m *Memory) AppendSession(_ context.Context, data SessionEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, SessionEvent{Sequence: m.next(), Timestamp: time.Now(), Data: data})
	return nil
}

func (m *Memory) LLMEvents(_ context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []LLMRequestEvent
	for _, e := range m.llm {
		if matches(e.Sequence, e.Timestamp, opts) {
			out = append(out, e)
		}
	}
	return trimToLimit(out, opts.Limit), nil
}

func (m *Memory) AttemptEvents(_ context.Context, opts QueryOpts) ([]AttemptEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []AttemptEvent
	for _, e := range m.attempts {
		if matches(e.Sequence, e.Timestamp, opts) {
			out = append(out, e)
		}
	}
	return trimToLimit(out, opts.Limit), nil
}

func (m *Memory) HintEvents(_ context.Context, opts QueryOpts) ([]HintEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []HintEvent
	for _, e := range m.hints {
		if matches(e.Sequence, e.Timestamp, opts) {
			out = append(out, e)
		}
	}
	return trimToLimit(out, opts.Limit), nil
}

func (m *Memory) SessionEvents(_ context.Context, opts QueryOpts) ([]SessionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []SessionEvent
	for _, e := range m.sessions {
		if matches(e.Sequence, e.Timestamp, opts) {
			out = append(out, e)
		}
	}
	return trimToLimit(out, opts.Limit), nil
}

func (m *Memory) UsageByPurpose(_ context.Context) (map[string]Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Usage)
	for _, e := range m.llm {
		u := out[e.Data.Purpose]
		accumulate(&u, e.Data)
		out[e.Data.Purpose] = u
	}
	return out, nil
}

func (m *Memory) UsageByModel(_ context.Context) (map[string]Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Usage)
	for _, e := range m.llm {
		u := out[e.Data.Model]
		accumulate(&u, e.Data)
		out[e.Data.Model] = u
	}
	return out, nil
}

func (m *Memory) TurnCount(_ context.Context, sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessionID == "" {
		return len(m.turns), nil
	}
	n := 0
	for _, e := range m.turns {
		if e.Data.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func accumulate(u *Usage, d LLMRequestEventData) {
	u.Requests++
	if !d.Success {
		u.Failures++
	}
	u.InputTokens += d.InputTokens
	u.OutputTokens += d.OutputTokens
}

func matches(seq int64, ts time.Time, opts QueryOpts) bool {
	if opts.After != 0 && seq <= opts.After {
		return false
	}
	if opts.Before != 0 && seq >= opts.Before {
		return false
	}
	if !opts.From.IsZero() && ts.Before(opts.From) {
		return false
	}
	if !opts.To.IsZero() && ts.After(opts.To) {
		return false
	}
	return true
}

// trimToLimit keeps the most recent limit entries without disturbing
// append order.
func trimToLimit[E any](events []E, limit int) []E {
	if limit <= 0 || len(events) <= limit {
		return events
	}
	return events[len(events)-limit:]
}
