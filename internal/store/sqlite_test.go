package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_AppliesWAL(t *testing.T) {
	s := openTestStore(t)

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestSQLite_SharedSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "explanation"}); err != nil {
		t.Fatalf("append llm: %v", err)
	}
	if err := s.AppendTurn(ctx, TurnEventData{SessionID: "s1"}); err != nil {
		t.Fatalf("append turn: %v", err)
	}
	if err := s.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "feedback"}); err != nil {
		t.Fatalf("append llm: %v", err)
	}

	events, err := s.LLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d llm events, want 2", len(events))
	}
	// The turn event consumed sequence 2.
	if events[0].Sequence != 1 || events[1].Sequence != 3 {
		t.Errorf("sequences = %d, %d; want 1, 3", events[0].Sequence, events[1].Sequence)
	}
}

func TestSQLite_LLMEventRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	data := LLMRequestEventData{
		Provider:     "anthropic",
		Model:        "claude-sonnet-4-5",
		Purpose:      "answer-judge",
		InputTokens:  120,
		OutputTokens: 8,
		LatencyMs:    340,
		Success:      true,
		RequestBody:  "Question: What does append() do?",
		ResponseBody: `{"verdict":"yes"}`,
	}
	if err := s.AppendLLMRequest(ctx, data); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := s.LLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Data != data {
		t.Errorf("data = %+v, want %+v", events[0].Data, data)
	}
	if time.Since(events[0].Timestamp) > time.Minute {
		t.Errorf("timestamp not recent: %v", events[0].Timestamp)
	}
}

func TestSQLite_AttemptHintSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	attempt := AttemptEventData{
		SessionID:     "s1",
		QuestionID:    "lst-beg-1",
		Topic:         "lists",
		Difficulty:    "beginner",
		LearnerAnswer: "append",
		CorrectAnswer: "append()",
		Correct:       true,
		HintsUsed:     2,
		Method:        "exact",
	}
	hint := HintEventData{
		SessionID:  "s1",
		QuestionID: "lst-beg-1",
		Topic:      "lists",
		HintLevel:  2,
		HintText:   "You call it as my_list.a...(item).",
	}
	sess := SessionEventData{
		SessionID: "s1",
		Action:    "quiz-completed",
		Topic:     "lists",
		Answered:  5,
		Correct:   4,
	}

	if err := s.AppendAttempt(ctx, attempt); err != nil {
		t.Fatalf("append attempt: %v", err)
	}
	if err := s.AppendHint(ctx, hint); err != nil {
		t.Fatalf("append hint: %v", err)
	}
	if err := s.AppendSession(ctx, sess); err != nil {
		t.Fatalf("append session: %v", err)
	}

	attempts, err := s.AttemptEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query attempts: %v", err)
	}
	if len(attempts) != 1 || attempts[0].Data != attempt {
		t.Errorf("attempts = %+v", attempts)
	}

	hints, err := s.HintEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query hints: %v", err)
	}
	if len(hints) != 1 || hints[0].Data != hint {
		t.Errorf("hints = %+v", hints)
	}

	sessions, err := s.SessionEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Data != sess {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestSQLite_QueryFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := s.AppendLLMRequest(ctx, LLMRequestEventData{Model: "m"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, _ := s.LLMEvents(ctx, QueryOpts{After: 2})
	if len(events) != 3 {
		t.Errorf("After=2: got %d, want 3", len(events))
	}

	events, _ = s.LLMEvents(ctx, QueryOpts{Before: 3})
	if len(events) != 2 {
		t.Errorf("Before=3: got %d, want 2", len(events))
	}

	events, _ = s.LLMEvents(ctx, QueryOpts{Limit: 2})
	if len(events) != 2 {
		t.Fatalf("Limit=2: got %d, want 2", len(events))
	}
	// Limit keeps the most recent entries, still in append order.
	if events[0].Sequence != 4 || events[1].Sequence != 5 {
		t.Errorf("Limit kept sequences %d, %d; want 4, 5", events[0].Sequence, events[1].Sequence)
	}

	events, _ = s.LLMEvents(ctx, QueryOpts{After: 1, Limit: 2})
	if len(events) != 2 || events[0].Sequence != 4 {
		t.Errorf("After+Limit: got %+v", events)
	}
}

func TestSQLite_UsageAggregation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	appends := []LLMRequestEventData{
		{Model: "claude", Purpose: "explanation", InputTokens: 100, OutputTokens: 50, Success: true},
		{Model: "claude", Purpose: "explanation", InputTokens: 200, OutputTokens: 80, Success: true},
		{Model: "claude", Purpose: "answer-judge", InputTokens: 30, OutputTokens: 5, Success: false},
		{Model: "gpt", Purpose: "feedback", InputTokens: 10, OutputTokens: 10, Success: true},
	}
	for _, d := range appends {
		if err := s.AppendLLMRequest(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := s.UsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	expl := byPurpose["explanation"]
	if expl.Requests != 2 || expl.InputTokens != 300 || expl.OutputTokens != 130 || expl.Failures != 0 {
		t.Errorf("explanation usage = %+v", expl)
	}
	judge := byPurpose["answer-judge"]
	if judge.Requests != 1 || judge.Failures != 1 {
		t.Errorf("answer-judge usage = %+v", judge)
	}

	byModel, err := s.UsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if byModel["claude"].Requests != 3 || byModel["gpt"].Requests != 1 {
		t.Errorf("model usage = %+v", byModel)
	}
}

func TestSQLite_TurnCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, sid := range []string{"a", "a", "b"} {
		if err := s.AppendTurn(ctx, TurnEventData{SessionID: sid}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if n, _ := s.TurnCount(ctx, "a"); n != 2 {
		t.Errorf("TurnCount(a) = %d, want 2", n)
	}
	if n, _ := s.TurnCount(ctx, ""); n != 3 {
		t.Errorf("TurnCount(all) = %d, want 3", n)
	}
	if n, _ := s.TurnCount(ctx, "zzz"); n != 0 {
		t.Errorf("TurnCount(zzz) = %d, want 0", n)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.AppendTurn(ctx, TurnEventData{SessionID: "s1", Intent: "greeting"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if n, _ := s2.TurnCount(ctx, "s1"); n != 1 {
		t.Errorf("TurnCount after reopen = %d, want 1", n)
	}

	// The sequence resumes where it left off rather than restarting.
	if err := s2.AppendTurn(ctx, TurnEventData{SessionID: "s1", Intent: "farewell"}); err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	var maxSeq int64
	if err := s2.DB().QueryRow("SELECT MAX(sequence) FROM turn_events").Scan(&maxSeq); err != nil {
		t.Fatalf("max sequence: %v", err)
	}
	if maxSeq != 2 {
		t.Errorf("max sequence = %d, want 2", maxSeq)
	}
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "events.db")
	t.Setenv("STUDYBUDDY_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Dir(got)); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}
}
