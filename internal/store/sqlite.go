package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLite is a durable EventRepo backed by a SQLite database. It keeps
// the same append-only, shared-sequence semantics as Memory and
// survives process restarts.
type SQLite struct {
	db  *sql.DB
	seq *sequenceCounter
}

var _ EventRepo = (*SQLite)(nil)

// Open creates a SQLite event store at dsn. It applies recommended
// pragmas and creates missing tables.
func Open(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-writer durability.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the event tables. Timestamps are unix nanoseconds so
// range filters stay integer comparisons.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS llm_request_events (
			sequence INTEGER PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS turn_events (
			sequence INTEGER PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			session_id TEXT NOT NULL,
			intent TEXT NOT NULL,
			topic TEXT NOT NULL,
			latency_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turn_events_session ON turn_events(session_id)`,
		`CREATE TABLE IF NOT EXISTS attempt_events (
			sequence INTEGER PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			session_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			learner_answer TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			correct INTEGER NOT NULL,
			hints_used INTEGER NOT NULL,
			method TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hint_events (
			sequence INTEGER PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			session_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			hint_level INTEGER NOT NULL,
			hint_text TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS session_events (
			sequence INTEGER PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			session_id TEXT NOT NULL,
			action TEXT NOT NULL,
			topic TEXT NOT NULL,
			answered INTEGER NOT NULL,
			correct INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// sequenceCounter manages the monotonic sequence shared across all
// event tables. Per-table auto-increment ids cannot establish
// cross-type ordering, so every append draws from this single counter.
// The mutex serializes within the process; the RETURNING clause makes
// the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

func (s *SQLite) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO llm_request_events
		 (sequence, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, time.Now().UnixNano(), data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
		data.ErrorMessage, data.RequestBody, data.ResponseBody)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (s *SQLite) AppendTurn(ctx context.Context, data TurnEventData) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO turn_events (sequence, timestamp, session_id, intent, topic, latency_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		seq, time.Now().UnixNano(), data.SessionID, data.Intent, data.Topic, data.LatencyMs)
	if err != nil {
		return fmt.Errorf("save turn event: %w", err)
	}
	return nil
}

func (s *SQLite) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO attempt_events
		 (sequence, timestamp, session_id, question_id, topic, difficulty, learner_answer, correct_answer, correct, hints_used, method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, time.Now().UnixNano(), data.SessionID, data.QuestionID, data.Topic,
		data.Difficulty, data.LearnerAnswer, data.CorrectAnswer, data.Correct,
		data.HintsUsed, data.Method)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (s *SQLite) AppendHint(ctx context.Context, data HintEventData) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO hint_events (sequence, timestamp, session_id, question_id, topic, hint_level, hint_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seq, time.Now().UnixNano(), data.SessionID, data.QuestionID, data.Topic,
		data.HintLevel, data.HintText)
	if err != nil {
		return fmt.Errorf("save hint event: %w", err)
	}
	return nil
}

func (s *SQLite) AppendSession(ctx context.Context, data SessionEventData) error {
	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session_events (sequence, timestamp, session_id, action, topic, answered, correct)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seq, time.Now().UnixNano(), data.SessionID, data.Action, data.Topic,
		data.Answered, data.Correct)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

// whereClause translates QueryOpts into SQL. The caller appends the
// returned args to its own.
func whereClause(opts QueryOpts) (string, []any) {
	var conds []string
	var args []any
	if opts.After != 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Before != 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, opts.From.UnixNano())
	}
	if !opts.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, opts.To.UnixNano())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// selectEvents builds the query text for one event table: ascending
// sequence order, with Limit keeping the most recent rows.
func selectEvents(cols, table string, opts QueryOpts) (string, []any) {
	where, args := whereClause(opts)
	q := "SELECT " + cols + " FROM " + table + where + " ORDER BY sequence"
	if opts.Limit > 0 {
		q = "SELECT " + cols + " FROM (SELECT " + cols + " FROM " + table + where +
			" ORDER BY sequence DESC LIMIT ?) ORDER BY sequence"
		args = append(args, opts.Limit)
	}
	return q, args
}

const llmCols = "sequence, timestamp, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body"

func (s *SQLite) LLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	q, args := selectEvents(llmCols, "llm_request_events", opts)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var e LLMRequestEvent
		var ts int64
		if err := rows.Scan(&e.Sequence, &ts, &e.Data.Provider, &e.Data.Model,
			&e.Data.Purpose, &e.Data.InputTokens, &e.Data.OutputTokens,
			&e.Data.LatencyMs, &e.Data.Success, &e.Data.ErrorMessage,
			&e.Data.RequestBody, &e.Data.ResponseBody); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

const attemptCols = "sequence, timestamp, session_id, question_id, topic, difficulty, learner_answer, correct_answer, correct, hints_used, method"

func (s *SQLite) AttemptEvents(ctx context.Context, opts QueryOpts) ([]AttemptEvent, error) {
	q, args := selectEvents(attemptCols, "attempt_events", opts)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var e AttemptEvent
		var ts int64
		if err := rows.Scan(&e.Sequence, &ts, &e.Data.SessionID, &e.Data.QuestionID,
			&e.Data.Topic, &e.Data.Difficulty, &e.Data.LearnerAnswer,
			&e.Data.CorrectAnswer, &e.Data.Correct, &e.Data.HintsUsed,
			&e.Data.Method); err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

const hintCols = "sequence, timestamp, session_id, question_id, topic, hint_level, hint_text"

func (s *SQLite) HintEvents(ctx context.Context, opts QueryOpts) ([]HintEvent, error) {
	q, args := selectEvents(hintCols, "hint_events", opts)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query hint events: %w", err)
	}
	defer rows.Close()

	var out []HintEvent
	for rows.Next() {
		var e HintEvent
		var ts int64
		if err := rows.Scan(&e.Sequence, &ts, &e.Data.SessionID, &e.Data.QuestionID,
			&e.Data.Topic, &e.Data.HintLevel, &e.Data.HintText); err != nil {
			return nil, fmt.Errorf("scan hint event: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

const sessionCols = "sequence, timestamp, session_id, action, topic, answered, correct"

func (s *SQLite) SessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	q, args := selectEvents(sessionCols, "session_events", opts)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		var ts int64
		if err := rows.Scan(&e.Sequence, &ts, &e.Data.SessionID, &e.Data.Action,
			&e.Data.Topic, &e.Data.Answered, &e.Data.Correct); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) usageBy(ctx context.Context, column string) (map[string]Usage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*),
		        SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
		        COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
		 FROM llm_request_events GROUP BY `+column)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Usage)
	for rows.Next() {
		var key string
		var u Usage
		if err := rows.Scan(&key, &u.Requests, &u.Failures, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out[key] = u
	}
	return out, rows.Err()
}

func (s *SQLite) UsageByPurpose(ctx context.Context) (map[string]Usage, error) {
	return s.usageBy(ctx, "purpose")
}

func (s *SQLite) UsageByModel(ctx context.Context) (map[string]Usage, error) {
	return s.usageBy(ctx, "model")
}

func (s *SQLite) TurnCount(ctx context.Context, sessionID string) (int, error) {
	q := `SELECT COUNT(*) FROM turn_events`
	var args []any
	if sessionID != "" {
		q += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count turns: %w", err)
	}
	return n, nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. STUDYBUDDY_DB environment variable
// 2. $XDG_DATA_HOME/studybuddy/studybuddy.db
// 3. ~/.local/share/studybuddy/studybuddy.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("STUDYBUDDY_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "studybuddy", "studybuddy.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
