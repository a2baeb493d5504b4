package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/studybuddy/internal/adapt"
	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/evaluate"
	"github.com/abhisek/studybuddy/internal/intent"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/recommend"
	"github.com/abhisek/studybuddy/internal/respond"
	"github.com/abhisek/studybuddy/internal/retrieval"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/student"
	"github.com/abhisek/studybuddy/internal/topic"
)

// ErrSessionNotFound is returned for turns addressed to a session id
// the engine has never issued. It is the engine's only hard error;
// everything else degrades into a reply.
var ErrSessionNotFound = errors.New("session not found")

// defaultTopK is how many passages ground one explanation.
const defaultTopK = 3

// Options configures an Engine. Bank is required. A nil Provider
// disables the LLM judge and grounded generation; a nil Retriever
// disables retrieval. Both leave the engine fully functional on
// templates and deterministic grading.
type Options struct {
	Bank      *bank.Bank
	Provider  llm.Provider
	Retriever retrieval.Retriever
	Events    store.EventRepo
	Logger    *slog.Logger

	Adapt    adapt.Config
	Evaluate evaluate.Config
	Respond  respond.Config

	// TopK is the passage count per retrieval, defaulted when <= 0.
	TopK int
}

// Engine coordinates the tutoring dialogue: it owns the session
// registry and routes each utterance through intent resolution to the
// matching handler.
type Engine struct {
	resolver   *intent.Resolver
	bank       *bank.Bank
	retriever  retrieval.Retriever
	assembler  *respond.Assembler
	evaluator  *evaluate.Evaluator
	controller *adapt.Controller
	events     store.EventRepo
	log        *slog.Logger
	topK       int

	mu       sync.RWMutex
	sessions map[string]*session
}

// session is one learner's isolated state. Its mutex serializes turns
// within the session; sessions share no mutable state with each other.
type session struct {
	mu      sync.Mutex
	profile *student.Profile
	quiz    *quiz.Session
}

// New builds an engine from opts.
func New(opts Options) (*Engine, error) {
	if opts.Bank == nil {
		return nil, errors.New("engine: nil question bank")
	}
	if opts.Events == nil {
		opts.Events = store.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}

	return &Engine{
		resolver:   intent.NewResolver(),
		bank:       opts.Bank,
		retriever:  opts.Retriever,
		assembler:  respond.NewAssembler(opts.Provider, opts.Respond),
		evaluator:  evaluate.NewEvaluator(opts.Provider, opts.Evaluate),
		controller: adapt.NewController(opts.Adapt),
		events:     opts.Events,
		log:        opts.Logger,
		topK:       opts.TopK,
		sessions:   make(map[string]*session),
	}, nil
}

// CreateSession registers a fresh session and returns its id.
func (e *Engine) CreateSession(ctx context.Context) string {
	id := uuid.NewString()

	e.mu.Lock()
	e.sessions[id] = &session{
		profile: student.NewProfile(),
		quiz:    quiz.NewSession(),
	}
	e.mu.Unlock()

	e.appendSession(ctx, store.SessionEventData{SessionID: id, Action: "created"})
	e.log.Info("session created", "session_id", id)
	return id
}

func (e *Engine) session(id string) (*session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[id]
	return s, ok
}

// ProgressReport is the per-session progress view.
type ProgressReport struct {
	SessionID     string
	TotalAttempts int
	TotalCorrect  int
	Topics        []respond.TopicProgress

	// Next is the recommended topic and Reason why.
	Next   topic.Topic
	Reason recommend.Reason
}

// GetProgress reports per-topic progress and the recommended next
// topic for a session.
func (e *Engine) GetProgress(sessionID string) (*ProgressReport, error) {
	s, ok := e.session(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.report(sessionID, s), nil
}

func (e *Engine) report(sessionID string, s *session) *ProgressReport {
	var rows []respond.TopicProgress
	for _, tp := range s.profile.Topics() {
		acc, _ := s.profile.Accuracy(tp)
		rows = append(rows, respond.TopicProgress{
			Topic:    tp,
			Attempts: s.profile.Attempts(tp),
			Correct:  s.profile.Correct(tp),
			Accuracy: acc,
			Level:    e.levelFor(s, tp),
		})
	}

	next, reason := recommend.Next(s.profile)
	return &ProgressReport{
		SessionID:     sessionID,
		TotalAttempts: s.profile.TotalAttempts(),
		TotalCorrect:  s.profile.TotalCorrect(),
		Topics:        rows,
		Next:          next,
		Reason:        reason,
	}
}

// levelFor returns the level the next question on tp would be served
// at. The active quiz topic resumes its run's working level; other
// topics restart from their last attempt, adjusted by the controller.
func (e *Engine) levelFor(s *session, tp topic.Topic) topic.Difficulty {
	if s.quiz.Topic == tp {
		return s.quiz.Difficulty
	}
	if last := s.profile.LastN(tp, 1); len(last) == 1 {
		return e.controller.NextDifficulty(last[0].Difficulty, s.profile, tp)
	}
	return topic.Beginner
}

// Event appends are best-effort: a full audit trail is not worth
// failing a learner's turn over.

func (e *Engine) appendTurn(ctx context.Context, data store.TurnEventData) {
	if err := e.events.AppendTurn(ctx, data); err != nil {
		e.log.Warn("append turn event", "error", err)
	}
}

func (e *Engine) appendAttempt(ctx context.Context, data store.AttemptEventData) {
	if err := e.events.AppendAttempt(ctx, data); err != nil {
		e.log.Warn("append attempt event", "error", err)
	}
}

func (e *Engine) appendHint(ctx context.Context, data store.HintEventData) {
	if err := e.events.AppendHint(ctx, data); err != nil {
		e.log.Warn("append hint event", "error", err)
	}
}

func (e *Engine) appendSession(ctx context.Context, data store.SessionEventData) {
	if err := e.events.AppendSession(ctx, data); err != nil {
		e.log.Warn("append session event", "error", err)
	}
}
