package engine

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/intent"
	"github.com/abhisek/studybuddy/internal/quiz"
	"github.com/abhisek/studybuddy/internal/recommend"
	"github.com/abhisek/studybuddy/internal/respond"
	"github.com/abhisek/studybuddy/internal/retrieval"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/student"
	"github.com/abhisek/studybuddy/internal/topic"
)

// HandleTurn resolves one utterance and returns the reply. It is the
// engine's sole conversational entry point. An unknown session id is
// the only error; every other failure degrades into a reply.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, utterance string) (string, error) {
	s, ok := e.session(sessionID)
	if !ok {
		return "", ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	it := e.resolver.Resolve(utterance, s.quiz.State == quiz.AwaitingAnswer)

	var reply string
	switch it.Kind {
	case intent.KindGreeting:
		reply = respond.Greeting()
	case intent.KindFarewell:
		reply = e.farewell(ctx, sessionID, s)
	case intent.KindStartQuiz:
		reply = e.startQuiz(ctx, sessionID, s, it.Topic)
	case intent.KindRequestHint:
		reply = e.revealHint(ctx, sessionID, s)
	case intent.KindSubmitAnswer:
		reply = e.gradeAnswer(ctx, sessionID, s, it.Answer)
	case intent.KindRequestExplanation:
		reply = e.explain(ctx, it)
	case intent.KindRequestProgress:
		report := e.report(sessionID, s)
		reply = respond.Progress(report.Topics, report.Next, report.Reason)
	default:
		reply = respond.Unknown()
	}

	latency := time.Since(start).Milliseconds()
	e.appendTurn(ctx, store.TurnEventData{
		SessionID: sessionID,
		Intent:    string(it.Kind),
		Topic:     string(it.Topic),
		LatencyMs: latency,
	})
	e.log.Debug("turn handled",
		"session_id", sessionID, "intent", it.Kind, "latency_ms", latency)
	return reply, nil
}

// startQuiz begins or resumes a quiz run. Topic preference: the one the
// learner named, else the last quiz topic, else the recommendation. An
// open question is abandoned without an attempt.
func (e *Engine) startQuiz(ctx context.Context, sessionID string, s *session, tp topic.Topic) string {
	if tp == "" {
		tp = s.quiz.Topic
	}
	if tp == "" {
		tp, _ = recommend.Next(s.profile)
	}

	q := quiz.Start(s.quiz, tp, e.levelFor(s, tp), e.bank)
	if q == nil {
		return respond.TopicExhausted(tp)
	}

	e.appendSession(ctx, store.SessionEventData{
		SessionID: sessionID,
		Action:    "quiz-started",
		Topic:     string(tp),
	})
	return respond.Question(q)
}

func (e *Engine) revealHint(ctx context.Context, sessionID string, s *session) string {
	if s.quiz.State != quiz.AwaitingAnswer {
		return respond.NoActiveQuestion()
	}

	text, ok := quiz.Hint(s.quiz)
	if !ok {
		return respond.NoFurtherHints()
	}

	e.appendHint(ctx, store.HintEventData{
		SessionID:  sessionID,
		QuestionID: s.quiz.Current.ID,
		Topic:      string(s.quiz.Topic),
		HintLevel:  s.quiz.HintLevel,
		HintText:   text,
	})
	return respond.Hint(s.quiz.HintLevel, text)
}

// gradeAnswer evaluates a submission, records the attempt, and moves
// the quiz forward to the next question or the run summary.
func (e *Engine) gradeAnswer(ctx context.Context, sessionID string, s *session, answer string) string {
	q := s.quiz.Current
	if q == nil {
		return respond.NoActiveQuestion()
	}

	verdict := e.evaluator.Evaluate(ctx, q, answer)
	hintsUsed := s.quiz.HintLevel

	s.profile.Record(student.Attempt{
		QuestionID: q.ID,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Correct:    verdict.Correct,
		HintsUsed:  hintsUsed,
		At:         time.Now(),
	})
	e.appendAttempt(ctx, store.AttemptEventData{
		SessionID:     sessionID,
		QuestionID:    q.ID,
		Topic:         string(q.Topic),
		Difficulty:    q.Difficulty.String(),
		LearnerAnswer: answer,
		CorrectAnswer: q.Answer,
		Correct:       verdict.Correct,
		HintsUsed:     hintsUsed,
		Method:        verdict.Method,
	})

	next := e.controller.NextDifficulty(s.quiz.Difficulty, s.profile, s.quiz.Topic)
	res := quiz.Submit(s.quiz, verdict.Correct, next, e.bank)

	var b strings.Builder
	if verdict.Correct {
		b.WriteString(respond.Correct())
	} else {
		b.WriteString(respond.Incorrect(q))
		if extra := e.elaborate(ctx, q, answer); extra != "" {
			b.WriteString(" " + extra)
		}
	}

	if res.Summary != nil {
		e.appendSession(ctx, store.SessionEventData{
			SessionID: sessionID,
			Action:    "quiz-completed",
			Topic:     string(res.Summary.Topic),
			Answered:  res.Summary.Answered,
			Correct:   res.Summary.Correct,
		})
		b.WriteString("\n\n" + respond.Summary(*res.Summary))
	} else {
		b.WriteString("\n\n" + respond.Question(res.Next))
	}
	return b.String()
}

// explain answers a knowledge question grounded in retrieved passages.
func (e *Engine) explain(ctx context.Context, it intent.Intent) string {
	passages := e.retrieve(ctx, it.Query, it.Topic)
	return e.assembler.Explain(ctx, it.Query, passages)
}

// elaborate fetches material about a missed question so the feedback
// can say why the expected answer is right.
func (e *Engine) elaborate(ctx context.Context, q *bank.Question, answer string) string {
	passages := e.retrieve(ctx, q.Prompt, q.Topic)
	return e.assembler.ElaborateIncorrect(ctx, q, answer, passages)
}

// retrieve wraps the retriever: a missing retriever or a failed lookup
// both come back empty, and downstream assembly treats them alike.
func (e *Engine) retrieve(ctx context.Context, query string, tp topic.Topic) []retrieval.Passage {
	if e.retriever == nil {
		return nil
	}
	passages, err := e.retriever.Retrieve(ctx, query, tp, e.topK)
	if err != nil {
		e.log.Warn("retrieval failed", "query", query, "error", err)
		return nil
	}
	return passages
}

// farewell stops any open quiz run and says goodbye with the learner's
// standing.
func (e *Engine) farewell(ctx context.Context, sessionID string, s *session) string {
	summary := quiz.Stop(s.quiz)
	if summary == nil {
		return respond.Farewell(s.profile)
	}

	e.appendSession(ctx, store.SessionEventData{
		SessionID: sessionID,
		Action:    "quiz-stopped",
		Topic:     string(summary.Topic),
		Answered:  summary.Answered,
		Correct:   summary.Correct,
	})
	if summary.Answered == 0 {
		return respond.Farewell(s.profile)
	}
	return respond.Stopped(summary) + "\n\n" + respond.Farewell(s.profile)
}
