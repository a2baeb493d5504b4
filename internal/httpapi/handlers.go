package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studybuddy/internal/engine"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/store"
)

// TurnRequest is one learner utterance addressed to a session.
type TurnRequest struct {
	Utterance string `json:"utterance"`
}

// TopicRow is one line of the wire-format progress report.
type TopicRow struct {
	Topic       string  `json:"topic"`
	DisplayName string  `json:"display_name"`
	Attempts    int     `json:"attempts"`
	Correct     int     `json:"correct"`
	Accuracy    float64 `json:"accuracy"`
	Level       string  `json:"level"`
}

// Recommendation names the topic the engine would serve next and why.
type Recommendation struct {
	Topic  string `json:"topic"`
	Reason string `json:"reason"`
}

// ProgressResponse mirrors engine.ProgressReport for the wire.
type ProgressResponse struct {
	SessionID      string         `json:"session_id"`
	TotalAttempts  int            `json:"total_attempts"`
	TotalCorrect   int            `json:"total_correct"`
	Topics         []TopicRow     `json:"topics"`
	Recommendation Recommendation `json:"recommendation"`
}

// PurposeUsage is aggregated generation-service consumption for one
// request purpose.
type PurposeUsage struct {
	Requests     int `json:"requests"`
	Failures     int `json:"failures"`
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ModelUsage extends per-model consumption with a cost estimate where
// pricing is known.
type ModelUsage struct {
	Requests     int      `json:"requests"`
	Failures     int      `json:"failures"`
	InputTokens  int      `json:"input_tokens"`
	OutputTokens int      `json:"output_tokens"`
	CostUSD      *float64 `json:"cost_usd,omitempty"`
}

func (s *Server) createSession(c *gin.Context) {
	id := s.engine.CreateSession(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

func (s *Server) handleTurn(c *gin.Context) {
	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := s.engine.HandleTurn(c.Request.Context(), c.Param("sessionId"), req.Utterance)
	if errors.Is(err, engine.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err != nil {
		s.log.Error("turn failed", "sessionId", c.Param("sessionId"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (s *Server) getProgress(c *gin.Context) {
	report, err := s.engine.GetProgress(c.Param("sessionId"))
	if errors.Is(err, engine.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err != nil {
		s.log.Error("progress failed", "sessionId", c.Param("sessionId"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := ProgressResponse{
		SessionID:     report.SessionID,
		TotalAttempts: report.TotalAttempts,
		TotalCorrect:  report.TotalCorrect,
		Topics:        make([]TopicRow, 0, len(report.Topics)),
		Recommendation: Recommendation{
			Topic:  string(report.Next),
			Reason: string(report.Reason),
		},
	}
	for _, row := range report.Topics {
		resp.Topics = append(resp.Topics, TopicRow{
			Topic:       string(row.Topic),
			DisplayName: row.Topic.DisplayName(),
			Attempts:    row.Attempts,
			Correct:     row.Correct,
			Accuracy:    row.Accuracy,
			Level:       row.Level.String(),
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) getUsage(c *gin.Context) {
	byPurpose, err := s.events.UsageByPurpose(c.Request.Context())
	if err != nil {
		s.log.Error("usage query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read usage"})
		return
	}
	byModel, err := s.events.UsageByModel(c.Request.Context())
	if err != nil {
		s.log.Error("usage query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read usage"})
		return
	}

	purposes := make(map[string]PurposeUsage, len(byPurpose))
	for purpose, u := range byPurpose {
		purposes[purpose] = PurposeUsage{
			Requests:     u.Requests,
			Failures:     u.Failures,
			InputTokens:  u.InputTokens,
			OutputTokens: u.OutputTokens,
		}
	}

	c.JSON(http.StatusOK, gin.H{"by_purpose": purposes, "by_model": modelUsage(byModel)})
}

// modelUsage attaches cost estimates to per-model usage where pricing
// is known.
func modelUsage(byModel map[string]store.Usage) map[string]ModelUsage {
	models := make(map[string]ModelUsage, len(byModel))
	for model, u := range byModel {
		m := ModelUsage{
			Requests:     u.Requests,
			Failures:     u.Failures,
			InputTokens:  u.InputTokens,
			OutputTokens: u.OutputTokens,
		}
		if cost := llm.LookupCost(model); cost != nil {
			usd := cost.Cost(u.InputTokens, u.OutputTokens)
			m.CostUSD = &usd
		}
		models[model] = m
	}
	return models
}
