package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/engine"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/topic"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()

	b, err := bank.New([]bank.Question{
		{
			ID: "lst-beg-1", Topic: topic.TopicLists, Difficulty: topic.Beginner,
			Prompt: "Which method adds an item to the end of a list?",
			Answer: "append",
			Hints:  []string{"It starts with the letter a."},
		},
	})
	require.NoError(t, err)

	mem := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := engine.New(engine.Options{Bank: b, Events: mem, Logger: logger})
	require.NoError(t, err)

	return NewServer(eng, mem, logger).Router(), mem
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/sessions", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["session_id"])
	return resp["session_id"]
}

func postTurn(router *gin.Engine, sessionID, utterance string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(TurnRequest{Utterance: utterance})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/sessions/"+sessionID+"/turn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz_ReturnsOK(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestCreateSession_ReturnsID(t *testing.T) {
	router, _ := newTestRouter(t)

	first := createSession(t, router)
	second := createSession(t, router)
	assert.NotEqual(t, first, second)
}

func TestTurn_GreetingRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)

	w := postTurn(router, id, "hello")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp["reply"], "Hi! I'm your Python study buddy."),
		"reply = %q", resp["reply"])
}

func TestTurn_UnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postTurn(router, "nope", "hello")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "session not found", resp["error"])
}

func TestTurn_InvalidBody(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/sessions/"+id+"/turn",
		strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid request body", resp["error"])
}

func TestProgress_UnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/sessions/nope/progress", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgress_AfterQuiz(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createSession(t, router)

	w := postTurn(router, id, "quiz me on lists")
	require.Equal(t, http.StatusOK, w.Code)
	w = postTurn(router, id, "append")
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/sessions/"+id+"/progress", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.SessionID)
	assert.Equal(t, 1, resp.TotalAttempts)
	assert.Equal(t, 1, resp.TotalCorrect)

	require.Len(t, resp.Topics, 1)
	row := resp.Topics[0]
	assert.Equal(t, "lists", row.Topic)
	assert.Equal(t, "Lists", row.DisplayName)
	assert.Equal(t, 1, row.Attempts)
	assert.Equal(t, 1, row.Correct)
	assert.InDelta(t, 1.0, row.Accuracy, 1e-9)
	assert.Equal(t, "beginner", row.Level)

	// Lists is done, so the engine points at an untouched topic.
	assert.Equal(t, "variables", resp.Recommendation.Topic)
	assert.Equal(t, "new", resp.Recommendation.Reason)
}

func TestUsage_CostEstimates(t *testing.T) {
	router, mem := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, mem.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Model: "claude-sonnet-4-5", Purpose: "explanation",
		InputTokens: 500_000, OutputTokens: 0, Success: true,
	}))
	require.NoError(t, mem.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Model: "mock", Purpose: "answer-judge",
		InputTokens: 10, OutputTokens: 5, Success: true,
	}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/llm/usage", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ByPurpose map[string]PurposeUsage `json:"by_purpose"`
		ByModel   map[string]ModelUsage   `json:"by_model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.ByPurpose["explanation"].Requests)
	assert.Equal(t, 500_000, resp.ByPurpose["explanation"].InputTokens)

	sonnet := resp.ByModel["claude-sonnet-4-5"]
	require.NotNil(t, sonnet.CostUSD)
	assert.InDelta(t, 1.5, *sonnet.CostUSD, 1e-9)

	// No pricing entry for the mock model, so no estimate.
	assert.Nil(t, resp.ByModel["mock"].CostUSD)
}
