package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studybuddy/internal/engine"
	"github.com/abhisek/studybuddy/internal/store"
)

// Server exposes the dialogue engine over HTTP.
type Server struct {
	engine *engine.Engine
	events store.EventRepo
	log    *slog.Logger
}

// NewServer wires the engine and event store behind the HTTP surface.
// A nil logger falls back to slog.Default().
func NewServer(eng *engine.Engine, events store.EventRepo, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: eng, events: events, log: logger}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.log))

	router.GET("/healthz", healthCheck)

	v1 := router.Group("/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", s.createSession)
			sessions.POST("/:sessionId/turn", s.handleTurn)
			sessions.GET("/:sessionId/progress", s.getProgress)
		}
		v1.GET("/llm/usage", s.getUsage)
	}

	return router
}

// requestLogger emits one access-log line per request after the
// handler chain runs.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
