package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/engine"
	"github.com/abhisek/studybuddy/internal/httpapi"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/retrieval"
	"github.com/abhisek/studybuddy/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutoring HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides STUDYBUDDY_ADDR, default :8080)")
	serveCmd.Flags().String("bank", "", "Directory of question bank JSON files (default: built-in bank)")
}

// runServe wires the service together and blocks until shutdown. A
// missing LLM provider, retriever, or database degrades the relevant
// feature rather than refusing to start; only a broken question bank
// is fatal.
func runServe(cmd *cobra.Command) error {
	// .env is a convenience for development; real env vars win.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := cmd.Context()

	b, err := loadBank(cmd)
	if err != nil {
		return err
	}
	logger.Info("question bank loaded", "questions", b.Len(), "topics", len(b.Topics()))

	events, closeEvents := openEvents(cmd, logger)
	defer closeEvents()

	provider, err := llm.NewProviderFromEnv(ctx, events)
	if err != nil {
		logger.Warn("LLM provider not configured; explanations fall back to retrieved passages and answer judging to string matching", "error", err)
	}

	eng, err := engine.New(engine.Options{
		Bank:      b,
		Provider:  provider,
		Retriever: buildRetriever(logger),
		Events:    events,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if os.Getenv("STUDYBUDDY_DEBUG") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewServer(eng, events, logger).Router()

	addr := resolveAddr(cmd)
	srv := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadBank returns the bank from --bank, STUDYBUDDY_BANK_DIR, or the
// built-in questions.
func loadBank(cmd *cobra.Command) (*bank.Bank, error) {
	dir, _ := cmd.Flags().GetString("bank")
	if dir == "" {
		dir = os.Getenv("STUDYBUDDY_BANK_DIR")
	}
	if dir == "" {
		return bank.Default(), nil
	}

	b, err := bank.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	return b, nil
}

// openEvents opens the SQLite event log, falling back to the in-memory
// log when the database is unavailable.
func openEvents(cmd *cobra.Command, logger *slog.Logger) (store.EventRepo, func()) {
	dbPath, err := resolveDBPath(cmd)
	if err == nil {
		var s *store.SQLite
		if s, err = store.Open(dbPath); err == nil {
			logger.Info("event log open", "path", dbPath)
			return s, func() { s.Close() }
		}
	}

	logger.Warn("event log unavailable, keeping events in memory", "error", err)
	return store.NewMemory(), func() {}
}

// buildRetriever connects to Weaviate when configured. Without it the
// engine runs in lightweight mode: quizzes work, explanations report
// that no study material is available.
func buildRetriever(logger *slog.Logger) retrieval.Retriever {
	if os.Getenv("STUDYBUDDY_WEAVIATE_URL") == "" {
		logger.Info("retrieval disabled", "reason", "STUDYBUDDY_WEAVIATE_URL not set")
		return nil
	}

	apiKey := os.Getenv("STUDYBUDDY_OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	embedder, err := retrieval.NewOpenAIEmbedder(apiKey, os.Getenv("STUDYBUDDY_EMBED_MODEL"))
	if err != nil {
		logger.Warn("retrieval disabled", "error", err)
		return nil
	}

	r, err := retrieval.NewWeaviateRetriever(retrieval.ConfigFromEnv(), embedder)
	if err != nil {
		logger.Warn("retrieval disabled", "error", err)
		return nil
	}
	return r
}

func resolveAddr(cmd *cobra.Command) string {
	if a, _ := cmd.Flags().GetString("addr"); a != "" {
		return a
	}
	if a := os.Getenv("STUDYBUDDY_ADDR"); a != "" {
		return a
	}
	return ":8080"
}
