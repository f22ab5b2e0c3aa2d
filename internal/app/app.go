package app

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"docchat/backend/features/chat"
	"docchat/backend/features/documents"
	"docchat/backend/internal/config"
	"docchat/backend/internal/middleware"
	"docchat/backend/internal/pdf"
	"docchat/backend/internal/retrieval"
	"docchat/backend/internal/vector"
)

type App struct {
	Handler http.Handler
}

func New(cfg *config.Config, db *sql.DB, embedder retrieval.Embedder, generator chat.Generator) (*App, error) {
	vecStore := vector.NewStore(db, cfg.EmbeddingDim)

	// Feature: Documents
	docRepo := documents.NewPostgresRepo(db)
	docService := documents.NewService(
		docRepo,
		pdf.NewExtractor(),
		embedder,
		vecStore,
		cfg.ChunkSize,
		cfg.ChunkOverlap,
		time.Duration(cfg.DocumentDelayMs)*time.Millisecond,
	)
	docHandler := documents.NewHandler(docService, cfg.CorpusDir)

	// Feature: Chat
	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}
	retrievalService := retrieval.NewService(embedder, vecStore, cfg.SearchTopK, queryLogger)
	chatService := chat.NewService(retrievalService, generator)
	chatHandler := chat.NewHandler(chatService)

	// Routes
	mux := http.NewServeMux()

	mux.Handle("POST /api/process-documents", middleware.CorrelationID(http.HandlerFunc(docHandler.Process)))
	mux.Handle("GET /api/processed-documents", middleware.CorrelationID(http.HandlerFunc(docHandler.List)))
	mux.Handle("POST /api/chat", middleware.CorrelationID(http.HandlerFunc(chatHandler.Chat)))

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})

	// CORS sits outside the mux so preflight OPTIONS requests are answered
	// before method-scoped route matching rejects them.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		mux.ServeHTTP(w, r)
	})

	return &App{Handler: handler}, nil
}
