package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"docchat/backend/internal/adapter/gemini"
	"docchat/backend/internal/app"
	"docchat/backend/internal/config"
	"docchat/backend/internal/logger"
)

func main() {
	handler := logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := app.Bootstrap(cfg)
	if err != nil {
		slog.Error("failed to bootstrap database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDim)
	if err != nil {
		slog.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	defer embedder.Close()

	generator, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.ChatModel)
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}
	defer generator.Close()

	application, err := app.New(cfg, db, embedder, generator)
	if err != nil {
		slog.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	slog.Info("server starting", "addr", addr, "corpus_dir", cfg.CorpusDir)
	if err := http.ListenAndServe(addr, application.Handler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
