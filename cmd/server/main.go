package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/contentlab/contentlab/internal/config"
	"github.com/contentlab/contentlab/internal/inference"
	"github.com/contentlab/contentlab/internal/ocr"
	"github.com/contentlab/contentlab/internal/server"
	"github.com/contentlab/contentlab/internal/services"
	"github.com/contentlab/contentlab/internal/store"
)

func main() {
	ctx := context.Background()

	bucket := config.GetEnv("UPLOAD_BUCKET", "")
	if bucket == "" {
		slog.Error("UPLOAD_BUCKET environment variable must be set")
		os.Exit(1)
	}
	objectStore, err := store.New(ctx, bucket)
	if err != nil {
		slog.Error("Failed to initialize object store", "error", err)
		os.Exit(1)
	}
	defer objectStore.Close()

	extractor := services.NewExtractor(
		objectStore,
		services.NewOCREngine(ocr.NewEngine()),
		services.LoadExtractorConfig(),
	)
	gateway := inference.New(inference.Config{
		BaseURL: config.GetEnv("INFERENCE_BASE_URL", inference.DefaultBaseURL),
	})
	analyzer := services.NewAnalyzer(gateway, services.LoadAnalyzerConfig())

	port := config.GetEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           server.New(extractor, analyzer).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server listening.", "port", port)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
