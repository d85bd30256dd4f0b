// Command pipeline-worker exposes the generation trigger as a plain
// process entry point. No HTTP server is implemented here (spec
// Non-goals exclude the HTTP layer and a separate worker fleet) — this
// binary wires the same clients an in-process HTTP handler would use and
// calls Trigger directly, polling status to completion for operator use.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/nexusrfp/engine/internal/config"
	"github.com/nexusrfp/engine/pkg/blobstore"
	"github.com/nexusrfp/engine/pkg/embedding"
	"github.com/nexusrfp/engine/pkg/llm"
	"github.com/nexusrfp/engine/pkg/parser"
	"github.com/nexusrfp/engine/pkg/parser/csv"
	"github.com/nexusrfp/engine/pkg/parser/docx"
	"github.com/nexusrfp/engine/pkg/parser/gsheet"
	"github.com/nexusrfp/engine/pkg/parser/pdf"
	"github.com/nexusrfp/engine/pkg/parser/pptx"
	"github.com/nexusrfp/engine/pkg/parser/xlsx"
	"github.com/nexusrfp/engine/pkg/pipeline"
	"github.com/nexusrfp/engine/pkg/storage"
	"github.com/nexusrfp/engine/pkg/storage/model"
)

func main() {
	projectID := flag.String("project", "", "project ID to trigger generation for")
	flag.Parse()

	if *projectID == "" {
		slog.Error("pipeline-worker: -project is required")
		os.Exit(2)
	}

	slog.Info("-----------------------------")
	slog.Info("----- pipeline-worker -----")
	slog.Info("-----------------------------")

	ctx := context.Background()
	if err := run(ctx, *projectID); err != nil {
		slog.Error("pipeline-worker: run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, projectID string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	blob, err := blobstore.New(ctx, cfg.BlobEndpoint, cfg.BlobAccessKey, cfg.BlobSecretKey, cfg.BlobBucket, cfg.BlobUseSSL)
	if err != nil {
		return err
	}
	llmClient := llm.New(cfg.AnthropicAPIKey, cfg.LLMModel)
	embedClient := embedding.New(cfg.VoyageAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDims)

	gsheetParser, err := gsheet.New(ctx, cfg.GoogleAPIKey)
	if err != nil {
		return err
	}
	dispatcher := parser.NewDispatcher(
		pdf.New(nil),
		docx.New(),
		xlsx.New(),
		csv.New(),
		pptx.New(),
		gsheetParser,
	)

	p := pipeline.New(store, blob, llmClient, embedClient, dispatcher, cfg)

	outcome, err := p.Trigger(ctx, projectID)
	if err != nil {
		return err
	}

	switch outcome {
	case pipeline.OutcomeNoDocuments:
		slog.Warn("pipeline-worker: no documents to generate from", "project_id", projectID)
		return nil
	case pipeline.OutcomeConflict:
		slog.Warn("pipeline-worker: generation already in progress", "project_id", projectID)
		return nil
	}

	slog.Info("pipeline-worker: generation started, waiting for completion", "project_id", projectID)
	return awaitCompletion(ctx, store, projectID)
}

const pollInterval = 2 * time.Second

func awaitCompletion(ctx context.Context, store storage.Store, projectID string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			project, err := store.GetProject(ctx, projectID)
			if err != nil {
				return err
			}
			switch project.ProcessingStatus {
			case model.ProcessingCompleted:
				slog.Info("pipeline-worker: generation complete", "project_id", projectID, "message", project.ProcessingMessage)
				return nil
			case model.ProcessingFailed:
				return errors.New(project.ProcessingMessage)
			}
		}
	}
}
