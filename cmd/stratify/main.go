// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/stratify/ai"
	"github.com/poiesic/stratify/ai/openai"
	"github.com/poiesic/stratify/core"
	"github.com/poiesic/stratify/manifest"
	"github.com/poiesic/stratify/pipeline"
	"github.com/poiesic/stratify/store/qdrant"
)

func main() {
	app := &cli.App{
		Name:  "stratify",
		Usage: "Hierarchical document embedding pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest documents into the vector store",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "uid",
						Aliases:  []string{"u"},
						Usage:    "Owner identifier attached to every record",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "qdrant",
						Usage: "Qdrant gRPC address",
						Value: "localhost:6334",
					},
					&cli.StringFlag{
						Name:    "namespace",
						Aliases: []string{"n"},
						Usage:   "Vector store namespace",
						Value:   pipeline.DefaultNamespace,
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Path to the ingest ledger directory",
						Value: "stratify-manifest",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "embedding-dimension",
						Usage: "Embedding vector length",
						Value: 768,
					},
					&cli.StringFlag{
						Name:  "summary-host",
						Usage: "Summarization service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "summary-model",
						Usage: "Summarization model name",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk length in characters",
						Value: pipeline.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "group-size",
						Usage: "Chunks per condensed summary node",
						Value: pipeline.DefaultGroupSize,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Nodes per embedding call",
						Value: pipeline.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of documents to ingest concurrently",
						Value:   2,
					},
					&cli.BoolFlag{
						Name:  "keep-existing",
						Usage: "Append to previously ingested records instead of replacing them",
					},
					&cli.BoolFlag{
						Name:  "skip-unchanged",
						Usage: "Skip files whose content matches the last ingested checksum",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "List ingested documents from the ledger",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Path to the ingest ledger directory",
						Value: "stratify-manifest",
					},
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove ingested documents from the store and ledger",
				ArgsUsage: "DOC_ID [DOC_ID...]",
				Action:    removeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "qdrant",
						Usage: "Qdrant gRPC address",
						Value: "localhost:6334",
					},
					&cli.StringFlag{
						Name:    "namespace",
						Aliases: []string{"n"},
						Usage:   "Vector store namespace",
						Value:   pipeline.DefaultNamespace,
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Path to the ingest ledger directory",
						Value: "stratify-manifest",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads environment defaults and configures logging.
func setup(c *cli.Context) error {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	files := c.Args().Slice()
	if len(files) == 0 {
		return errors.New("at least one file is required")
	}

	summaryHost := c.String("summary-host")
	if summaryHost == "" {
		summaryHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingDimension(c.Int("embedding-dimension")),
		ai.WithSummaryHost(summaryHost),
		ai.WithSummaryModel(c.String("summary-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	vs, err := qdrant.New(c.String("qdrant"))
	if err != nil {
		return fmt.Errorf("failed to connect to vector store: %w", err)
	}
	defer vs.Close()

	namespace := c.String("namespace")
	if err := vs.EnsureNamespace(ctx, namespace, provider.Embedder().Dimension()); err != nil {
		return fmt.Errorf("failed to prepare namespace: %w", err)
	}

	ledger, err := manifest.Open(c.String("manifest"), false)
	if err != nil {
		return fmt.Errorf("failed to open ingest ledger: %w", err)
	}
	defer ledger.Close()

	opts := []pipeline.Option{
		pipeline.WithNamespace(namespace),
		pipeline.WithChunkSize(c.Int("chunk-size")),
		pipeline.WithGroupSize(c.Int("group-size")),
		pipeline.WithBatchSize(c.Int("batch-size")),
		pipeline.WithManifest(ledger),
	}
	if c.Bool("keep-existing") {
		opts = append(opts, pipeline.WithKeepExisting())
	}

	p, err := pipeline.New(provider, vs, opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	workers := c.Int("workers")
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	uid := c.String("uid")
	skipUnchanged := c.Bool("skip-unchanged")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)

	for _, path := range files {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := ingestFile(ctx, p, ledger, path, uid, skipUnchanged); err != nil {
				slog.Error("ingest failed", "file", path, "err", err)
				mu.Lock()
				failures++
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			return fmt.Errorf("failed to submit %s: %w", path, submitErr)
		}
	}
	wg.Wait()

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(files))
	}
	return nil
}

// ingestFile processes a single document. The doc_id is derived from the
// owner and base filename, so re-running ingest on the same file replaces
// the previous run's records.
func ingestFile(ctx context.Context, p *pipeline.Pipeline, ledger *manifest.Ledger, path, uid string, skipUnchanged bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	filename := filepath.Base(path)
	docID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(uid+"/"+filename)).String()

	if skipUnchanged {
		record, err := ledger.Get(docID)
		if err == nil && record.Checksum == core.ChecksumFromContent(string(content)) {
			slog.Info("skipping unchanged document", "file", path, "doc_id", docID)
			return nil
		}
		if err != nil && !errors.Is(err, manifest.ErrNotFound) {
			return err
		}
	}

	count, err := p.Process(ctx, bytes.NewReader(content), filename, docID, uid)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d nodes (doc_id %s)\n", path, count, docID)
	return nil
}

func statusCommand(c *cli.Context) error {
	ledger, err := manifest.Open(c.String("manifest"), false)
	if err != nil {
		return fmt.Errorf("failed to open ingest ledger: %w", err)
	}
	defer ledger.Close()

	records, err := ledger.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no documents ingested")
		return nil
	}

	for _, record := range records {
		fmt.Printf("%s  %-30s  owner=%s  nodes=%d  ingested=%s\n",
			record.DocID, record.Filename, record.UID, record.NodeCount,
			record.IngestedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func removeCommand(c *cli.Context) error {
	ctx := context.Background()

	docIDs := c.Args().Slice()
	if len(docIDs) == 0 {
		return errors.New("at least one doc_id is required")
	}

	vs, err := qdrant.New(c.String("qdrant"))
	if err != nil {
		return fmt.Errorf("failed to connect to vector store: %w", err)
	}
	defer vs.Close()

	ledger, err := manifest.Open(c.String("manifest"), false)
	if err != nil {
		return fmt.Errorf("failed to open ingest ledger: %w", err)
	}
	defer ledger.Close()

	namespace := c.String("namespace")
	for _, docID := range docIDs {
		if err := vs.DeleteByDocID(ctx, docID, namespace); err != nil {
			return fmt.Errorf("failed to remove %s: %w", docID, err)
		}
		if err := ledger.Delete(docID); err != nil {
			return fmt.Errorf("failed to update ledger for %s: %w", docID, err)
		}
		fmt.Printf("removed %s\n", docID)
	}
	return nil
}
