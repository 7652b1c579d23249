// Copyright 2025 Textloom
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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/textloom/faqvec"
	"github.com/textloom/faqvec/ai"
	"github.com/textloom/faqvec/chunk"
	"github.com/textloom/faqvec/config"
	"github.com/textloom/faqvec/dataset"
	"github.com/textloom/faqvec/ingest"
)

func main() {
	app := &cli.App{
		Name:  "faqvec",
		Usage: "Ingest question/answer datasets into an embedded vector store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Chunk, embed, and store rows from an NDJSON dataset",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the SQLite database file (defaults to FAQVEC_DB)",
					},
					&cli.StringFlag{
						Name:     "data",
						Usage:    "Path to the NDJSON dataset file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Chunking strategy (recursive, token, character)",
						Value: chunk.DefaultStrategy,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum rows to ingest (0 for all)",
					},
					&cli.IntFlag{
						Name:  "commit-interval",
						Usage: "Commit staged work every N rows",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "progress-interval",
						Usage: "Log progress every N rows",
						Value: 500,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show holder, source, and chunk counts",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the SQLite database file (defaults to FAQVEC_DB)",
					},
				},
			},
			{
				Name:   "check",
				Usage:  "Verify stored embedding vectors for dimension consistency",
				Action: checkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the SQLite database file (defaults to FAQVEC_DB)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openPipeline loads environment configuration and opens a pipeline, letting
// the --db flag override the configured database path.
func openPipeline(c *cli.Context) (*faqvec.Pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	aiConfig := ai.NewConfig(
		ai.WithBaseURL(cfg.BaseURL),
		ai.WithAPIKey(cfg.APIKey),
		ai.WithModel(cfg.Model),
		ai.WithDimensions(cfg.Dimensions),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	return faqvec.Open(dbPath, faqvec.WithAIConfig(aiConfig))
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	rows, err := dataset.ReadFile(c.String("data"), c.Int("limit"))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No rows found in dataset")
		return nil
	}

	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	summary, err := pipeline.Ingest(ctx, rows, &ingest.Options{
		Strategy:         c.String("strategy"),
		Limit:            c.Int("limit"),
		CommitInterval:   c.Int("commit-interval"),
		ProgressInterval: c.Int("progress-interval"),
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Processed %d rows (%d chunks, %d failed)\n",
		summary.ProcessedRows, summary.TotalChunks, summary.FailedRows)
	return nil
}

func statsCommand(c *cli.Context) error {
	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	stats, err := pipeline.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	fmt.Printf("Copyright holders: %d\n", stats.CopyrightHolders)
	fmt.Printf("Sources:           %d\n", stats.Sources)
	fmt.Printf("Chunks:            %d\n", stats.Chunks)
	return nil
}

func checkCommand(c *cli.Context) error {
	pipeline, err := openPipeline(c)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	report, err := pipeline.CheckEmbeddings(context.Background())
	if err != nil {
		return fmt.Errorf("checking embeddings: %w", err)
	}

	fmt.Printf("Sample chunk: %q (%d dimensions)\n",
		report.Sample.ContentPreview, report.Sample.Dimension)
	fmt.Printf("Chunks scanned: %d\n", report.ChunksScanned)
	for dim, count := range report.Dimensions {
		fmt.Printf("  %d dimensions: %d chunks\n", dim, count)
	}
	if report.Consistent {
		fmt.Println("All embeddings consistent")
	} else {
		fmt.Println("WARNING: inconsistent embedding dimensions")
	}
	return nil
}

func setupLogger(c *cli.Context) error {
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
