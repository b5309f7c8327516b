package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"ai-legalchat-be/internal/bootstrap"
	"ai-legalchat-be/internal/config"
	"ai-legalchat-be/internal/dto"
	"ai-legalchat-be/pkg/database"

	"github.com/fatih/color"
)

// Loads legal chunks from a JSON file, persists them and queues one
// embedding job per chunk. The consumer runs in-process, so the command
// waits for the queue to drain before exiting.
func main() {
	filePath := flag.String("file", "chunks.json", "path to the legal chunks JSON file")
	drainWait := flag.Duration("drain-wait", 30*time.Second, "how long to wait for embedding jobs to finish")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	color.Cyan("🚀 Ingesting legal chunks from %s", *filePath)

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		color.Red("Error: Failed to read %s: %v", *filePath, err)
		os.Exit(1)
	}

	var entries []dto.ChunkFileEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		color.Red("Error: Failed to parse %s: %v", *filePath, err)
		os.Exit(1)
	}
	color.Yellow("Parsed %d chunks", len(entries))

	ctx := context.Background()

	// Start the embedding consumer before publishing so jobs are picked
	// up as they arrive.
	if err := container.ConsumerService.Consume(ctx); err != nil {
		color.Red("Error: Failed to start consumer: %v", err)
		os.Exit(1)
	}

	res, err := container.IngestService.IngestChunks(ctx, entries)
	if err != nil {
		color.Red("Error: Ingestion failed: %v", err)
		os.Exit(1)
	}

	color.Green("Created %d chunks, queued %d embedding jobs", res.ChunksCreated, res.Published)
	color.Yellow("Waiting %s for embedding jobs to drain...", *drainWait)
	time.Sleep(*drainWait)

	color.Green("✅ Ingestion complete")
}
