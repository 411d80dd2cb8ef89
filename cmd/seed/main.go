// Command seed bulk-loads vendor profiles from a JSONL file into the
// directory. Each line is one onboarding request; lines that fail are
// logged and skipped so a bad record never aborts the load.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/SetuAI/setu-node/engine/directory"
	"github.com/SetuAI/setu-node/engine/semantic"
	"github.com/SetuAI/setu-node/pkg/ollama"
)

const vectorDims = 768 // nomic-embed-text

func main() {
	var (
		file       = flag.String("file", "vendors.jsonl", "JSONL file of vendor records")
		ollamaURL  = flag.String("ollama", "http://localhost:11434", "Ollama base URL")
		embedModel = flag.String("model", "nomic-embed-text", "Ollama embedding model")
		qdrantAddr = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		collection = flag.String("collection", "vendor_profiles", "Qdrant collection name")
	)
	flag.Parse()

	log := slog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	vs, err := semantic.New(*qdrantAddr, *collection)
	if err != nil {
		log.Error("qdrant connect failed", "error", err)
		os.Exit(1)
	}
	defer vs.Close()
	if err := vs.EnsureCollection(ctx, vectorDims); err != nil {
		log.Error("qdrant ensure collection failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Qdrant", "collection", *collection, "dims", vectorDims)

	embedder := ollama.NewEmbedClient(*ollamaURL, *embedModel)
	dir := directory.New(vs, embedder, log)

	f, err := os.Open(*file)
	if err != nil {
		log.Error("open file failed", "file", *file, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	var loaded, skipped int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for line := 1; scanner.Scan(); line++ {
		if ctx.Err() != nil {
			log.Warn("interrupted", "loaded", loaded)
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var req directory.OnboardRequest
		if err := json.Unmarshal([]byte(text), &req); err != nil {
			log.Error("bad record, skipping", "line", line, "error", err)
			skipped++
			continue
		}

		id, err := dir.Onboard(ctx, req)
		if err != nil {
			log.Error("onboard failed, skipping", "line", line, "error", err)
			skipped++
			continue
		}
		log.Info("vendor seeded", "line", line, "id", id)
		loaded++
	}
	if err := scanner.Err(); err != nil {
		log.Error("read file failed", "error", err)
		os.Exit(1)
	}

	log.Info("seed complete", "loaded", loaded, "skipped", skipped)
	if skipped > 0 {
		os.Exit(2)
	}
}
