// Package main implements the ONDC Setu node API server: chat webhooks,
// direct vendor APIs, and the Beckn discovery endpoint in one process.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/SetuAI/setu-node/beckn"
	"github.com/SetuAI/setu-node/channel/telegram"
	"github.com/SetuAI/setu-node/channel/whatsapp"
	"github.com/SetuAI/setu-node/engine/conversation"
	"github.com/SetuAI/setu-node/engine/directory"
	"github.com/SetuAI/setu-node/engine/extract"
	"github.com/SetuAI/setu-node/engine/intent"
	"github.com/SetuAI/setu-node/engine/retrieval"
	"github.com/SetuAI/setu-node/engine/semantic"
	"github.com/SetuAI/setu-node/pkg/metrics"
	"github.com/SetuAI/setu-node/pkg/mid"
	"github.com/SetuAI/setu-node/pkg/natsutil"
	"github.com/SetuAI/setu-node/pkg/ollama"
	"github.com/SetuAI/setu-node/pkg/resilience"
)

// subjectBecknSearch is the queue subject for deferred discovery processing.
const subjectBecknSearch = "beckn.search"

// Config holds all environment-based configuration.
type Config struct {
	Port          string
	OllamaURL     string
	EmbedModel    string
	GenerateModel string
	QdrantURL     string
	Collection    string
	EmbedDims     int
	NATSURL       string
	AdminKey      string
	TelegramToken string
	BppURI        string
	CORSOrigin    string
}

func loadConfig() Config {
	return Config{
		Port:          envOr("PORT", "8000"),
		OllamaURL:     envOr("OLLAMA_URL", "http://localhost:11434"),
		EmbedModel:    envOr("EMBED_MODEL", "nomic-embed-text"),
		GenerateModel: envOr("GENERATE_MODEL", "llama3.1:8b"),
		QdrantURL:     envOr("QDRANT_URL", "localhost:6334"),
		Collection:    envOr("QDRANT_COLLECTION", "vendor_profiles"),
		EmbedDims:     envInt("EMBED_DIMS", 768),
		NATSURL:       envOr("NATS_URL", nats.DefaultURL),
		AdminKey:      envOr("ADMIN_API_KEY", "setu-admin-key"),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		BppURI:        envOr("BPP_URI", "http://localhost:8000/v1/beckn"),
		CORSOrigin:    envOr("CORS_ORIGIN", "*"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Qdrant ---
	vectorStore, err := semantic.New(cfg.QdrantURL, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()

	if err := vectorStore.EnsureCollection(ctx, cfg.EmbedDims); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	// --- Connect to NATS ---
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return fmt.Errorf("nats connect: %w", err)
	}
	defer nc.Drain()

	// --- Model clients ---
	embedder := ollama.NewEmbedClient(cfg.OllamaURL, cfg.EmbedModel)
	generator := ollama.NewGenerateClient(cfg.OllamaURL, cfg.GenerateModel)

	// --- Services ---
	met := metrics.New()

	dir := directory.New(vectorStore, embedder, logger)
	eng := retrieval.New(embedder, vectorStore, generator, retrieval.DefaultOptions(), logger)
	classifier := intent.New(generator, logger)
	extractor := extract.New(generator, logger)
	conv := conversation.New(classifier, extractor, dir, eng, logger, met)

	becknSvc := beckn.NewService(eng, cfg.BppURI, logger)

	// --- Discovery worker ---
	// Beckn acks synchronously; the actual search runs off this subscription
	// and failures are logged, never surfaced to the buyer app.
	sub, err := natsutil.Subscribe(nc, subjectBecknSearch, func(ctx context.Context, req beckn.SearchRequest) {
		ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		if err := becknSvc.ProcessSearch(ctx, req); err != nil {
			met.Counter("setu_beckn_failures_total", "Failed Beckn discovery runs").Inc()
			logger.Error("beckn: discovery failed", "transaction_id", req.Context.TransactionID, "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subjectBecknSearch, err)
	}
	defer sub.Unsubscribe()

	// --- Channel adapters ---
	whWebhook := whatsapp.NewWebhook(conv, logger)
	whTest := whatsapp.NewTestHandler(conv)

	if cfg.TelegramToken == "" {
		logger.Warn("TELEGRAM_BOT_TOKEN not set, telegram replies will fail")
	}
	tgClient := telegram.NewClient(cfg.TelegramToken)
	tgWebhook := telegram.NewWebhook(conv, tgClient, logger)

	// --- HTTP server ---
	webhookLimiter := resilience.NewLimiter(resilience.LimiterOpts{Rate: 5, Burst: 10})
	limited := func(h http.Handler) http.Handler {
		return mid.Chain(h, mid.RateLimit(webhookLimiter))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", handleHealth)
	mux.Handle("POST /v1/beckn/search", handleBecknSearch(&natsQueue{nc: nc}, logger))
	mux.Handle("POST /v1/vendor/onboard", mid.Chain(handleOnboard(dir, logger), mid.AdminKey(cfg.AdminKey)))
	mux.Handle("POST /v1/search", handleSearch(eng, logger))
	mux.Handle("POST /v1/whatsapp/webhook", limited(whWebhook))
	mux.Handle("POST /v1/whatsapp/test", whTest)
	mux.Handle("POST /v1/telegram/webhook", limited(tgWebhook))
	mux.Handle("GET /metrics", met.Handler())

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("setu-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// natsQueue publishes discovery requests onto the worker subject.
type natsQueue struct {
	nc *nats.Conn
}

func (q *natsQueue) Enqueue(ctx context.Context, req beckn.SearchRequest) error {
	return natsutil.Publish(ctx, q.nc, subjectBecknSearch, req)
}
