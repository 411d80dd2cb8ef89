// Package retrieval runs the search side of the directory: it embeds a
// query, pulls the nearest vendor profiles from the index, and produces a
// natural-language summary grounded in what was retrieved.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SetuAI/setu-node/engine/domain"
	"github.com/SetuAI/setu-node/engine/semantic"
)

// NoMatchSummary is returned when the index has nothing close to the query.
// No generation call is made in that case.
const NoMatchSummary = "No matching vendors found."

// Embedder abstracts the external embedding model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VendorSearcher abstracts the vector index read path.
type VendorSearcher interface {
	Search(ctx context.Context, embedding []float32, topK int) ([]semantic.VendorHit, error)
}

// Generator abstracts the external text generation model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options configures the retrieval pipeline.
type Options struct {
	SearchTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{SearchTimeout: 5 * time.Second}
}

// Engine is the retrieval service. Embed and index failures are not
// recovered here; they propagate so the structured API can surface a 500
// while chat channels catch at their handler level.
type Engine struct {
	embed  Embedder
	search VendorSearcher
	gen    Generator
	opts   Options
	logger *slog.Logger
}

// New creates an Engine.
func New(embed Embedder, search VendorSearcher, gen Generator, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{embed: embed, search: search, gen: gen, opts: opts, logger: logger}
}

const summaryPrompt = `You are an intelligent procurement assistant for ONDC. Recommend vendors based on the provided context.

User Query: %s

Vendor Context:
%s`

// Search returns the top limit vendors for a query, in the index's ranking
// order, plus a grounded summary. The engine does no re-ranking.
func (e *Engine) Search(ctx context.Context, query string, limit int) (domain.SearchResult, error) {
	vec, err := e.embed.Embed(ctx, query)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("retrieval: embed query: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, e.opts.SearchTimeout)
	defer cancel()

	hits, err := e.search.Search(searchCtx, vec, limit)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("retrieval: index search: %w", err)
	}

	if len(hits) == 0 {
		return domain.SearchResult{Summary: NoMatchSummary, Vendors: []domain.VendorMatch{}}, nil
	}

	vendors := make([]domain.VendorMatch, len(hits))
	var grounding strings.Builder
	for i, h := range hits {
		vendors[i] = domain.VendorMatch{
			VendorRecord: domain.VendorRecord{
				ID:       h.ID,
				Name:     h.Name,
				Location: h.Location,
				Category: h.Category,
				Contact:  h.Contact,
			},
			Score: h.Score,
		}
		fmt.Fprintf(&grounding, "Vendor %d: %s\nMetadata: name=%s, location=%s, category=%s, contact=%s\n\n",
			i+1, h.Document, h.Name, h.Location, h.Category, h.Contact)
	}

	summary, err := e.gen.Generate(ctx, fmt.Sprintf(summaryPrompt, query, grounding.String()))
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("retrieval: summarize: %w", err)
	}

	e.logger.Info("retrieval done", "query_len", len(query), "vendors", len(vendors))
	return domain.SearchResult{Summary: summary, Vendors: vendors}, nil
}
