// Package intent classifies inbound messages into the closed set
// {onboard, search, unknown} using an external generation model.
package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SetuAI/setu-node/engine/domain"
)

// Generator abstracts the external text generation model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Classifier maps free text to a domain.Intent. Classify is total: model
// failures and out-of-set answers both collapse to IntentUnknown.
type Classifier struct {
	gen    Generator
	logger *slog.Logger
}

// New creates a Classifier.
func New(gen Generator, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{gen: gen, logger: logger}
}

const classifyPrompt = `You are an ONDC assistant. A user sent this message:

"%s"

Classify the intent into one of these categories:
1. "onboard" -> If the user wants to register, join, or list their business/products.
2. "search" -> If the user is looking for a product, service, or vendor.
3. "unknown" -> If the intent is unclear.

Return ONLY the category name (onboard, search, or unknown).
Do NOT return "Category: search" or any punctuation. Just the word.`

// Classify returns the intent for a message. It never returns an error or
// anything outside {onboard, search, unknown}.
func (c *Classifier) Classify(ctx context.Context, text string) domain.Intent {
	raw, err := c.gen.Generate(ctx, fmt.Sprintf(classifyPrompt, text))
	if err != nil {
		c.logger.Warn("intent: classification call failed, defaulting to unknown", "err", err)
		return domain.IntentUnknown
	}

	intent := normalize(raw)
	c.logger.Debug("intent classified", "raw", raw, "intent", intent)

	switch domain.Intent(intent) {
	case domain.IntentOnboard, domain.IntentSearch, domain.IntentUnknown:
		return domain.Intent(intent)
	default:
		// Multi-word or explanatory answers land here.
		return domain.IntentUnknown
	}
}

// normalize strips the decoration models like to add around a single word:
// surrounding whitespace, quotes, backticks, and trailing punctuation.
func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, "\"'`")
	s = strings.TrimRight(s, ".!,:;")
	return s
}
