// Package extract pulls structured vendor attributes out of a free-text
// onboarding message via an external generation model.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SetuAI/setu-node/engine/domain"
)

// Generator abstracts the external text generation model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor maps onboarding text to vendor attributes. Extract is total:
// any model or parse failure yields the all-Unknown fallback keyed by the
// sender, so onboarding always produces a storable record.
type Extractor struct {
	gen    Generator
	logger *slog.Logger
}

// New creates an Extractor.
func New(gen Generator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{gen: gen, logger: logger}
}

const extractPrompt = `You are an ONDC vendor onboarding assistant.
A vendor just sent this message to register their business:

"%s"

Extract the following fields from the message. If a field is not found, use "Unknown".
Return ONLY a valid JSON object (no markdown) with these exact keys:
{
  "name": "business name",
  "location": "city or area",
  "category": "product/service category",
  "contact": "%s"
}`

// Extract returns the vendor attributes found in text. Every field is
// either a meaningful value or "Unknown"; Contact defaults to senderID.
func (e *Extractor) Extract(ctx context.Context, text, senderID string) domain.VendorAttributes {
	raw, err := e.gen.Generate(ctx, fmt.Sprintf(extractPrompt, text, senderID))
	if err != nil {
		e.logger.Warn("extract: model call failed, using fallback", "err", err)
		return fallback(senderID)
	}

	var parsed struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Category string `json:"category"`
		Contact  string `json:"contact"`
	}
	if err := json.Unmarshal([]byte(stripFence(raw)), &parsed); err != nil {
		e.logger.Warn("extract: unparseable model output, using fallback", "err", err, "raw", raw)
		return fallback(senderID)
	}

	return domain.VendorAttributes{
		Name:     orUnknown(parsed.Name),
		Location: orUnknown(parsed.Location),
		Category: orUnknown(parsed.Category),
		Contact:  orDefault(parsed.Contact, senderID),
	}
}

func fallback(senderID string) domain.VendorAttributes {
	return domain.VendorAttributes{
		Name:     domain.Unknown,
		Location: domain.Unknown,
		Category: domain.Unknown,
		Contact:  senderID,
	}
}

// stripFence removes a surrounding markdown code fence, with or without a
// language tag, so a fenced JSON answer still parses.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.Unknown
	}
	return s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" || s == domain.Unknown {
		return def
	}
	return s
}
