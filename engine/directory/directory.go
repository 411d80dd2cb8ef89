// Package directory owns vendor onboarding: it turns an onboarding request
// into an embedded, stored vendor record. The directory is append-only;
// every successful call creates exactly one new record under a fresh ID.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SetuAI/setu-node/engine/domain"
	"github.com/SetuAI/setu-node/engine/semantic"
	"github.com/google/uuid"
)

// Embedder abstracts the external embedding model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VendorStore abstracts the vector index write path.
type VendorStore interface {
	Upsert(ctx context.Context, p semantic.VendorPoint) error
}

// OnboardRequest carries either structured fields, raw free text, or both.
// When RawText is present it becomes the embedded document verbatim (the
// trusted/admin and chat paths); otherwise a sentence is synthesized from
// the structured fields.
type OnboardRequest struct {
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
	Category string `json:"category,omitempty"`
	Contact  string `json:"contact,omitempty"`
	RawText  string `json:"raw_text,omitempty"`
}

// Directory is the onboarding service.
type Directory struct {
	store  VendorStore
	embed  Embedder
	logger *slog.Logger
}

// New creates a Directory.
func New(store VendorStore, embed Embedder, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{store: store, embed: embed, logger: logger}
}

// Onboard persists one new vendor record and returns its generated ID.
func (d *Directory) Onboard(ctx context.Context, req OnboardRequest) (string, error) {
	doc := documentText(req)

	vec, err := d.embed.Embed(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("directory: embed document: %w", err)
	}

	id := uuid.NewString()
	point := semantic.VendorPoint{
		ID:        id,
		Embedding: vec,
		Document:  doc,
		Name:      orUnknown(req.Name),
		Location:  orUnknown(req.Location),
		Category:  orUnknown(req.Category),
		Contact:   orUnknown(req.Contact),
	}
	if err := d.store.Upsert(ctx, point); err != nil {
		return "", fmt.Errorf("directory: store vendor: %w", err)
	}

	d.logger.Info("vendor onboarded", "id", id, "category", point.Category, "location", point.Location)
	return id, nil
}

// documentText builds the text that gets embedded for retrieval.
func documentText(req OnboardRequest) string {
	if req.RawText != "" {
		return "Raw Content: " + req.RawText
	}
	return fmt.Sprintf("Vendor: %s. Location: %s. Category: %s. Contact: %s.",
		orUnknown(req.Name), orUnknown(req.Location), orUnknown(req.Category), orUnknown(req.Contact))
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.Unknown
	}
	return s
}
