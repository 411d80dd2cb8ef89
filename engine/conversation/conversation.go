// Package conversation implements the classify-then-route routine shared by
// every chat channel. Channel adapters normalize their payload into a
// domain.ChannelMessage and supply a Renderer for channel-specific wording;
// the branching logic lives here exactly once.
package conversation

import (
	"context"
	"log/slog"

	"github.com/SetuAI/setu-node/engine/directory"
	"github.com/SetuAI/setu-node/engine/domain"
	"github.com/SetuAI/setu-node/pkg/metrics"
)

// DefaultSearchLimit is the candidate count used for chat searches.
const DefaultSearchLimit = 3

// IntentClassifier decides which branch a message takes.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) domain.Intent
}

// AttributeExtractor pulls structured vendor fields out of onboarding text.
type AttributeExtractor interface {
	Extract(ctx context.Context, text, senderID string) domain.VendorAttributes
}

// Onboarder persists a new vendor record.
type Onboarder interface {
	Onboard(ctx context.Context, req directory.OnboardRequest) (string, error)
}

// Searcher retrieves vendors for a query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (domain.SearchResult, error)
}

// Renderer produces the channel-specific reply text for each outcome.
// Every method returns a complete message; the handler never concatenates.
type Renderer interface {
	Greeting(senderName string) string
	OnboardSuccess(attrs domain.VendorAttributes, id string) string
	OnboardFailure() string
	SearchResults(query string, vendors []domain.VendorMatch) string
	NoResults(query string) string
	SearchFailure() string
}

// Handler runs the conversation state machine:
// RECEIVED -> CLASSIFIED -> {ONBOARDING, SEARCHING, GREETING} -> REPLIED.
// Every branch, including internal failures, ends with reply text.
type Handler struct {
	classifier IntentClassifier
	extractor  AttributeExtractor
	onboarder  Onboarder
	searcher   Searcher
	logger     *slog.Logger
	met        *metrics.Registry
}

// New creates a Handler. met may be nil to disable counters.
func New(c IntentClassifier, e AttributeExtractor, o Onboarder, s Searcher, logger *slog.Logger, met *metrics.Registry) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{classifier: c, extractor: e, onboarder: o, searcher: s, logger: logger, met: met}
}

// Handle processes one inbound message and returns the reply text.
func (h *Handler) Handle(ctx context.Context, msg domain.ChannelMessage, r Renderer) string {
	if err := domain.ValidateMessage(msg); err != nil {
		h.logger.Warn("conversation: invalid message", "channel", msg.Channel, "err", err)
		return r.Greeting(msg.SenderName)
	}

	intent := h.classifier.Classify(ctx, msg.Text)
	h.count("setu_messages_total", "intent", string(intent))
	h.logger.Info("message classified", "channel", msg.Channel, "intent", intent)

	switch intent {
	case domain.IntentOnboard:
		return h.handleOnboarding(ctx, msg, r)
	case domain.IntentSearch:
		return h.handleSearch(ctx, msg, r)
	default:
		return r.Greeting(msg.SenderName)
	}
}

func (h *Handler) handleOnboarding(ctx context.Context, msg domain.ChannelMessage, r Renderer) string {
	attrs := h.extractor.Extract(ctx, msg.Text, msg.SenderID)

	id, err := h.onboarder.Onboard(ctx, directory.OnboardRequest{
		Name:     attrs.Name,
		Location: attrs.Location,
		Category: attrs.Category,
		Contact:  attrs.Contact,
		RawText:  msg.Text,
	})
	if err != nil {
		h.count("setu_onboard_failures_total")
		h.logger.Error("conversation: onboarding failed", "channel", msg.Channel, "err", err)
		return r.OnboardFailure()
	}
	h.count("setu_vendors_onboarded_total")
	return r.OnboardSuccess(attrs, id)
}

func (h *Handler) handleSearch(ctx context.Context, msg domain.ChannelMessage, r Renderer) string {
	res, err := h.searcher.Search(ctx, msg.Text, DefaultSearchLimit)
	if err != nil {
		h.count("setu_search_failures_total")
		h.logger.Error("conversation: search failed", "channel", msg.Channel, "err", err)
		return r.SearchFailure()
	}
	if len(res.Vendors) == 0 {
		return r.NoResults(msg.Text)
	}
	return r.SearchResults(msg.Text, res.Vendors)
}

func (h *Handler) count(name string, labels ...string) {
	if h.met == nil {
		return
	}
	if len(labels) > 0 {
		name = metrics.WithLabels(name, labels...)
	}
	h.met.Counter(name, "").Inc()
}
