package beckn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SetuAI/setu-node/engine/domain"
)

const (
	// BppID identifies this node on the network.
	BppID = "ondc-setu-node"

	// CatalogName heads every on_search catalog this node emits.
	CatalogName = "ONDC Setu Catalog"

	// searchLimit caps candidates per network discovery.
	searchLimit = 5

	// fallbackQuery is used when the intent names neither an item nor a category.
	fallbackQuery = "general search"
)

// VendorSearcher retrieves vendors for a free-text query.
type VendorSearcher interface {
	Search(ctx context.Context, query string, limit int) (domain.SearchResult, error)
}

// Service turns inbound /search requests into /on_search callbacks.
// It runs after the ACK has already gone back to the buyer app, so its
// errors never reach the caller; the worker that invokes it logs them.
type Service struct {
	searcher VendorSearcher
	bppURI   string
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a discovery service. bppURI is the public callback base
// advertised in reply contexts.
func NewService(searcher VendorSearcher, bppURI string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		searcher: searcher,
		bppURI:   bppURI,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
		now:      time.Now,
	}
}

// ProcessSearch resolves the buyer intent against the vendor index and posts
// the resulting catalog to the buyer app's /on_search endpoint. A single
// delivery attempt is made; the Beckn network treats missed callbacks as
// expired discoveries, not errors to retry.
func (s *Service) ProcessSearch(ctx context.Context, req SearchRequest) error {
	query := QueryFromIntent(req.Message.Intent)
	s.logger.Info("beckn: processing search",
		"transaction_id", req.Context.TransactionID, "query", query)

	res, err := s.searcher.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("beckn search %q: %w", query, err)
	}

	body := OnSearchRequest{
		Context: s.replyContext(req.Context),
		Message: OnSearchMessage{Catalog: BuildCatalog(res.Vendors)},
	}

	if err := s.postOnSearch(ctx, req.Context.BapURI, body); err != nil {
		return err
	}

	s.logger.Info("beckn: on_search delivered",
		"transaction_id", req.Context.TransactionID,
		"bap_uri", req.Context.BapURI,
		"providers", len(body.Message.Catalog.Providers))
	return nil
}

// QueryFromIntent extracts a searchable query from a Beckn intent:
// item descriptor name first, then category id, then a generic fallback.
func QueryFromIntent(in Intent) string {
	if in.Item != nil && in.Item.Descriptor != nil && in.Item.Descriptor.Name != "" {
		return in.Item.Descriptor.Name
	}
	if in.Category != nil && in.Category.Descriptor != nil && in.Category.Descriptor.ID != "" {
		return in.Category.Descriptor.ID
	}
	return fallbackQuery
}

// BuildCatalog maps vendor matches into the on_search catalog shape. Each
// vendor becomes a provider with one generic item, since onboarded records
// carry no per-product inventory.
func BuildCatalog(vendors []domain.VendorMatch) Catalog {
	providers := make([]Provider, 0, len(vendors))
	for _, v := range vendors {
		item := Item{
			ID: "item-" + v.ID,
			Descriptor: Descriptor{
				Name:      fmt.Sprintf("Service/Product by %s", v.Name),
				ShortDesc: v.Category,
				LongDesc:  fmt.Sprintf("%s provided by %s in %s", v.Category, v.Name, v.Location),
			},
		}
		providers = append(providers, Provider{
			ID: v.ID,
			Descriptor: Descriptor{
				Name:      v.Name,
				ShortDesc: v.Location,
			},
			Items: []Item{item},
		})
	}
	return Catalog{
		Descriptor: Descriptor{Name: CatalogName},
		Providers:  providers,
	}
}

func (s *Service) replyContext(c Context) Context {
	c.Action = "on_search"
	c.BppID = BppID
	c.BppURI = s.bppURI
	c.Timestamp = s.now().UTC()
	return c
}

func (s *Service) postOnSearch(ctx context.Context, bapURI string, body OnSearchRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("beckn on_search marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bapURI+"/on_search", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("beckn on_search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("beckn on_search post to %s: %w", bapURI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("beckn on_search: bap returned status %d", resp.StatusCode)
	}
	return nil
}
