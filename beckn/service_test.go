package beckn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SetuAI/setu-node/engine/domain"
)

type stubSearcher struct {
	gotQuery string
	gotLimit int
	result   domain.SearchResult
	err      error
}

func (s *stubSearcher) Search(_ context.Context, query string, limit int) (domain.SearchResult, error) {
	s.gotQuery = query
	s.gotLimit = limit
	return s.result, s.err
}

func searchReq(bapURI string) SearchRequest {
	return SearchRequest{
		Context: Context{
			Domain:        "ONDC:RET10",
			Country:       "IND",
			City:          "std:080",
			Action:        "search",
			CoreVersion:   "1.2.0",
			BapID:         "buyer-app",
			BapURI:        bapURI,
			TransactionID: "txn-1",
			MessageID:     "msg-1",
			Timestamp:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			TTL:           "PT30S",
		},
		Message: SearchMessage{Intent: Intent{
			Item: &IntentItem{Descriptor: &Descriptor{Name: "fresh vegetables"}},
		}},
	}
}

func TestProcessSearch_DeliversCatalogCallback(t *testing.T) {
	var gotPath string
	var callback OnSearchRequest
	bap := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&callback); err != nil {
			t.Fatalf("bad callback body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer bap.Close()

	searcher := &stubSearcher{result: domain.SearchResult{
		Summary: "Two vegetable vendors nearby.",
		Vendors: []domain.VendorMatch{
			{VendorRecord: domain.VendorRecord{ID: "v1", Name: "Green Basket", Location: "HSR Layout", Category: "Vegetables", Contact: "+91111"}},
			{VendorRecord: domain.VendorRecord{ID: "v2", Name: "Farm Fresh", Location: "BTM", Category: "Vegetables", Contact: "+91222"}},
		},
	}}

	svc := NewService(searcher, "https://setu.example.com/v1/beckn", nil)
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if err := svc.ProcessSearch(context.Background(), searchReq(bap.URL)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if searcher.gotQuery != "fresh vegetables" {
		t.Errorf("wrong query %q", searcher.gotQuery)
	}
	if searcher.gotLimit != 5 {
		t.Errorf("wrong limit %d", searcher.gotLimit)
	}
	if gotPath != "/on_search" {
		t.Errorf("wrong callback path %q", gotPath)
	}

	cx := callback.Context
	if cx.Action != "on_search" {
		t.Errorf("action = %q", cx.Action)
	}
	if cx.BppID != BppID || cx.BppURI != "https://setu.example.com/v1/beckn" {
		t.Errorf("bpp identity not set: %+v", cx)
	}
	if cx.TransactionID != "txn-1" || cx.MessageID != "msg-1" {
		t.Errorf("correlation ids must carry over: %+v", cx)
	}
	if !cx.Timestamp.Equal(fixed) {
		t.Errorf("timestamp not refreshed: %v", cx.Timestamp)
	}

	cat := callback.Message.Catalog
	if cat.Descriptor.Name != CatalogName {
		t.Errorf("catalog name %q", cat.Descriptor.Name)
	}
	if len(cat.Providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(cat.Providers))
	}
	p := cat.Providers[0]
	if p.ID != "v1" || p.Descriptor.Name != "Green Basket" || p.Descriptor.ShortDesc != "HSR Layout" {
		t.Errorf("unexpected provider %+v", p)
	}
	if len(p.Items) != 1 {
		t.Fatalf("expected 1 item per provider, got %d", len(p.Items))
	}
	it := p.Items[0]
	if it.ID != "item-v1" || it.Descriptor.Name != "Service/Product by Green Basket" {
		t.Errorf("unexpected item %+v", it)
	}
	if it.Descriptor.LongDesc != "Vegetables provided by Green Basket in HSR Layout" {
		t.Errorf("unexpected long desc %q", it.Descriptor.LongDesc)
	}
}

func TestProcessSearch_EmptyResultsStillCallsBack(t *testing.T) {
	var callback OnSearchRequest
	bap := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&callback)
	}))
	defer bap.Close()

	svc := NewService(&stubSearcher{}, "http://bpp", nil)
	if err := svc.ProcessSearch(context.Background(), searchReq(bap.URL)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(callback.Message.Catalog.Providers) != 0 {
		t.Fatalf("expected empty catalog, got %d providers", len(callback.Message.Catalog.Providers))
	}
}

func TestProcessSearch_SearchFailurePropagates(t *testing.T) {
	svc := NewService(&stubSearcher{err: errors.New("index down")}, "http://bpp", nil)
	err := svc.ProcessSearch(context.Background(), searchReq("http://unused"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestProcessSearch_BapRejectionIsError(t *testing.T) {
	bap := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer bap.Close()

	svc := NewService(&stubSearcher{}, "http://bpp", nil)
	if err := svc.ProcessSearch(context.Background(), searchReq(bap.URL)); err == nil {
		t.Fatal("expected error on 4xx callback response")
	}
}

func TestQueryFromIntent(t *testing.T) {
	cases := []struct {
		name string
		in   Intent
		want string
	}{
		{"item name", Intent{Item: &IntentItem{Descriptor: &Descriptor{Name: "plumbing"}}}, "plumbing"},
		{"category fallback", Intent{Category: &IntentCategory{Descriptor: &CategoryDescriptor{ID: "ret10-grocery"}}}, "ret10-grocery"},
		{"item wins over category", Intent{
			Item:     &IntentItem{Descriptor: &Descriptor{Name: "milk"}},
			Category: &IntentCategory{Descriptor: &CategoryDescriptor{ID: "dairy"}},
		}, "milk"},
		{"empty intent", Intent{}, "general search"},
		{"item without descriptor", Intent{Item: &IntentItem{}}, "general search"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := QueryFromIntent(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAckShapes(t *testing.T) {
	b, err := json.Marshal(NewAck())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"message":{"ack":{"status":"ACK"}}}` {
		t.Fatalf("unexpected ack json %s", b)
	}

	b, _ = json.Marshal(NewErrorAck("DOMAIN-ERROR", "queue unavailable"))
	var out map[string]any
	json.Unmarshal(b, &out)
	if out["error"] == nil {
		t.Fatalf("error ack missing error field: %s", b)
	}
}
