package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SetuAI/setu-node/engine/directory"
	"github.com/SetuAI/setu-node/engine/domain"
)

// --- mocks ---

type mockClassifier struct{ intent domain.Intent }

func (m *mockClassifier) Classify(_ context.Context, _ string) domain.Intent { return m.intent }

type mockExtractor struct{ attrs domain.VendorAttributes }

func (m *mockExtractor) Extract(_ context.Context, _, _ string) domain.VendorAttributes {
	return m.attrs
}

type mockOnboarder struct {
	id    string
	err   error
	calls []directory.OnboardRequest
}

func (m *mockOnboarder) Onboard(_ context.Context, req directory.OnboardRequest) (string, error) {
	m.calls = append(m.calls, req)
	return m.id, m.err
}

type mockSearcher struct {
	res   domain.SearchResult
	err   error
	calls int
	limit int
}

func (m *mockSearcher) Search(_ context.Context, _ string, limit int) (domain.SearchResult, error) {
	m.calls++
	m.limit = limit
	return m.res, m.err
}

// testRenderer tags each outcome so tests can assert which branch replied.
type testRenderer struct{}

func (testRenderer) Greeting(name string) string { return "greeting:" + name }
func (testRenderer) OnboardSuccess(attrs domain.VendorAttributes, id string) string {
	return fmt.Sprintf("onboarded:%s:%s:%s", attrs.Category, attrs.Location, id)
}
func (testRenderer) OnboardFailure() string { return "onboard-failed" }
func (testRenderer) SearchResults(query string, vendors []domain.VendorMatch) string {
	return fmt.Sprintf("results:%s:%d", query, len(vendors))
}
func (testRenderer) NoResults(query string) string { return "none:" + query }
func (testRenderer) SearchFailure() string         { return "search-failed" }

func msg(text string) domain.ChannelMessage {
	return domain.ChannelMessage{Text: text, SenderID: "wa:+911234", SenderName: "Asha", Channel: domain.ChannelWhatsApp}
}

// --- tests ---

// Scenario A: unclear input replies with the fixed greeting and writes nothing.
func TestHandle_UnknownIntentGreets(t *testing.T) {
	onb := &mockOnboarder{}
	srch := &mockSearcher{}
	h := New(&mockClassifier{intent: domain.IntentUnknown}, &mockExtractor{}, onb, srch, nil, nil)

	reply := h.Handle(context.Background(), msg("Hi"), testRenderer{})
	if reply != "greeting:Asha" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(onb.calls) != 0 {
		t.Error("greeting branch must not write to the store")
	}
	if srch.calls != 0 {
		t.Error("greeting branch must not search")
	}
}

// Scenario B: onboarding extracts, persists once, and echoes the new id.
func TestHandle_Onboarding(t *testing.T) {
	onb := &mockOnboarder{id: "id-123"}
	h := New(
		&mockClassifier{intent: domain.IntentOnboard},
		&mockExtractor{attrs: domain.VendorAttributes{Name: "Green Basket", Location: "Bangalore", Category: "grocery", Contact: "wa:+911234"}},
		onb, &mockSearcher{}, nil, nil,
	)

	reply := h.Handle(context.Background(), msg("Register my grocery store in Bangalore"), testRenderer{})
	if reply != "onboarded:grocery:Bangalore:id-123" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if len(onb.calls) != 1 {
		t.Fatalf("expected exactly one persisted record, got %d", len(onb.calls))
	}
	if onb.calls[0].RawText != "Register my grocery store in Bangalore" {
		t.Errorf("raw message should be stored as document text, got %q", onb.calls[0].RawText)
	}
}

func TestHandle_OnboardingFailureStillReplies(t *testing.T) {
	h := New(
		&mockClassifier{intent: domain.IntentOnboard},
		&mockExtractor{},
		&mockOnboarder{err: errors.New("store down")},
		&mockSearcher{}, nil, nil,
	)
	if reply := h.Handle(context.Background(), msg("register me"), testRenderer{}); reply != "onboard-failed" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandle_SearchWithResults(t *testing.T) {
	srch := &mockSearcher{res: domain.SearchResult{
		Summary: "sum",
		Vendors: []domain.VendorMatch{{VendorRecord: domain.VendorRecord{ID: "v1"}}},
	}}
	h := New(&mockClassifier{intent: domain.IntentSearch}, &mockExtractor{}, &mockOnboarder{}, srch, nil, nil)

	reply := h.Handle(context.Background(), msg("find grocery"), testRenderer{})
	if reply != "results:find grocery:1" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if srch.limit != DefaultSearchLimit {
		t.Errorf("chat search must use the default limit %d, got %d", DefaultSearchLimit, srch.limit)
	}
}

func TestHandle_SearchNoMatches(t *testing.T) {
	srch := &mockSearcher{res: domain.SearchResult{Summary: "No matching vendors found.", Vendors: nil}}
	h := New(&mockClassifier{intent: domain.IntentSearch}, &mockExtractor{}, &mockOnboarder{}, srch, nil, nil)

	if reply := h.Handle(context.Background(), msg("unicorn polish"), testRenderer{}); reply != "none:unicorn polish" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandle_SearchFailureStillReplies(t *testing.T) {
	h := New(&mockClassifier{intent: domain.IntentSearch}, &mockExtractor{}, &mockOnboarder{},
		&mockSearcher{err: errors.New("index down")}, nil, nil)
	if reply := h.Handle(context.Background(), msg("find grocery"), testRenderer{}); reply != "search-failed" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHandle_EmptyTextNeverReachesClassifier(t *testing.T) {
	// A classifier that panics proves it is not consulted.
	h := New(panickyClassifier{}, &mockExtractor{}, &mockOnboarder{}, &mockSearcher{}, nil, nil)
	m := domain.ChannelMessage{Text: "   ", SenderID: "s", SenderName: "Asha"}
	if reply := h.Handle(context.Background(), m, testRenderer{}); reply != "greeting:Asha" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

type panickyClassifier struct{}

func (panickyClassifier) Classify(_ context.Context, _ string) domain.Intent {
	panic("classifier must not see empty input")
}
