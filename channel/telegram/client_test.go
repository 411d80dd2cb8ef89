package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_SendMessage(t *testing.T) {
	var gotPath string
	var gotReq sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL, "123:token")
	if err := c.SendMessage(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/bot123:token/sendMessage" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotReq.ChatID != 42 || gotReq.Text != "hello" {
		t.Errorf("unexpected request %+v", gotReq)
	}
}

func TestClient_SendMessageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClientWithBase(srv.URL, "t")
	if err := c.SendMessage(context.Background(), 1, "x"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
