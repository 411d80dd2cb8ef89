package whatsapp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/SetuAI/setu-node/engine/conversation"
	"github.com/SetuAI/setu-node/engine/domain"
)

// fallbackReply is sent when the request itself cannot be processed.
const fallbackReply = "Sorry, something went wrong. Please try again."

// Conversation runs the shared classify-then-route routine.
type Conversation interface {
	Handle(ctx context.Context, msg domain.ChannelMessage, r conversation.Renderer) string
}

// Webhook handles Twilio's form-encoded WhatsApp callbacks. The reply is
// always a 200 with a TwiML body; Twilio retries non-2xx responses, and a
// retry of a failed LLM call would just fail again.
type Webhook struct {
	conv   Conversation
	logger *slog.Logger
}

// NewWebhook creates the Twilio webhook handler.
func NewWebhook(conv Conversation, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Webhook{conv: conv, logger: logger}
}

func (wh *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		wh.logger.Error("whatsapp: bad webhook form", "err", err)
		writeTwiML(w, fallbackReply)
		return
	}

	msg := domain.ChannelMessage{
		Text:       r.PostFormValue("Body"),
		SenderID:   r.PostFormValue("From"),
		SenderName: r.PostFormValue("ProfileName"),
		Channel:    domain.ChannelWhatsApp,
	}

	reply := wh.conv.Handle(r.Context(), msg, Renderer{})
	writeTwiML(w, reply)
}

func writeTwiML(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(TwiML(text)))
}

// TestHandler simulates an inbound WhatsApp message without Twilio in the
// loop. It reads `message` and `sender` query parameters and returns the
// reply as JSON, which makes demos a single curl call.
type TestHandler struct {
	conv Conversation
}

// NewTestHandler creates the Twilio-free simulation endpoint.
func NewTestHandler(conv Conversation) *TestHandler {
	return &TestHandler{conv: conv}
}

func (th *TestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sender := r.URL.Query().Get("sender")
	if sender == "" {
		sender = "test-user"
	}
	msg := domain.ChannelMessage{
		Text:     r.URL.Query().Get("message"),
		SenderID: sender,
		Channel:  domain.ChannelWhatsApp,
	}

	reply := th.conv.Handle(r.Context(), msg, Renderer{})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"reply": reply})
}
