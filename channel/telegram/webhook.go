package telegram

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SetuAI/setu-node/engine/conversation"
	"github.com/SetuAI/setu-node/engine/domain"
)

// Conversation runs the shared classify-then-route routine.
type Conversation interface {
	Handle(ctx context.Context, msg domain.ChannelMessage, r conversation.Renderer) string
}

// Sender delivers the reply back to the chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Webhook handles Telegram bot updates. It always returns 200: Telegram
// redelivers updates on non-2xx responses, and redelivering a message whose
// reply failed to send would duplicate side effects like onboarding.
type Webhook struct {
	conv   Conversation
	sender Sender
	logger *slog.Logger
}

// NewWebhook creates the Telegram webhook handler.
func NewWebhook(conv Conversation, sender Sender, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Webhook{conv: conv, sender: sender, logger: logger}
}

func (wh *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		wh.logger.Warn("telegram: bad update payload", "err", err)
		writeOK(w)
		return
	}

	// Edits, channel posts, stickers and the like have no text to act on.
	if update.Message == nil || update.Message.Text == "" || update.Message.Chat.ID == 0 {
		writeOK(w)
		return
	}

	chatID := update.Message.Chat.ID
	senderName := ""
	if update.Message.From != nil {
		senderName = update.Message.From.FirstName
	}

	msg := domain.ChannelMessage{
		Text:       update.Message.Text,
		SenderID:   strconv.FormatInt(chatID, 10),
		SenderName: senderName,
		Channel:    domain.ChannelTelegram,
	}

	reply := wh.conv.Handle(r.Context(), msg, Renderer{})

	if err := wh.sender.SendMessage(r.Context(), chatID, reply); err != nil {
		wh.logger.Error("telegram: send failed", "chat_id", chatID, "err", err)
	}
	writeOK(w)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}
