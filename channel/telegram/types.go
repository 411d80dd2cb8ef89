// Package telegram adapts the Telegram Bot API webhook to the conversation
// routine. Unlike WhatsApp, replies are not carried in the webhook response;
// they go out through a separate sendMessage call.
package telegram

// Update is the subset of a Telegram webhook update this service reads.
// Non-message updates (edits, channel posts, callbacks) carry a nil Message
// and are ignored.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is an inbound chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
	From      *User  `json:"from,omitempty"`
}

// Chat identifies where to send the reply.
type Chat struct {
	ID int64 `json:"id"`
}

// User is the sender of a message.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}
