package domain

import "strings"

// MaxSearchLimit bounds how many candidates a single search may request.
const MaxSearchLimit = 25

// ValidateMessage checks a normalized channel message before it enters the
// conversation pipeline. Whitespace-only text is rejected here so the
// classifier never sees it.
func ValidateMessage(msg ChannelMessage) error {
	if strings.TrimSpace(msg.Text) == "" {
		return NewValidationError("text", msg.Text, ErrEmptyMessage)
	}
	if msg.SenderID == "" {
		return NewValidationError("sender_id", msg.SenderID, ErrEmptySender)
	}
	return nil
}

// ValidateQuery checks a direct search request.
func ValidateQuery(query string, limit int) error {
	if strings.TrimSpace(query) == "" {
		return NewValidationError("query", query, ErrEmptyQuery)
	}
	if limit <= 0 || limit > MaxSearchLimit {
		return NewValidationError("limit", "", ErrBadLimit)
	}
	return nil
}
