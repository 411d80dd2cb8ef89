package telegram

import (
	"fmt"
	"strings"

	"github.com/SetuAI/setu-node/engine/domain"
)

// Renderer produces Telegram reply text. Telegram chats render emoji well,
// so results use pin/phone markers instead of the plain labels WhatsApp gets.
type Renderer struct{}

func (Renderer) Greeting(senderName string) string {
	if senderName == "" {
		senderName = "User"
	}
	return fmt.Sprintf("Hi %s! Welcome to ONDC.\n\n"+
		"• *Register*: 'Register my bakery in Delhi'\n"+
		"• *Search*: 'Find electricians nearby'", senderName)
}

func (Renderer) OnboardSuccess(attrs domain.VendorAttributes, id string) string {
	return fmt.Sprintf(
		"✅ Business Registered!\n\n"+
			"Name: %s\nLocation: %s\nCategory: %s\nID: %s\n\n"+
			"You are now discoverable on ONDC.",
		attrs.Name, attrs.Location, attrs.Category, id)
}

func (Renderer) OnboardFailure() string {
	return "❌ Registration failed. Please try again."
}

func (Renderer) SearchResults(query string, vendors []domain.VendorMatch) string {
	parts := []string{fmt.Sprintf("Here are some vendors for '%s':\n", query)}
	for _, v := range vendors {
		parts = append(parts, fmt.Sprintf("• %s (%s)\n  📍 %s\n  📞 %s\n",
			v.Name, v.Category, v.Location, v.Contact))
	}
	parts = append(parts, "\nReply to search again or register your business!")
	return strings.Join(parts, "\n")
}

func (Renderer) NoResults(query string) string {
	return fmt.Sprintf("I couldn't find any vendors matching '%s'.", query)
}

func (Renderer) SearchFailure() string {
	return "Sorry, I encountered an error while searching."
}
