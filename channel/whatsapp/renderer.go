// Package whatsapp adapts Twilio's WhatsApp webhook to the conversation
// routine. Inbound messages arrive as form-encoded POSTs; replies go back
// as TwiML in the webhook response body, so no outbound API client is needed.
package whatsapp

import (
	"fmt"
	"strings"

	"github.com/SetuAI/setu-node/engine/domain"
)

// Renderer produces the plain-text WhatsApp reply for each conversation
// outcome. WhatsApp has no markup to speak of, so formatting is asterisk
// bullets and indentation only.
type Renderer struct{}

func (Renderer) Greeting(_ string) string {
	return "Welcome to ONDC! I didn't quite understand that.\n\n" +
		"- To register your business, describe your shop (e.g., 'Register my grocery store in Indiranagar').\n" +
		"- To find vendors, just ask (e.g., 'Find plumbers nearby')."
}

func (Renderer) OnboardSuccess(attrs domain.VendorAttributes, id string) string {
	return fmt.Sprintf(
		"Welcome to ONDC! Your business has been registered.\n\n"+
			"Name: %s\nLocation: %s\nCategory: %s\nID: %s\n\n"+
			"Buyers can now discover you on the ONDC network!",
		attrs.Name, attrs.Location, attrs.Category, id)
}

func (Renderer) OnboardFailure() string {
	return "Sorry, we could not process your registration. Please try again."
}

func (Renderer) SearchResults(query string, vendors []domain.VendorMatch) string {
	parts := []string{fmt.Sprintf("Here are some vendors for '%s':\n", query)}
	for _, v := range vendors {
		parts = append(parts, fmt.Sprintf("* %s (%s)\n  Loc: %s\n  Contact: %s\n",
			v.Name, v.Category, v.Location, v.Contact))
	}
	parts = append(parts, "\nReply with a message to search again or register your own business!")
	return strings.Join(parts, "\n")
}

func (Renderer) NoResults(query string) string {
	return fmt.Sprintf("I couldn't find any vendors matching '%s'. Try a different search.", query)
}

func (Renderer) SearchFailure() string {
	return "Sorry, I encountered an error while searching."
}
