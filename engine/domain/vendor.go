// Package domain holds the core vendor-directory types shared by every
// engine and channel package.
package domain

// Unknown is the sentinel value for vendor attributes the extractor could
// not resolve.
const Unknown = "Unknown"

// Intent is the coarse category assigned to an inbound message.
type Intent string

const (
	IntentOnboard Intent = "onboard"
	IntentSearch  Intent = "search"
	IntentUnknown Intent = "unknown"
)

// Channel identifies the transport a message arrived on.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTelegram Channel = "telegram"
	ChannelAPI      Channel = "api"
	ChannelBeckn    Channel = "beckn"
)

// VendorRecord is a stored business profile plus the text that was embedded
// for it. Records are created once at onboarding and never mutated.
type VendorRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Category string `json:"category"`
	Contact  string `json:"contact"`
	Document string `json:"document_text,omitempty"`
}

// VendorMatch is a retrieved vendor with the index's relevance score.
// Score direction follows the index metric (cosine similarity: higher is
// closer); callers must not assume a fixed direction.
type VendorMatch struct {
	VendorRecord
	Score float32 `json:"score"`
}

// SearchResult is the outcome of one retrieval: ranked matches in index
// order plus a natural-language summary grounded in them.
type SearchResult struct {
	Summary string        `json:"ai_summary"`
	Vendors []VendorMatch `json:"vendors"`
}

// VendorAttributes are the structured fields extracted from an onboarding
// message. Unresolved fields hold Unknown; Contact defaults to the sender id.
type VendorAttributes struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Category string `json:"category"`
	Contact  string `json:"contact"`
}

// ChannelMessage is the normalized envelope every chat adapter produces.
type ChannelMessage struct {
	Text       string
	SenderID   string
	SenderName string
	Channel    Channel
}
