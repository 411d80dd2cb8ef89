// Package beckn implements the BPP (seller side) slice of the Beckn protocol
// used by ONDC retail discovery: accept /search, answer asynchronously with
// an /on_search callback carrying a provider catalog.
package beckn

import "time"

// Context is the Beckn message envelope shared by every protocol call.
type Context struct {
	Domain        string    `json:"domain"`
	Country       string    `json:"country"`
	City          string    `json:"city"`
	Action        string    `json:"action"`
	CoreVersion   string    `json:"core_version"`
	BapID         string    `json:"bap_id"`
	BapURI        string    `json:"bap_uri"`
	BppID         string    `json:"bpp_id,omitempty"`
	BppURI        string    `json:"bpp_uri,omitempty"`
	TransactionID string    `json:"transaction_id"`
	MessageID     string    `json:"message_id"`
	Timestamp     time.Time `json:"timestamp"`
	TTL           string    `json:"ttl"`
}

// Descriptor names a catalog entity.
type Descriptor struct {
	Name      string   `json:"name"`
	Code      string   `json:"code,omitempty"`
	Symbol    string   `json:"symbol,omitempty"`
	ShortDesc string   `json:"short_desc,omitempty"`
	LongDesc  string   `json:"long_desc,omitempty"`
	Images    []string `json:"images,omitempty"`
}

// Item is a single catalog entry offered by a provider.
type Item struct {
	ID            string     `json:"id"`
	Descriptor    Descriptor `json:"descriptor"`
	Price         any        `json:"price,omitempty"`
	CategoryID    string     `json:"category_id,omitempty"`
	FulfillmentID string     `json:"fulfillment_id,omitempty"`
}

// Provider is a seller with its items.
type Provider struct {
	ID         string     `json:"id"`
	Descriptor Descriptor `json:"descriptor"`
	Items      []Item     `json:"items"`
	Locations  []any      `json:"locations,omitempty"`
}

// Catalog is the on_search payload body.
type Catalog struct {
	Descriptor Descriptor `json:"descriptor"`
	Providers  []Provider `json:"providers"`
}

// Intent carries what the buyer app is searching for. Only the item and
// category shapes are read; the rest is preserved loosely so unknown buyer
// apps do not break decoding.
type Intent struct {
	Item        *IntentItem     `json:"item,omitempty"`
	Category    *IntentCategory `json:"category,omitempty"`
	Provider    map[string]any  `json:"provider,omitempty"`
	Fulfillment map[string]any  `json:"fulfillment,omitempty"`
	Tags        []map[string]any `json:"tags,omitempty"`
}

// IntentItem carries a free-text item descriptor.
type IntentItem struct {
	Descriptor *Descriptor `json:"descriptor,omitempty"`
}

// IntentCategory carries a category id.
type IntentCategory struct {
	Descriptor *CategoryDescriptor `json:"descriptor,omitempty"`
}

// CategoryDescriptor identifies a category by id.
type CategoryDescriptor struct {
	ID string `json:"id"`
}

// SearchMessage is the body of an inbound /search.
type SearchMessage struct {
	Intent Intent `json:"intent"`
}

// OnSearchMessage is the body of the /on_search callback.
type OnSearchMessage struct {
	Catalog Catalog `json:"catalog"`
}

// SearchRequest is a full inbound /search call.
type SearchRequest struct {
	Context Context       `json:"context"`
	Message SearchMessage `json:"message"`
}

// OnSearchRequest is the full /on_search callback body.
type OnSearchRequest struct {
	Context Context         `json:"context"`
	Message OnSearchMessage `json:"message"`
}

// Ack is the synchronous response to any Beckn call.
type Ack struct {
	Message AckMessage `json:"message"`
	Error   *Error     `json:"error,omitempty"`
}

// AckMessage wraps the ack status.
type AckMessage struct {
	Ack AckStatus `json:"ack"`
}

// AckStatus is "ACK" or "NACK".
type AckStatus struct {
	Status string `json:"status"`
}

// Error reports a protocol-level failure alongside an ack.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewAck returns a positive acknowledgement.
func NewAck() Ack {
	return Ack{Message: AckMessage{Ack: AckStatus{Status: "ACK"}}}
}

// NewErrorAck returns an acknowledgement carrying a domain error.
func NewErrorAck(typ, msg string) Ack {
	a := NewAck()
	a.Error = &Error{Type: typ, Message: msg}
	return a
}
