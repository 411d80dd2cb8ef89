package semantic

// VendorPoint is a single vendor profile to store: its embedding plus the
// metadata buyers see in results.
type VendorPoint struct {
	ID        string
	Embedding []float32
	Document  string
	Name      string
	Location  string
	Category  string
	Contact   string
}

// VendorHit is a single search hit in index ranking order.
type VendorHit struct {
	ID       string
	Score    float32
	Document string
	Name     string
	Location string
	Category string
	Contact  string
}
