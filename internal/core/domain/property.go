package domain

// Property is read-only reference data attached to deals at creation.
type Property struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	Type     string  `json:"type"`
	Bedrooms int     `json:"bedrooms"`
	Price    float64 `json:"price"`
}
