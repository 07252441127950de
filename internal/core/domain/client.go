package domain

// Client is a prospective buyer. There is no owner column: a client
// "belongs" to a seller only transitively, through having at least one
// deal with that seller. The relation is computed per query, never stored.
type Client struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	City  *string `json:"city"`
}
