package ports

import (
	"context"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// UserRow is the admin listing view. The schema has no active column, so
// Active is always true for now.
type UserRow struct {
	domain.User
	Active bool `json:"active"`
}

// GlobalMetrics is the admin dashboard: independent counts per table plus
// the open/closed deal split derived from closeDate alone.
type GlobalMetrics struct {
	Users       int64 `json:"users"`
	Clients     int64 `json:"clients"`
	Properties  int64 `json:"properties"`
	Deals       int64 `json:"deals"`
	OpenDeals   int64 `json:"openDeals"`
	ClosedDeals int64 `json:"closedDeals"`
	Activities  int64 `json:"activities"`
}

// CSVExport is a rendered CSV file ready to be served as an attachment.
type CSVExport struct {
	Filename    string
	ContentType string
	Content     []byte
}

// AdminService implements the admin-only operations.
type AdminService interface {
	ListUsers(ctx context.Context) ([]UserRow, error)
	// UpdateUser applies a partial update. Changing the last admin's role
	// away from admin yields domain.ErrLastAdmin.
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*domain.User, error)
	// DeleteUser removes a user and cascades: the user's deals' activities
	// first, then the deals, then the user. Deleting the last admin yields
	// domain.ErrLastAdmin.
	DeleteUser(ctx context.Context, id int64) error
	GlobalMetrics(ctx context.Context) (*GlobalMetrics, error)
	ExportGlobalMetricsCSV(ctx context.Context) (*CSVExport, error)
}
