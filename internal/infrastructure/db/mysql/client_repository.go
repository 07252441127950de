package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func scanClient(row interface{ Scan(...any) error }) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.City)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO clients (name, email, phone, city) VALUES (?, ?, ?, ?)",
		client.Name, client.Email, client.Phone, client.City)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	client.ID = id
	return client, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, phone, city FROM clients WHERE id = ? LIMIT 1", id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrClientNotFound
	}
	return c, err
}

// List returns all clients ordered by name, for the deal-creation combo.
func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	return r.queryClients(ctx,
		"SELECT id, name, email, phone, city FROM clients ORDER BY name ASC")
}

// ListBySeller returns clients linked to the seller through at least one
// deal. DISTINCT collapses multiple deals with the same client.
func (r *ClientRepository) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Client, error) {
	return r.queryClients(ctx, `
		SELECT DISTINCT c.id, c.name, c.email, c.phone, c.city
		FROM clients c
		INNER JOIN deals d ON d.client_id = c.id
		WHERE d.user_id = ?
		ORDER BY c.id DESC`, sellerID)
}

func (r *ClientRepository) queryClients(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	return clients, rows.Err()
}

// Update applies the non-nil fields and returns the updated row.
func (r *ClientRepository) Update(ctx context.Context, id int64, upd ports.ClientUpdate) (*domain.Client, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *upd.Phone)
	}
	if upd.City != nil {
		sets = append(sets, "city = ?")
		args = append(args, *upd.City)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE clients SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}
