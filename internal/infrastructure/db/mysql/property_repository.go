package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

const propertyColumns = "id, title, address, city, type, bedrooms, price"

type PropertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) FindByID(ctx context.Context, id int64) (*domain.Property, error) {
	var p domain.Property
	err := r.db.QueryRowContext(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE id = ? LIMIT 1", id).
		Scan(&p.ID, &p.Title, &p.Address, &p.City, &p.Type, &p.Bedrooms, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all properties ordered by title ascending.
func (r *PropertyRepository) List(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+propertyColumns+" FROM properties ORDER BY title ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := make([]domain.Property, 0)
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.Title, &p.Address, &p.City, &p.Type, &p.Bedrooms, &p.Price); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}
