package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

const dealColumns = "id, title, expected_value, stage, close_date, user_id, client_id, property_id"

type DealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{db: db}
}

func scanDeal(row interface{ Scan(...any) error }) (*domain.Deal, error) {
	var d domain.Deal
	err := row.Scan(&d.ID, &d.Title, &d.ExpectedValue, &d.Stage, &d.CloseDate,
		&d.UserID, &d.ClientID, &d.PropertyID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO deals (title, expected_value, stage, close_date, user_id, client_id, property_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		deal.Title, deal.ExpectedValue, deal.Stage, deal.CloseDate,
		deal.UserID, deal.ClientID, deal.PropertyID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	deal.ID = id
	return deal, nil
}

func (r *DealRepository) FindByID(ctx context.Context, id int64) (*domain.Deal, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+dealColumns+" FROM deals WHERE id = ? LIMIT 1", id)
	d, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDealNotFound
	}
	return d, err
}

// ListBySeller returns deals with client and property names joined,
// newest first. A sellerID of 0 returns every deal (the admin view).
func (r *DealRepository) ListBySeller(ctx context.Context, sellerID int64) ([]ports.DealWithRefs, error) {
	query := `
		SELECT d.id, d.title, d.expected_value, d.stage, d.close_date,
		       d.user_id, d.client_id, d.property_id,
		       c.id, c.name, p.id, p.title
		FROM deals d
		INNER JOIN clients c ON c.id = d.client_id
		INNER JOIN properties p ON p.id = d.property_id`
	args := []any{}
	if sellerID != 0 {
		query += " WHERE d.user_id = ?"
		args = append(args, sellerID)
	}
	query += " ORDER BY d.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]ports.DealWithRefs, 0)
	for rows.Next() {
		var d ports.DealWithRefs
		err := rows.Scan(&d.ID, &d.Title, &d.ExpectedValue, &d.Stage, &d.CloseDate,
			&d.UserID, &d.ClientID, &d.PropertyID,
			&d.Client.ID, &d.Client.Name, &d.Property.ID, &d.Property.Title)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// Filter returns deals matching the non-nil criteria, with seller, client
// and property joined for the manager's result table.
func (r *DealRepository) Filter(ctx context.Context, f ports.DealFilter) ([]ports.DealDetail, error) {
	query := `
		SELECT d.id, d.title, d.expected_value, d.stage, d.close_date,
		       d.user_id, d.client_id, d.property_id,
		       u.id, u.name, u.email,
		       c.id, c.name, c.city,
		       p.id, p.title, p.city, p.price
		FROM deals d
		INNER JOIN users u ON u.id = d.user_id
		INNER JOIN clients c ON c.id = d.client_id
		INNER JOIN properties p ON p.id = d.property_id
		WHERE 1 = 1`
	args := []any{}
	if f.Stage != nil {
		query += " AND d.stage = ?"
		args = append(args, *f.Stage)
	}
	if f.SellerID != nil {
		query += " AND d.user_id = ?"
		args = append(args, *f.SellerID)
	}
	if f.FromCloseDate != nil {
		query += " AND d.close_date >= ?"
		args = append(args, *f.FromCloseDate)
	}
	if f.ToCloseDate != nil {
		query += " AND d.close_date <= ?"
		args = append(args, *f.ToCloseDate)
	}
	query += " ORDER BY d.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]ports.DealDetail, 0)
	for rows.Next() {
		var d ports.DealDetail
		err := rows.Scan(&d.ID, &d.Title, &d.ExpectedValue, &d.Stage, &d.CloseDate,
			&d.UserID, &d.ClientID, &d.PropertyID,
			&d.User.ID, &d.User.Name, &d.User.Email,
			&d.Client.ID, &d.Client.Name, &d.Client.City,
			&d.Property.ID, &d.Property.Title, &d.Property.City, &d.Property.Price)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// ListForMetrics returns one seller's deals, optionally restricted to a
// closeDate range (inclusive on both ends).
func (r *DealRepository) ListForMetrics(ctx context.Context, sellerID int64, from, to *time.Time) ([]domain.Deal, error) {
	query := "SELECT " + dealColumns + " FROM deals WHERE user_id = ?"
	args := []any{sellerID}
	if from != nil {
		query += " AND close_date >= ?"
		args = append(args, *from)
	}
	if to != nil {
		query += " AND close_date <= ?"
		args = append(args, *to)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0)
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *d)
	}
	return deals, rows.Err()
}

// SummariesForSellers returns one row per deal owned by a seller-role
// user, just enough to split each seller's deals open/closed.
func (r *DealRepository) SummariesForSellers(ctx context.Context) ([]ports.DealSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.user_id, d.stage, d.close_date
		FROM deals d
		INNER JOIN users u ON u.id = d.user_id
		WHERE u.role = ?`, domain.RoleSeller)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]ports.DealSummary, 0)
	for rows.Next() {
		var s ports.DealSummary
		if err := rows.Scan(&s.SellerID, &s.Stage, &s.CloseDate); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// UpdateStage moves the deal only if it still sits in the expected stage.
// Zero rows affected means another request transitioned it first; the
// caller sees that as a rejected transition, same as a backwards move.
func (r *DealRepository) UpdateStage(ctx context.Context, id int64, expected, next domain.DealStage, closeDate *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE deals SET stage = ?, close_date = ? WHERE id = ? AND stage = ?",
		next, closeDate, id, expected)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// SellerHasDealWith reports whether the seller has at least one deal with
// the client. This is the transitive-ownership predicate.
func (r *DealRepository) SellerHasDealWith(ctx context.Context, sellerID, clientID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM deals WHERE user_id = ? AND client_id = ? LIMIT 1",
		sellerID, clientID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *DealRepository) ListIDsBySeller(ctx context.Context, sellerID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id FROM deals WHERE user_id = ?", sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *DealRepository) DeleteBySeller(ctx context.Context, sellerID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM deals WHERE user_id = ?", sellerID)
	return err
}
