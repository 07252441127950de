package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO activities (subject, type, description, due_date, deal_id)
		VALUES (?, ?, ?, ?, ?)`,
		activity.Subject, activity.Type, activity.Description, activity.DueDate, activity.DealID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	activity.ID = id
	return activity, nil
}

// ListByDeal returns the deal's activities ordered by due date ascending.
// Rows without a due date sort last.
func (r *ActivityRepository) ListByDeal(ctx context.Context, dealID int64) ([]domain.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, subject, type, description, due_date, deal_id
		FROM activities
		WHERE deal_id = ?
		ORDER BY due_date IS NULL, due_date ASC, id ASC`, dealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		var a domain.Activity
		err := rows.Scan(&a.ID, &a.Subject, &a.Type, &a.Description, &a.DueDate, &a.DealID)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// DeleteByDealIDs removes all activities of the given deals. Used only by
// the user-delete cascade; a nil or empty slice is a no-op.
func (r *ActivityRepository) DeleteByDealIDs(ctx context.Context, dealIDs []int64) error {
	if len(dealIDs) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(dealIDs)), ",")
	args := make([]any, len(dealIDs))
	for i, id := range dealIDs {
		args[i] = id
	}
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM activities WHERE deal_id IN ("+placeholders+")", args...)
	return err
}
