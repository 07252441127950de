package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

func TestDealRepository_UpdateStage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewDealRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE deals SET stage").
		WithArgs(string(domain.StageWon), now, int64(1), string(domain.StageNegotiation)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateStage(context.Background(), 1, domain.StageNegotiation, domain.StageWon, &now); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDealRepository_UpdateStage_StaleRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewDealRepository(db)

	// The row no longer holds the expected stage: zero rows affected.
	mock.ExpectExec("UPDATE deals SET stage").
		WithArgs(string(domain.StageWon), nil, int64(1), string(domain.StageNew)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStage(context.Background(), 1, domain.StageNew, domain.StageWon, nil)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on zero rows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDealRepository_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewDealRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM deals WHERE id").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.FindByID(context.Background(), 404); !errors.Is(err, domain.ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

func TestDealRepository_SellerHasDealWith(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewDealRepository(db)

	mock.ExpectQuery("SELECT 1 FROM deals").
		WithArgs(int64(1), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM deals").
		WithArgs(int64(1), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	owns, err := repo.SellerHasDealWith(context.Background(), 1, 10)
	if err != nil || !owns {
		t.Fatalf("expected ownership, got %v %v", owns, err)
	}
	owns, err = repo.SellerHasDealWith(context.Background(), 1, 11)
	if err != nil || owns {
		t.Fatalf("expected no ownership, got %v %v", owns, err)
	}
}

func TestDealRepository_ListBySeller_AdminView(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewDealRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "title", "expected_value", "stage", "close_date",
		"user_id", "client_id", "property_id",
		"id", "name", "id", "title",
	}).
		AddRow(2, "House for Jelena", 220000.0, "negotiation", nil, 1, 11, 21, 11, "Jelena", 21, "Family house").
		AddRow(1, "Apartment for Petar", 135000.0, "new", nil, 1, 10, 20, 10, "Petar", 20, "Apartment")

	// sellerID 0 means no WHERE clause: every deal.
	mock.ExpectQuery("SELECT d.id, d.title(.+)ORDER BY d.id DESC").
		WillReturnRows(rows)

	deals, err := repo.ListBySeller(context.Background(), 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(deals) != 2 {
		t.Fatalf("expected 2 deals, got %d", len(deals))
	}
	if deals[0].ID != 2 || deals[0].Client.Name != "Jelena" || deals[0].Property.Title != "Family house" {
		t.Fatalf("unexpected first row: %+v", deals[0])
	}
}
