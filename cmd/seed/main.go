// Command seed resets the database to the demo dataset: one user per
// role, two clients, two properties and a small pipeline for the seller.
// It is destructive and meant for local development only.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/infrastructure/config"
	"github.com/crm-properties/crm-api/internal/infrastructure/db/mysql"
)

const demoPassword = "password123"

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	cfg := config.Load(log)

	ctx := context.Background()
	db, err := mysql.Open(ctx, cfg.MySQL.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connect failed")
	}
	defer db.Close()

	if err := reset(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("reset failed")
	}
	if err := seed(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seed complete")
}

// reset empties all tables, children before parents so the foreign keys
// never block the delete.
func reset(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"activities", "deals", "clients", "properties", "users"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func seed(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	users := mysql.NewUserRepository(db)
	clients := mysql.NewClientRepository(db)
	deals := mysql.NewDealRepository(db)
	activities := mysql.NewActivityRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	ana, err := users.Create(ctx, &domain.User{
		Name: "Ana Seller", Email: "ana@crm.local", PasswordHash: string(hash), Role: domain.RoleSeller,
	})
	if err != nil {
		return err
	}
	if _, err := users.Create(ctx, &domain.User{
		Name: "Marko Manager", Email: "marko@crm.local", PasswordHash: string(hash), Role: domain.RoleManager,
	}); err != nil {
		return err
	}
	if _, err := users.Create(ctx, &domain.User{
		Name: "Ivana Admin", Email: "ivana@crm.local", PasswordHash: string(hash), Role: domain.RoleAdmin,
	}); err != nil {
		return err
	}

	petar, err := clients.Create(ctx, &domain.Client{
		Name: "Petar Petrovic", Email: strPtr("petar@example.com"), Phone: strPtr("+381601234567"), City: strPtr("Belgrade"),
	})
	if err != nil {
		return err
	}
	jelena, err := clients.Create(ctx, &domain.Client{
		Name: "Jelena Jovanovic", Email: strPtr("jelena@example.com"), Phone: strPtr("+381607654321"), City: strPtr("Novi Sad"),
	})
	if err != nil {
		return err
	}

	apartment, err := insertProperty(ctx, db, "Two-bedroom apartment in the center", "Kralja Petra 12", "Belgrade", "apartment", 2, 135000)
	if err != nil {
		return err
	}
	house, err := insertProperty(ctx, db, "Family house with garden", "Fruskogorska 8", "Novi Sad", "house", 4, 220000)
	if err != nil {
		return err
	}

	dealOne, err := deals.Create(ctx, &domain.Deal{
		Title: "Apartment for Petar", ExpectedValue: floatPtr(135000),
		Stage: domain.StageNew, UserID: ana.ID, ClientID: petar.ID, PropertyID: apartment,
	})
	if err != nil {
		return err
	}
	dealTwo, err := deals.Create(ctx, &domain.Deal{
		Title: "House for Jelena", ExpectedValue: floatPtr(220000),
		Stage: domain.StageNegotiation, UserID: ana.ID, ClientID: jelena.ID, PropertyID: house,
	})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, a := range []domain.Activity{
		{Subject: "Intro call with Petar", Type: strPtr(domain.ActivityCall), DueDate: timePtr(now.AddDate(0, 0, 1)), DealID: dealOne.ID},
		{Subject: "Send apartment photos", Type: strPtr(domain.ActivityEmail), DueDate: timePtr(now.AddDate(0, 0, 2)), DealID: dealOne.ID},
		{Subject: "Viewing at the house", Type: strPtr(domain.ActivityMeeting), DueDate: timePtr(now.AddDate(0, 0, 3)), DealID: dealTwo.ID},
		{Subject: "Prepare draft contract", Type: strPtr(domain.ActivityTask), DueDate: timePtr(now.AddDate(0, 0, 5)), DealID: dealTwo.ID},
	} {
		activity := a
		if _, err := activities.Create(ctx, &activity); err != nil {
			return err
		}
	}

	log.Info().
		Str("seller", ana.Email).
		Str("password", demoPassword).
		Msg("demo users share one password")
	return nil
}

// insertProperty goes through raw SQL: properties are reference data and
// the repository deliberately has no create operation.
func insertProperty(ctx context.Context, db *sql.DB, title, address, city, typ string, bedrooms int, price float64) (int64, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO properties (title, address, city, type, bedrooms, price)
		VALUES (?, ?, ?, ?, ?, ?)`,
		title, address, city, typ, bedrooms, price)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }
