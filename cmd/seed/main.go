// Command seed fills the database with demo data for local development:
// two fixed users, a few budgets with a color-palette category set, and a
// month of randomized transactions. Not for production use.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"finbudget/internal/server/config"
	"finbudget/internal/server/models"
	"finbudget/internal/server/repositories/repomanager"
	"finbudget/internal/server/services"
)

type demoUser struct {
	name     string
	email    string
	password string
}

var demoUsers = []demoUser{
	{"John Doe", "john@example.com", "password123"},
	{"Jane Smith", "jane@example.com", "password456"},
}

var months = []string{"January 2026", "February 2026", "March 2026"}

var budgetNames = []string{"Monthly Budget", "Vacation Fund", "Emergency Fund"}

type demoCategory struct {
	name       string
	color      string
	allocation string
}

var palette = []demoCategory{
	{"Housing", "#FF0000", "1200.00"},
	{"Transportation", "#00FF00", "400.00"},
	{"Food", "#0000FF", "600.00"},
	{"Entertainment", "#FFFF00", "300.00"},
	{"Utilities", "#FF00FF", "200.00"},
	{"Healthcare", "#00FFFF", "150.00"},
}

var expenseDescriptions = map[string][]string{
	"Housing":        {"Rent", "Property Tax", "Home Insurance", "Maintenance"},
	"Transportation": {"Gas", "Car Payment", "Bus Pass", "Car Insurance"},
	"Food":           {"Groceries", "Restaurant", "Coffee Shop", "Take Out"},
	"Entertainment":  {"Movies", "Concert", "Video Games", "Hobbies"},
	"Utilities":      {"Electricity", "Water", "Internet", "Phone"},
	"Healthcare":     {"Doctor Visit", "Medication", "Dental", "Vision"},
}

var incomeSources = []string{"Salary", "Freelance", "Investment", "Side Gig"}

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Println("Database seeded successfully!")
}

func run(ctx context.Context, cfg *config.Config) error {

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	userService := services.NewUserService(db, manager, cfg)
	budgetService := services.NewBudgetService(db, manager)

	for _, du := range demoUsers {
		user, err := userService.Register(ctx, du.name, du.email, du.password)
		if err != nil {
			return fmt.Errorf("creating user %s: %w", du.email, err)
		}
		log.Printf("created user %s (id=%d)", user.Email, user.ID)

		for _, month := range months {
			if err := seedBudget(ctx, db, budgetService, user, month); err != nil {
				return err
			}
		}
	}

	return nil
}

func seedBudget(ctx context.Context, db *sql.DB, budgetService *services.BudgetService, user *models.User, month string) error {

	categories := make([]services.CategoryInput, 0, len(palette))
	for _, c := range palette {
		allocation, err := decimal.NewFromString(c.allocation)
		if err != nil {
			return err
		}
		categories = append(categories, services.CategoryInput{
			Name:            c.name,
			AllocatedAmount: allocation,
			Color:           c.color,
		})
	}

	name := fmt.Sprintf("%s's %s", user.Name, gofakeit.RandomString(budgetNames))
	budget, err := budgetService.Create(ctx, user.ID, name,
		gofakeit.Float64Range(3000, 5000), month, categories)
	if err != nil {
		return fmt.Errorf("creating budget %q: %w", name, err)
	}
	log.Printf("created budget %q (id=%d)", budget.Name, budget.ID)

	for _, category := range budget.Categories {
		count := gofakeit.Number(3, 8)
		for i := 0; i < count; i++ {
			amount := gofakeit.Float64Range(10, category.AllocatedAmount.InexactFloat64()/2)
			description := gofakeit.RandomString(expenseDescriptions[category.Name])
			if err := insertBackdated(ctx, db, user.ID, category.ID, amount, description, models.TransactionTypeExpense); err != nil {
				return err
			}
		}

		// Income arrives against the Housing category, mirroring how the
		// demo dataset has always been laid out.
		if category.Name == "Housing" {
			if err := insertBackdated(ctx, db, user.ID, category.ID,
				gofakeit.Float64Range(2000, 4000),
				gofakeit.RandomString(incomeSources),
				models.TransactionTypeIncome); err != nil {
				return err
			}
		}
	}

	return nil
}

// insertBackdated writes a transaction with a created_at somewhere in the
// past 30 days, which the regular service path does not allow.
func insertBackdated(ctx context.Context, db *sql.DB, userID, categoryID int, amount float64, description, txType string) error {

	createdAt := time.Now().UTC().AddDate(0, 0, -gofakeit.Number(0, 30))

	query :=
		`INSERT INTO transactions (user_id, budget_category_id, amount, description, type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	if _, err := db.ExecContext(ctx, query, userID, categoryID, amount, description, txType, createdAt); err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	return nil
}
