package models

import "time"

// Transaction types. The amount's sign is carried by Type, not by Amount.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

type Transaction struct {
	ID               int       `db:"id" json:"id"`
	UserID           int       `db:"user_id" json:"user_id"`
	BudgetCategoryID int       `db:"budget_category_id" json:"budget_category_id"`
	Amount           float64   `db:"amount" json:"amount"`
	Description      string    `db:"description" json:"description"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	Type             string    `db:"type" json:"type"`
}
