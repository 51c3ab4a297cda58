package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a named monthly spending plan owned by a user. Month is a
// free-text label ("January 2024"), not a validated date.
type Budget struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Amount    float64   `db:"amount" json:"amount"`
	Month     string    `db:"month" json:"month"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Categories []BudgetCategory `json:"categories"`
}

// BudgetCategory is a sub-allocation within a budget. AllocatedAmount is a
// fixed-point currency value; Color is a display tag like "#FF0000".
type BudgetCategory struct {
	ID              int             `db:"id" json:"id"`
	BudgetID        int             `db:"budget_id" json:"budget_id"`
	Name            string          `db:"name" json:"name"`
	AllocatedAmount decimal.Decimal `db:"allocated_amount" json:"allocated_amount"`
	Color           string          `db:"color" json:"color"`
}
