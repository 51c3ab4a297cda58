// Package transactions provides persistence for income/expense transactions.
package transactions

import (
	"context"

	"finbudget/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error)
	GetByID(ctx context.Context, id int) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID int) ([]models.Transaction, error)
	Delete(ctx context.Context, id int) error
	DeleteByBudget(ctx context.Context, budgetID int) error
}
