// Package budgets provides persistence for budgets and their categories.
package budgets

import (
	"context"

	"finbudget/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	CreateCategory(ctx context.Context, category *models.BudgetCategory) (*models.BudgetCategory, error)
	GetByID(ctx context.Context, id int) (*models.Budget, error)
	GetCategory(ctx context.Context, id int) (*models.BudgetCategory, error)
	ListByUser(ctx context.Context, userID int) ([]models.Budget, error)
	ListCategories(ctx context.Context, budgetID int) ([]models.BudgetCategory, error)
	Update(ctx context.Context, budget *models.Budget) error
	DeleteCategories(ctx context.Context, budgetID int) error
	Delete(ctx context.Context, id int) error
}
