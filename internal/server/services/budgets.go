package services

import (
	"context"
	"database/sql"

	"finbudget/internal/common"
	"finbudget/internal/dbx"
	"finbudget/internal/server/models"
	"finbudget/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// DefaultCategoryColor is assigned to categories created without an
// explicit display color.
const DefaultCategoryColor = "#000000"

// CategoryInput describes a category to create within a budget.
type CategoryInput struct {
	Name            string
	AllocatedAmount decimal.Decimal
	Color           string
}

// BudgetUpdate carries a partial update: nil fields keep their prior
// values. A non-nil Categories fully replaces the existing category set
// (and the transactions recorded against it).
type BudgetUpdate struct {
	Name       *string
	Amount     *float64
	Month      *string
	Categories *[]CategoryInput
}

type BudgetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewBudgetService(db *sql.DB, m repomanager.RepositoryManager) *BudgetService {
	return &BudgetService{db: db, repomanager: m}
}

// List returns the caller's budgets with their categories attached.
func (s *BudgetService) List(ctx context.Context, userID int) ([]models.Budget, error) {

	repo := s.repomanager.Budgets(s.db)

	budgets, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range budgets {
		categories, err := repo.ListCategories(ctx, budgets[i].ID)
		if err != nil {
			return nil, err
		}
		budgets[i].Categories = categories
	}

	return budgets, nil
}

// Create inserts the budget and all its categories in one transaction;
// any constraint failure rolls the whole operation back.
func (s *BudgetService) Create(ctx context.Context, userID int, name string, amount float64, month string, categories []CategoryInput) (*models.Budget, error) {

	var budget *models.Budget

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Budgets(tx)

		created, err := repo.Create(ctx, &models.Budget{
			UserID: userID,
			Name:   name,
			Amount: amount,
			Month:  month,
		})
		if err != nil {
			return err
		}

		for _, c := range categories {
			color := c.Color
			if color == "" {
				color = DefaultCategoryColor
			}
			category, err := repo.CreateCategory(ctx, &models.BudgetCategory{
				BudgetID:        created.ID,
				Name:            c.Name,
				AllocatedAmount: c.AllocatedAmount,
				Color:           color,
			})
			if err != nil {
				return err
			}
			created.Categories = append(created.Categories, *category)
		}

		budget = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return budget, nil
}

// Update applies a partial update to a budget owned by userID. Budgets
// that do not exist or belong to another user both yield
// common.ErrorNotFound so existence is not leaked.
func (s *BudgetService) Update(ctx context.Context, userID, budgetID int, update BudgetUpdate) error {

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Budgets(tx)

		budget, err := repo.GetByID(ctx, budgetID)
		if err != nil {
			return err
		}
		if budget.UserID != userID {
			return common.ErrorNotFound
		}

		if update.Name != nil {
			budget.Name = *update.Name
		}
		if update.Amount != nil {
			budget.Amount = *update.Amount
		}
		if update.Month != nil {
			budget.Month = *update.Month
		}

		if err := repo.Update(ctx, budget); err != nil {
			return err
		}

		if update.Categories != nil {
			// Full replace: dependent transactions go first, then the old
			// category set, then the new one.
			if err := s.repomanager.Transactions(tx).DeleteByBudget(ctx, budgetID); err != nil {
				return err
			}
			if err := repo.DeleteCategories(ctx, budgetID); err != nil {
				return err
			}
			for _, c := range *update.Categories {
				color := c.Color
				if color == "" {
					color = DefaultCategoryColor
				}
				if _, err := repo.CreateCategory(ctx, &models.BudgetCategory{
					BudgetID:        budgetID,
					Name:            c.Name,
					AllocatedAmount: c.AllocatedAmount,
					Color:           color,
				}); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// Delete removes the budget, its categories and their transactions in one
// transaction. Non-owned budgets look identical to missing ones.
func (s *BudgetService) Delete(ctx context.Context, userID, budgetID int) error {

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Budgets(tx)

		budget, err := repo.GetByID(ctx, budgetID)
		if err != nil {
			return err
		}
		if budget.UserID != userID {
			return common.ErrorNotFound
		}

		if err := s.repomanager.Transactions(tx).DeleteByBudget(ctx, budgetID); err != nil {
			return err
		}
		if err := repo.DeleteCategories(ctx, budgetID); err != nil {
			return err
		}

		return repo.Delete(ctx, budgetID)
	})
}
