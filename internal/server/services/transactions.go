package services

import (
	"context"
	"database/sql"
	"errors"

	"finbudget/internal/common"
	"finbudget/internal/dbx"
	"finbudget/internal/server/models"
	"finbudget/internal/server/repositories/repomanager"
)

type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager) *TransactionService {
	return &TransactionService{db: db, repomanager: m}
}

// List returns all of the caller's transactions, oldest first.
func (s *TransactionService) List(ctx context.Context, userID int) ([]models.Transaction, error) {
	return s.repomanager.Transactions(s.db).ListByUser(ctx, userID)
}

// Create records a transaction against a budget category. A category that
// does not exist yields common.ErrCategoryMissing.
func (s *TransactionService) Create(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error) {

	var created *models.Transaction

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Budgets(tx).GetCategory(ctx, transaction.BudgetCategoryID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrCategoryMissing
			}
			return err
		}

		t, err := s.repomanager.Transactions(tx).Create(ctx, transaction)
		if err != nil {
			return err
		}

		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Delete removes one of the caller's transactions. Transactions that do
// not exist or belong to another user both yield common.ErrorNotFound.
func (s *TransactionService) Delete(ctx context.Context, userID, transactionID int) error {

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Transactions(tx)

		transaction, err := repo.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if transaction.UserID != userID {
			return common.ErrorNotFound
		}

		return repo.Delete(ctx, transactionID)
	})
}
