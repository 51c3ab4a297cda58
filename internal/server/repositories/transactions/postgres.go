package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finbudget/internal/common"
	"finbudget/internal/dbx"
	"finbudget/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error) {

	query :=
		`INSERT INTO transactions (user_id, budget_category_id, amount, description, type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		transaction.UserID, transaction.BudgetCategoryID, transaction.Amount,
		transaction.Description, transaction.Type).Scan(&transaction.ID, &transaction.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "fk_transactions_budget_category_id_budget_categories" {
			return nil, common.ErrCategoryMissing
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transaction, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*models.Transaction, error) {
	query :=
		`SELECT id, user_id, budget_category_id, amount, description, created_at, type
		 FROM transactions
		 WHERE id = $1
		 `

	t := &models.Transaction{}
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.BudgetCategoryID, &t.Amount, &description, &t.CreatedAt, &t.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	t.Description = description.String

	return t, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]models.Transaction, error) {
	query :=
		`SELECT id, user_id, budget_category_id, amount, description, created_at, type
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	list := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var description sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.BudgetCategoryID, &t.Amount, &description, &t.CreatedAt, &t.Type); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		t.Description = description.String
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return list, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	query :=
		`DELETE FROM transactions
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// DeleteByBudget removes every transaction referencing a category of the
// given budget. Used when a budget (or its category set) is deleted so no
// orphaned transactions survive.
func (r *PostgresRepository) DeleteByBudget(ctx context.Context, budgetID int) error {
	query :=
		`DELETE FROM transactions
		 WHERE budget_category_id IN (
		     SELECT id FROM budget_categories WHERE budget_id = $1
		 )
		 `

	if _, err := r.db.ExecContext(ctx, query, budgetID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
