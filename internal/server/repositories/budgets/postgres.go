package budgets

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

// isConstraintViolation reports whether err is an integrity-constraint
// failure (foreign key, not-null, check), as opposed to an infrastructure
// error.
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	// SQLSTATE class 23 = integrity constraint violation
	return errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23"
}

func (r *PostgresRepository) Create(ctx context.Context, budget *models.Budget) (*models.Budget, error) {

	query :=
		`INSERT INTO budgets (user_id, name, amount, month)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		budget.UserID, budget.Name, budget.Amount, budget.Month).Scan(&budget.ID, &budget.CreatedAt)

	if err != nil {
		if isConstraintViolation(err) {
			return nil, common.ErrorValidation
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return budget, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *models.BudgetCategory) (*models.BudgetCategory, error) {

	query :=
		`INSERT INTO budget_categories (budget_id, name, allocated_amount, color)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		category.BudgetID, category.Name, category.AllocatedAmount, category.Color).Scan(&category.ID)

	if err != nil {
		if isConstraintViolation(err) {
			return nil, common.ErrorValidation
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return category, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*models.Budget, error) {
	query :=
		`SELECT id, user_id, name, amount, month, created_at FROM budgets
		 WHERE id = $1
		 `

	budget := &models.Budget{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&budget.ID, &budget.UserID, &budget.Name, &budget.Amount, &budget.Month, &budget.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return budget, nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id int) (*models.BudgetCategory, error) {
	query :=
		`SELECT id, budget_id, name, allocated_amount, color FROM budget_categories
		 WHERE id = $1
		 `

	category := &models.BudgetCategory{}
	var color sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.BudgetID, &category.Name, &category.AllocatedAmount, &color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	category.Color = color.String

	return category, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]models.Budget, error) {
	query :=
		`SELECT id, user_id, name, amount, month, created_at FROM budgets
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Month, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return budgets, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context, budgetID int) ([]models.BudgetCategory, error) {
	query :=
		`SELECT id, budget_id, name, allocated_amount, color FROM budget_categories
		 WHERE budget_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	categories := []models.BudgetCategory{}
	for rows.Next() {
		var c models.BudgetCategory
		var color sql.NullString
		if err := rows.Scan(&c.ID, &c.BudgetID, &c.Name, &c.AllocatedAmount, &color); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		c.Color = color.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return categories, nil
}

func (r *PostgresRepository) Update(ctx context.Context, budget *models.Budget) error {
	query :=
		`UPDATE budgets SET name = $1, amount = $2, month = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, budget.Name, budget.Amount, budget.Month, budget.ID)
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

func (r *PostgresRepository) DeleteCategories(ctx context.Context, budgetID int) error {
	query :=
		`DELETE FROM budget_categories
		 WHERE budget_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, budgetID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	query :=
		`DELETE FROM budgets
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
