// Package repomanager wires repository constructors together so services
// can obtain repositories bound either to the connection pool or to an
// open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"finbudget/internal/dbx"
	"finbudget/internal/server/repositories/budgets"
	"finbudget/internal/server/repositories/transactions"
	"finbudget/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Budgets(db dbx.DBTX) budgets.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
