// Package repository implements the storage ports on top of sqlx. Queries
// are written with ? placeholders and rebound for the connected driver, so
// the same code serves PostgreSQL and SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/database"
)

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var dErr *entities.Error
	if errors.As(err, &dErr) {
		return err
	}
	return entities.WrapError(entities.CodeStorage, op, err)
}

func get(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	return sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
}

func selectAll(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func exec(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (sql.Result, error) {
	return q.ExecContext(ctx, q.Rebind(query), args...)
}

// insertReturningID runs an INSERT ... RETURNING id statement.
func insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	var id int64
	err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&id)
	return id, err
}

// selectIn expands IN (?) over a slice argument before rebinding.
func selectIn(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(expanded), expandedArgs...)
}

func affectedOrNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// withConflictRetry runs fn in a transaction and, when it fails on a unique
// constraint, once more in a fresh transaction.
func withConflictRetry(ctx context.Context, db *database.DB, fn func(*sqlx.Tx) error) error {
	err := db.WithTransaction(ctx, fn)
	if err != nil && database.IsUniqueViolation(err) {
		err = db.WithTransaction(ctx, fn)
	}
	return err
}

// lockOrders serializes writers of task_orders on PostgreSQL. SQLite
// transactions already begin immediate.
func lockOrders(ctx context.Context, tx *sqlx.Tx) error {
	if tx.DriverName() != database.DriverPostgres {
		return nil
	}
	_, err := tx.ExecContext(ctx, `LOCK TABLE task_orders IN SHARE ROW EXCLUSIVE MODE`)
	return err
}

func page(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	return offset, limit
}
