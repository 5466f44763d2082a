package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/domain/ordering"
	"github.com/focusqueue/core/internal/infrastructure/database"
	"github.com/focusqueue/core/internal/ports"
)

// QueueRepositoryImpl implements the QueueRepository interface
type QueueRepositoryImpl struct {
	db *database.DB
}

// NewQueueRepository creates a new queue repository
func NewQueueRepository(db *database.DB) ports.QueueRepository {
	return &QueueRepositoryImpl{db: db}
}

// Append queues the task after every tracked task. A task that is already
// queued keeps its position.
func (r *QueueRepositoryImpl) Append(ctx context.Context, taskID int64) (int, error) {
	var pos int
	err := withConflictRetry(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := requireTasks(ctx, tx, []int64{taskID}); err != nil {
			return err
		}
		err := get(ctx, tx, &pos, `SELECT position FROM task_orders WHERE task_id = ?`, taskID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		pos, err = appendOrder(ctx, tx, taskID)
		return err
	})
	if err != nil {
		return 0, storageError("append to queue", err)
	}
	return pos, nil
}

// Remove drops the task from the queue and closes the gap it leaves.
func (r *QueueRepositoryImpl) Remove(ctx context.Context, taskID int64) error {
	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := lockOrders(ctx, tx); err != nil {
			return err
		}
		arena, err := loadArena(ctx, tx)
		if err != nil {
			return err
		}
		if !arena.Remove(taskID) {
			return nil
		}
		return writeArena(ctx, tx, arena)
	})
	return storageError("remove from queue", err)
}

// Reorder moves the given tasks to the front of the queue in the given order.
func (r *QueueRepositoryImpl) Reorder(ctx context.Context, taskIDs []int64) error {
	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := lockOrders(ctx, tx); err != nil {
			return err
		}
		if err := requireTasks(ctx, tx, taskIDs); err != nil {
			return err
		}
		arena, err := loadArena(ctx, tx)
		if err != nil {
			return err
		}
		if err := arena.Reorder(taskIDs); err != nil {
			return entities.WrapError(entities.CodeValidation, "invalid task order", err)
		}
		return writeArena(ctx, tx, arena)
	})
	return storageError("reorder queue", err)
}

func (r *QueueRepositoryImpl) ListPending(ctx context.Context, offset, limit int) ([]*entities.Task, error) {
	offset, limit = page(offset, limit)
	query := `
		SELECT t.id, t.title, t.description, t.time_created, t.original_length_seconds,
			t.time_remaining_seconds, t.is_complete, t.completed_at, t.source_block_id, o.position
		FROM tasks t
		JOIN task_orders o ON o.task_id = t.id
		WHERE t.is_complete = FALSE
		ORDER BY o.position
		LIMIT ? OFFSET ?`

	var rows []taskRow
	if err := selectAll(ctx, r.db.DB, &rows, query, limit, offset); err != nil {
		return nil, storageError("list pending tasks", err)
	}

	tasks := make([]*entities.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toEntity()
	}
	if err := loadChildren(ctx, r.db.DB, tasks); err != nil {
		return nil, storageError("list pending tasks", err)
	}
	return tasks, nil
}

func (r *QueueRepositoryImpl) CountPending(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tasks t
		JOIN task_orders o ON o.task_id = t.id
		WHERE t.is_complete = FALSE`

	var count int
	if err := get(ctx, r.db.DB, &count, query); err != nil {
		return 0, storageError("count pending tasks", err)
	}
	return count, nil
}

func (r *QueueRepositoryImpl) Orders(ctx context.Context) ([]entities.TaskOrder, error) {
	var orders []entities.TaskOrder
	err := selectAll(ctx, r.db.DB, &orders, `SELECT task_id, position FROM task_orders ORDER BY position`)
	if err != nil {
		return nil, storageError("list task orders", err)
	}
	return orders, nil
}

// appendOrder assigns max(position)+1. Callers retry the whole transaction
// once if a concurrent append took the same position.
func appendOrder(ctx context.Context, tx *sqlx.Tx, taskID int64) (int, error) {
	if err := lockOrders(ctx, tx); err != nil {
		return 0, err
	}
	var last int
	if err := get(ctx, tx, &last, `SELECT COALESCE(MAX(position), 0) FROM task_orders`); err != nil {
		return 0, fmt.Errorf("read max order: %w", err)
	}
	if _, err := exec(ctx, tx, `INSERT INTO task_orders (task_id, position) VALUES (?, ?)`, taskID, last+1); err != nil {
		return 0, fmt.Errorf("insert task order: %w", err)
	}
	return last + 1, nil
}

func ensureQueued(ctx context.Context, tx *sqlx.Tx, taskID int64) error {
	var pos int
	err := get(ctx, tx, &pos, `SELECT position FROM task_orders WHERE task_id = ?`, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = appendOrder(ctx, tx, taskID)
	}
	return err
}

func loadArena(ctx context.Context, tx *sqlx.Tx) (*ordering.Arena, error) {
	var ids []int64
	if err := selectAll(ctx, tx, &ids, `SELECT task_id FROM task_orders ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load task orders: %w", err)
	}
	return ordering.New(ids)
}

// writeArena replaces the order relation with the arena's positions.
// Rewriting the table keeps the unique position constraint satisfied at
// every statement.
func writeArena(ctx context.Context, tx *sqlx.Tx, arena *ordering.Arena) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_orders`); err != nil {
		return fmt.Errorf("clear task orders: %w", err)
	}
	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`INSERT INTO task_orders (task_id, position) VALUES (?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare task order insert: %w", err)
	}
	defer stmt.Close()

	for i, id := range arena.Positions() {
		if _, err := stmt.ExecContext(ctx, id, i+1); err != nil {
			return fmt.Errorf("insert task order: %w", err)
		}
	}
	return nil
}

// requireTasks fails with NotFound naming the first id that has no task.
func requireTasks(ctx context.Context, q sqlx.ExtContext, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var found []int64
	if err := selectIn(ctx, q, &found, `SELECT id FROM tasks WHERE id IN (?)`, ids); err != nil {
		return fmt.Errorf("check tasks: %w", err)
	}
	known := make(map[int64]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return entities.WrapError(entities.CodeNotFound, "task not found", fmt.Errorf("task %d", id))
		}
	}
	return nil
}
