package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/database"
	"github.com/focusqueue/core/internal/ports"
)

const taskSelect = `
	SELECT t.id, t.title, t.description, t.time_created, t.original_length_seconds,
		t.time_remaining_seconds, t.is_complete, t.completed_at, t.source_block_id, o.position
	FROM tasks t
	LEFT JOIN task_orders o ON o.task_id = t.id`

type taskRow struct {
	ID             int64             `db:"id"`
	Title          string            `db:"title"`
	Description    string            `db:"description"`
	TimeCreated    time.Time         `db:"time_created"`
	OriginalLength entities.Duration `db:"original_length_seconds"`
	TimeRemaining  entities.Duration `db:"time_remaining_seconds"`
	IsComplete     bool              `db:"is_complete"`
	CompletedAt    *time.Time        `db:"completed_at"`
	SourceBlockID  *int64            `db:"source_block_id"`
	Position       *int              `db:"position"`
}

func (r taskRow) toEntity() *entities.Task {
	return &entities.Task{
		ID:             r.ID,
		Title:          r.Title,
		Description:    r.Description,
		TimeCreated:    r.TimeCreated,
		OriginalLength: r.OriginalLength,
		TimeRemaining:  r.TimeRemaining,
		IsComplete:     r.IsComplete,
		CompletedAt:    r.CompletedAt,
		SourceBlockID:  r.SourceBlockID,
		Order:          r.Position,
		SubTasks:       []entities.SubTask{},
		Extensions:     []entities.Extension{},
	}
}

type subTaskRow struct {
	ID          int64  `db:"id"`
	TaskID      int64  `db:"task_id"`
	Description string `db:"description"`
	Completed   bool   `db:"completed"`
}

type extensionRow struct {
	ID        int64             `db:"id"`
	TaskID    int64             `db:"task_id"`
	Length    entities.Duration `db:"length_seconds"`
	CreatedAt time.Time         `db:"created_at"`
}

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	err := withConflictRetry(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertTask(ctx, tx, task, nil); err != nil {
			return err
		}
		for i := range task.SubTasks {
			sub := &task.SubTasks[i]
			id, err := insertReturningID(ctx, tx,
				`INSERT INTO subtasks (task_id, description, completed) VALUES (?, ?, ?) RETURNING id`,
				task.ID, sub.Description, sub.Completed,
			)
			if err != nil {
				return fmt.Errorf("insert subtask: %w", err)
			}
			sub.ID, sub.TaskID = id, task.ID
		}
		pos, err := appendOrder(ctx, tx, task.ID)
		if err != nil {
			return err
		}
		task.Order = &pos
		return nil
	})
	return storageError("create task", err)
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int64) (*entities.Task, error) {
	task, err := getTask(ctx, r.db.DB, id)
	if err != nil {
		return nil, storageError("get task by id", err)
	}
	return task, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int64) error {
	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := lockOrders(ctx, tx); err != nil {
			return err
		}
		var exists int64
		if err := get(ctx, tx, &exists, `SELECT id FROM tasks WHERE id = ?`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return entities.ErrTaskNotFound
			}
			return err
		}

		arena, err := loadArena(ctx, tx)
		if err != nil {
			return err
		}
		if arena.Remove(id) {
			if err := writeArena(ctx, tx, arena); err != nil {
				return err
			}
		}

		for _, query := range []string{
			`DELETE FROM subtasks WHERE task_id = ?`,
			`DELETE FROM task_extensions WHERE task_id = ?`,
			`DELETE FROM tasks WHERE id = ?`,
		} {
			if _, err := exec(ctx, tx, query, id); err != nil {
				return err
			}
		}
		return nil
	})
	return storageError("delete task", err)
}

func (r *TaskRepositoryImpl) Materialize(ctx context.Context, task *entities.Task, by entities.MaterializeKey) (*entities.Task, bool, error) {
	key, lookup, lookupArgs, err := materializeLookup(task, by)
	if err != nil {
		return nil, false, err
	}

	var existingID int64
	err = withConflictRetry(ctx, r.db, func(tx *sqlx.Tx) error {
		existingID = 0
		err := get(ctx, tx, &existingID, lookup, lookupArgs...)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err := insertTask(ctx, tx, task, &key); err != nil {
			return err
		}
		pos, err := appendOrder(ctx, tx, task.ID)
		if err != nil {
			return err
		}
		task.Order = &pos
		return nil
	})
	if err != nil {
		return nil, false, storageError("materialize task", err)
	}

	if existingID != 0 {
		existing, err := r.GetByID(ctx, existingID)
		return existing, false, err
	}
	return task, true, nil
}

func materializeLookup(task *entities.Task, by entities.MaterializeKey) (string, string, []interface{}, error) {
	switch by {
	case entities.MaterializeByBlock:
		if task.SourceBlockID == nil {
			return "", "", nil, entities.NewError(entities.CodeValidation, "materialized task needs a source block")
		}
		key := fmt.Sprintf("block:%d", *task.SourceBlockID)
		return key,
			`SELECT id FROM tasks WHERE source_block_id = ? OR materialized_key = ? ORDER BY id LIMIT 1`,
			[]interface{}{*task.SourceBlockID, key}, nil
	default:
		return "title:" + task.Title,
			`SELECT id FROM tasks WHERE title = ? ORDER BY id LIMIT 1`,
			[]interface{}{task.Title}, nil
	}
}

func (r *TaskRepositoryImpl) Decrement(ctx context.Context, id int64, unit entities.Duration, now time.Time) (*entities.Task, error) {
	// Every right-hand side sees the pre-update row, so the three columns
	// move together in one statement.
	query := `
		UPDATE tasks
		SET time_remaining_seconds = CASE WHEN time_remaining_seconds > ? THEN time_remaining_seconds - ? ELSE 0 END,
			is_complete = CASE WHEN time_remaining_seconds > ? THEN FALSE ELSE TRUE END,
			completed_at = CASE WHEN time_remaining_seconds > ? THEN completed_at ELSE ? END
		WHERE id = ? AND is_complete = FALSE`

	res, err := exec(ctx, r.db.DB, query, unit, unit, unit, unit, now.UTC(), id)
	if err != nil {
		return nil, storageError("decrement task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, storageError("decrement task", err)
	}
	if n == 0 {
		var complete bool
		err := get(ctx, r.db.DB, &complete, `SELECT is_complete FROM tasks WHERE id = ?`, id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, entities.ErrTaskNotFound
		case err != nil:
			return nil, storageError("decrement task", err)
		default:
			return nil, entities.ErrTaskAlreadyComplete
		}
	}

	return r.GetByID(ctx, id)
}

func (r *TaskRepositoryImpl) Extend(ctx context.Context, id int64, length entities.Duration, now time.Time, policy entities.ExtendCompletedPolicy) (*entities.Task, error) {
	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		query := `SELECT is_complete FROM tasks WHERE id = ?`
		if tx.DriverName() == database.DriverPostgres {
			query += ` FOR UPDATE`
		}
		var complete bool
		if err := get(ctx, tx, &complete, query, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return entities.ErrTaskNotFound
			}
			return err
		}
		if complete && policy == entities.ExtendReject {
			return entities.ErrTaskAlreadyComplete
		}

		if _, err := exec(ctx, tx,
			`INSERT INTO task_extensions (task_id, length_seconds, created_at) VALUES (?, ?, ?)`,
			id, length, now.UTC(),
		); err != nil {
			return err
		}

		update := `UPDATE tasks SET time_remaining_seconds = time_remaining_seconds + ? WHERE id = ?`
		if complete && policy == entities.ExtendReopen {
			update = `UPDATE tasks SET time_remaining_seconds = time_remaining_seconds + ?,
				is_complete = FALSE, completed_at = NULL WHERE id = ?`
		}
		if _, err := exec(ctx, tx, update, length, id); err != nil {
			return err
		}

		if complete && policy == entities.ExtendReopen {
			return ensureQueued(ctx, tx, id)
		}
		return nil
	})
	if err != nil {
		return nil, storageError("extend task", err)
	}
	return r.GetByID(ctx, id)
}

func insertTask(ctx context.Context, tx *sqlx.Tx, task *entities.Task, materializedKey *string) error {
	query := `
		INSERT INTO tasks (title, description, time_created, original_length_seconds,
			time_remaining_seconds, is_complete, completed_at, source_block_id, materialized_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	id, err := insertReturningID(ctx, tx, query,
		task.Title, task.Description, task.TimeCreated.UTC(), task.OriginalLength,
		task.TimeRemaining, task.IsComplete, task.CompletedAt, task.SourceBlockID, materializedKey,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.ID = id
	return nil
}

func getTask(ctx context.Context, q sqlx.ExtContext, id int64) (*entities.Task, error) {
	var row taskRow
	if err := get(ctx, q, &row, taskSelect+` WHERE t.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, err
	}
	tasks := []*entities.Task{row.toEntity()}
	if err := loadChildren(ctx, q, tasks); err != nil {
		return nil, err
	}
	return tasks[0], nil
}

// loadChildren fills subtasks and extensions for every task in one query each.
func loadChildren(ctx context.Context, q sqlx.ExtContext, tasks []*entities.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, len(tasks))
	byID := make(map[int64]*entities.Task, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		byID[t.ID] = t
	}

	var subs []subTaskRow
	if err := selectIn(ctx, q, &subs,
		`SELECT id, task_id, description, completed FROM subtasks WHERE task_id IN (?) ORDER BY id`, ids,
	); err != nil {
		return fmt.Errorf("load subtasks: %w", err)
	}
	for _, s := range subs {
		t := byID[s.TaskID]
		t.SubTasks = append(t.SubTasks, entities.SubTask{
			ID: s.ID, TaskID: s.TaskID, Description: s.Description, Completed: s.Completed,
		})
	}

	var exts []extensionRow
	if err := selectIn(ctx, q, &exts,
		`SELECT id, task_id, length_seconds, created_at FROM task_extensions WHERE task_id IN (?) ORDER BY id`, ids,
	); err != nil {
		return fmt.Errorf("load extensions: %w", err)
	}
	for _, e := range exts {
		t := byID[e.TaskID]
		t.Extensions = append(t.Extensions, entities.Extension{
			ID: e.ID, TaskID: e.TaskID, Length: e.Length, CreatedAt: e.CreatedAt,
		})
	}
	return nil
}
