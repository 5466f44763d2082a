package repository

import (
	"context"
	"time"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/database"
	"github.com/focusqueue/core/internal/ports"
)

type reminderRow struct {
	ID          int64     `db:"id"`
	Content     string    `db:"content"`
	LastUpdated time.Time `db:"last_updated"`
}

type goalRow struct {
	ID      int64  `db:"id"`
	Content string `db:"content"`
	Date    string `db:"goal_date"`
}

// NoteRepositoryImpl implements the NoteRepository interface
type NoteRepositoryImpl struct {
	db *database.DB
}

// NewNoteRepository creates a new reminder and goal repository
func NewNoteRepository(db *database.DB) ports.NoteRepository {
	return &NoteRepositoryImpl{db: db}
}

func (r *NoteRepositoryImpl) CreateReminder(ctx context.Context, reminder *entities.Reminder) error {
	if reminder.LastUpdated.IsZero() {
		reminder.LastUpdated = time.Now()
	}
	id, err := insertReturningID(ctx, r.db.DB,
		`INSERT INTO reminders (content, last_updated) VALUES (?, ?) RETURNING id`,
		reminder.Content, reminder.LastUpdated.UTC(),
	)
	if err != nil {
		return storageError("create reminder", err)
	}
	reminder.ID = id
	return nil
}

func (r *NoteRepositoryImpl) ListReminders(ctx context.Context, offset, limit int) ([]*entities.Reminder, error) {
	offset, limit = page(offset, limit)
	var rows []reminderRow
	err := selectAll(ctx, r.db.DB, &rows, `
		SELECT id, content, last_updated FROM reminders
		ORDER BY last_updated DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, storageError("list reminders", err)
	}

	reminders := make([]*entities.Reminder, len(rows))
	for i, row := range rows {
		reminders[i] = &entities.Reminder{ID: row.ID, Content: row.Content, LastUpdated: row.LastUpdated}
	}
	return reminders, nil
}

func (r *NoteRepositoryImpl) CreateGoal(ctx context.Context, goal *entities.Goal) error {
	id, err := insertReturningID(ctx, r.db.DB,
		`INSERT INTO goals (content, goal_date) VALUES (?, ?) RETURNING id`,
		goal.Content, goal.Date,
	)
	if err != nil {
		return storageError("create goal", err)
	}
	goal.ID = id
	return nil
}

func (r *NoteRepositoryImpl) ListGoals(ctx context.Context, offset, limit int) ([]*entities.Goal, error) {
	offset, limit = page(offset, limit)
	var rows []goalRow
	err := selectAll(ctx, r.db.DB, &rows, `
		SELECT id, content, goal_date FROM goals
		ORDER BY goal_date DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, storageError("list goals", err)
	}

	goals := make([]*entities.Goal, len(rows))
	for i, row := range rows {
		goals[i] = &entities.Goal{ID: row.ID, Content: row.Content, Date: row.Date}
	}
	return goals, nil
}
