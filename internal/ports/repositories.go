package ports

import (
	"context"
	"time"

	"github.com/focusqueue/core/internal/domain/entities"
)

// TimeBlockRepository defines the interface for day plan data operations
type TimeBlockRepository interface {
	Create(ctx context.Context, block *entities.TimeBlock) error
	// CreateFromCalendar stores a block pulled from the calendar. It reports
	// false when a block with the same external id already exists.
	CreateFromCalendar(ctx context.Context, block *entities.TimeBlock) (bool, error)
	GetByID(ctx context.Context, id int64) (*entities.TimeBlock, error)
	Update(ctx context.Context, block *entities.TimeBlock) error
	Delete(ctx context.Context, id int64) error
	ListByDate(ctx context.Context, date string) ([]*entities.TimeBlock, error)
	// ListCurrent returns every block of date containing at, by start time.
	ListCurrent(ctx context.Context, date string, at entities.ClockTime) ([]*entities.TimeBlock, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	// Create stores the task with its subtasks and appends it to the queue.
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id int64) (*entities.Task, error)
	// Delete removes the task, its children and its queue entry.
	Delete(ctx context.Context, id int64) error
	// Materialize creates a task for a time block unless one already exists
	// under the given key policy. It reports whether a task was created.
	Materialize(ctx context.Context, task *entities.Task, by entities.MaterializeKey) (*entities.Task, bool, error)
	// Decrement atomically subtracts unit from the remaining time and
	// completes the task when it reaches zero.
	Decrement(ctx context.Context, id int64, unit entities.Duration, now time.Time) (*entities.Task, error)
	Extend(ctx context.Context, id int64, length entities.Duration, now time.Time, policy entities.ExtendCompletedPolicy) (*entities.Task, error)
}

// QueueRepository defines the interface for the task order relation
type QueueRepository interface {
	Append(ctx context.Context, taskID int64) (int, error)
	Remove(ctx context.Context, taskID int64) error
	Reorder(ctx context.Context, taskIDs []int64) error
	ListPending(ctx context.Context, offset, limit int) ([]*entities.Task, error)
	CountPending(ctx context.Context) (int, error)
	Orders(ctx context.Context) ([]entities.TaskOrder, error)
}

// ProgressRepository defines the interface for habit page progress
type ProgressRepository interface {
	GetOrCreate(ctx context.Context, date string) (*entities.DailyProgress, error)
	SetPage(ctx context.Context, date string, page int) (*entities.DailyProgress, error)
}

// NoteRepository defines the interface for reminders and goals
type NoteRepository interface {
	CreateReminder(ctx context.Context, reminder *entities.Reminder) error
	ListReminders(ctx context.Context, offset, limit int) ([]*entities.Reminder, error)
	CreateGoal(ctx context.Context, goal *entities.Goal) error
	ListGoals(ctx context.Context, offset, limit int) ([]*entities.Goal, error)
}

// JournalRepository defines the interface for journal data operations
type JournalRepository interface {
	Create(ctx context.Context, journal *entities.Journal) error
	GetByID(ctx context.Context, id int64) (*entities.Journal, error)
	List(ctx context.Context, offset, limit int) ([]*entities.Journal, error)
}
