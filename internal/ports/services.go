package ports

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/focusqueue/core/internal/domain/entities"
)

// ActivityService resolves what the user should be doing now
type ActivityService interface {
	Resolve(ctx context.Context) (*entities.ActivityDescriptor, error)
	SetPage(ctx context.Context, page int) (*entities.ActivityDescriptor, error)
}

// DayPlanService manages today's time blocks and their calendar mirror
type DayPlanService interface {
	SyncToday(ctx context.Context) ([]*entities.TimeBlock, error)
	ListToday(ctx context.Context) ([]*entities.TimeBlock, error)
	GetCurrent(ctx context.Context) (*entities.TimeBlock, error)
	CreateTimeBlock(ctx context.Context, req CreateTimeBlockRequest) (*TimeBlockResult, error)
	UpdateTimeBlock(ctx context.Context, id int64, req UpdateTimeBlockRequest) (*TimeBlockResult, error)
	DeleteTimeBlock(ctx context.Context, id int64) (*TimeBlockResult, error)
}

// TaskService interface for queue and timer operations
type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, id int64) (*entities.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ReorderTasks(ctx context.Context, req ReorderTasksRequest) error
	ListIncomplete(ctx context.Context, page Pagination) ([]*entities.Task, int, error)
	ExtendTask(ctx context.Context, id int64, req ExtendTaskRequest) (*entities.Task, error)
	DecrementTime(ctx context.Context, id int64) (*TimerResponse, error)
	TotalTime(ctx context.Context, id int64) (entities.Duration, error)
	TimeRemaining(ctx context.Context, id int64) (entities.Duration, error)
}

// NoteService interface for reminders and goals
type NoteService interface {
	CreateReminder(ctx context.Context, req CreateNoteRequest) (*entities.Reminder, error)
	ListReminders(ctx context.Context, page Pagination) ([]*entities.Reminder, error)
	CreateGoal(ctx context.Context, req CreateNoteRequest) (*entities.Goal, error)
	ListGoals(ctx context.Context, page Pagination) ([]*entities.Goal, error)
	Latest(ctx context.Context) (*LatestNotes, error)
}

// JournalService interface for journal operations
type JournalService interface {
	CreateJournal(ctx context.Context, req CreateJournalRequest) (*entities.Journal, error)
	GetJournal(ctx context.Context, id int64) (*entities.Journal, error)
	ListJournals(ctx context.Context, page Pagination) ([]*entities.Journal, error)
}

// Collaborators

// Clock supplies the current instant in the configured time zone
type Clock interface {
	Now() time.Time
}

// CalendarGateway talks to the external calendar provider
type CalendarGateway interface {
	ListEvents(ctx context.Context, from, to time.Time) ([]entities.CalendarEvent, error)
	InsertEvent(ctx context.Context, block *entities.TimeBlock) (string, error)
	UpdateEvent(ctx context.Context, eventID string, block *entities.TimeBlock) error
	// DeleteEvent returns entities.ErrExternalEventGone when the provider no
	// longer knows the event.
	DeleteEvent(ctx context.Context, eventID string) error
}

// CredentialSupplier hands out a usable calendar credential or
// entities.ErrAuthRequired. It never runs an interactive consent flow.
type CredentialSupplier interface {
	GetValidCredential(ctx context.Context) (*oauth2.Token, error)
}

// ActivityNotifier pushes resolved activities to interested callers
type ActivityNotifier interface {
	Publish(ctx context.Context, activity *entities.ActivityDescriptor) error
}

// Request/Response Types

// Pagination is shared by every list endpoint
type Pagination struct {
	Offset int `query:"offset" validate:"min=0"`
	Limit  int `query:"limit" validate:"min=0,max=500"`
}

// Normalize applies the default page size
func (p Pagination) Normalize() Pagination {
	if p.Limit == 0 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Day plan related types
type CreateTimeBlockRequest struct {
	Title       string             `json:"title" validate:"required,max=500"`
	Mode        string             `json:"mode" validate:"omitempty,max=50"`
	StartTime   entities.ClockTime `json:"start_time"`
	EndTime     entities.ClockTime `json:"end_time"`
	Location    *string            `json:"location" validate:"omitempty,max=500"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Attendees   []string           `json:"attendees" validate:"omitempty,dive,required,max=320"`
	Status      *string            `json:"status" validate:"omitempty,max=50"`
}

type UpdateTimeBlockRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=1,max=500"`
	Mode        *string             `json:"mode" validate:"omitempty,min=1,max=50"`
	StartTime   *entities.ClockTime `json:"start_time"`
	EndTime     *entities.ClockTime `json:"end_time"`
	Location    *string             `json:"location" validate:"omitempty,max=500"`
	Description *string             `json:"description" validate:"omitempty,max=2000"`
	Attendees   []string            `json:"attendees" validate:"omitempty,dive,required,max=320"`
	Status      *string             `json:"status" validate:"omitempty,max=50"`
}

// TimeBlockResult carries a committed local change and, when the calendar
// push failed, the reason.
type TimeBlockResult struct {
	Block       *entities.TimeBlock `json:"time_block,omitempty"`
	SyncWarning string              `json:"sync_warning,omitempty"`
}

// Task related types
type CreateSubTaskRequest struct {
	Description string `json:"description" validate:"required,max=1000"`
}

type CreateTaskRequest struct {
	Title          string                 `json:"title" validate:"required,max=500"`
	Description    string                 `json:"description" validate:"max=2000"`
	OriginalLength entities.Duration      `json:"original_length" validate:"gt=0"`
	SubTasks       []CreateSubTaskRequest `json:"subtasks" validate:"omitempty,dive"`
}

type ReorderTasksRequest struct {
	TaskIDs []int64 `json:"task_ids" validate:"required,dive,gt=0"`
}

type ExtendTaskRequest struct {
	ExtensionLength entities.Duration `json:"extension_length" validate:"gt=0"`
}

// TimerResponse is a task after a timer tick
type TimerResponse struct {
	*entities.Task
	TotalTime entities.Duration `json:"total_time"`
}

// Note related types
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type LatestNotes struct {
	Reminder *entities.Reminder `json:"reminder"`
	Goal     *entities.Goal     `json:"goal"`
}

// Journal related types
type CreateJournalSectionRequest struct {
	Header  string `json:"header" validate:"required,max=200"`
	Content string `json:"content" validate:"max=20000"`
}

type CreateJournalRequest struct {
	Sections []CreateJournalSectionRequest `json:"sections" validate:"required,min=1,dive"`
}
