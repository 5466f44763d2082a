package entities

import (
	"time"
)

// ModeWork is the time block mode that gates the work timer instead of
// interrupting it.
const ModeWork = "work"

// ModeEvent is the mode given to calendar events that carry no mode of their own.
const ModeEvent = "event"

// DateLayout is the layout used for calendar dates everywhere in storage and on the wire.
const DateLayout = "2006-01-02"

// TimeBlock is a scheduled interval of a single day, entered locally or
// pulled from the external calendar.
type TimeBlock struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Mode           string    `json:"mode"`
	Date           string    `json:"date"`
	StartTime      ClockTime `json:"start_time"`
	EndTime        ClockTime `json:"end_time"`
	Location       *string   `json:"location"`
	Description    *string   `json:"description"`
	Attendees      []string  `json:"attendees"`
	Status         *string   `json:"status"`
	ExternalSyncID *string   `json:"external_sync_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Task is a unit of queued work with a countdown.
type Task struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	TimeCreated    time.Time   `json:"time_created"`
	OriginalLength Duration    `json:"original_length"`
	TimeRemaining  Duration    `json:"time_remaining"`
	IsComplete     bool        `json:"is_complete"`
	CompletedAt    *time.Time  `json:"completed_at"`
	SourceBlockID  *int64      `json:"source_block_id,omitempty"`
	Order          *int        `json:"order,omitempty"`
	SubTasks       []SubTask   `json:"subtasks"`
	Extensions     []Extension `json:"extensions"`
}

// SubTask is a checklist item owned by a Task.
type SubTask struct {
	ID          int64  `json:"id"`
	TaskID      int64  `json:"task_id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Extension records extra time granted to a Task.
type Extension struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Length    Duration  `json:"extension_length"`
	CreatedAt time.Time `json:"extension_time"`
}

// TaskOrder is the queue position of a tracked task.
type TaskOrder struct {
	TaskID   int64 `json:"task_id" db:"task_id"`
	Position int   `json:"order" db:"position"`
}

// DailyProgress counts the habit pages viewed on a date.
type DailyProgress struct {
	Date        string `json:"date"`
	CurrentPage int    `json:"current_page"`
}

// Reminder is a free-form note that is bumped whenever it changes.
type Reminder struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	LastUpdated time.Time `json:"last_updated"`
}

// Goal is a note attached to the day it was set.
type Goal struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// Journal is a dated entry made of ordered sections.
type Journal struct {
	ID        int64            `json:"id"`
	ExactTime time.Time        `json:"date"`
	Sections  []JournalSection `json:"sections,omitempty"`
}

// JournalSection is one headed block of a journal.
type JournalSection struct {
	Header  string `json:"header"`
	Content string `json:"content"`
}

// CalendarEvent is the provider-neutral shape of an external calendar event.
type CalendarEvent struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Attendees   []string
	Mode        string
}

// Business logic methods for TimeBlock

// IsWork reports whether the block gates the work timer.
func (b *TimeBlock) IsWork() bool {
	return b.Mode == ModeWork
}

// Length is the scheduled length of the block.
func (b *TimeBlock) Length() Duration {
	return Duration(b.EndTime - b.StartTime)
}

// RemainingAt is the time left in the block at the given wall-clock time.
func (b *TimeBlock) RemainingAt(at ClockTime) Duration {
	if at >= b.EndTime {
		return 0
	}
	if at < b.StartTime {
		return b.Length()
	}
	return Duration(b.EndTime - at)
}

// HasExternalEvent reports whether the block is paired with a calendar event.
func (b *TimeBlock) HasExternalEvent() bool {
	return b.ExternalSyncID != nil && *b.ExternalSyncID != ""
}

// Validate checks the same-day range invariant.
func (b *TimeBlock) Validate() error {
	if b.Title == "" {
		return NewError(CodeValidation, "title is required")
	}
	if b.Mode == "" {
		return NewError(CodeValidation, "mode is required")
	}
	if _, err := time.Parse(DateLayout, b.Date); err != nil {
		return WrapError(CodeValidation, "invalid date", err)
	}
	if !b.StartTime.Valid() || !b.EndTime.ValidEnd() || b.StartTime >= b.EndTime {
		return ErrInvalidTimeRange
	}
	return nil
}

// Business logic methods for Task

// TotalTime is the original estimate plus every extension granted.
func (t *Task) TotalTime() Duration {
	total := t.OriginalLength
	for _, ext := range t.Extensions {
		total += ext.Length
	}
	return total
}

// DayOf returns the calendar date of t in its own location.
func DayOf(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay returns local midnight of t's date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
