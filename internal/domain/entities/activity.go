package entities

import "slices"

// ActivityType tags the variant held by an ActivityDescriptor.
type ActivityType string

const (
	ActivityEvent     ActivityType = "event"
	ActivityHabitPage ActivityType = "habit_page"
	ActivityQueue     ActivityType = "queue"
)

// ActivityDescriptor answers "what should be on screen right now".
// Exactly one of PageNumber and EventInfo is set for the event and habit
// page variants; neither is set for the queue.
type ActivityDescriptor struct {
	Type       ActivityType `json:"activity_type"`
	PageNumber *int         `json:"page_number,omitempty"`
	EventInfo  *TimeBlock   `json:"event_info,omitempty"`
}

// EventActivity points the caller at a time block.
func EventActivity(block *TimeBlock) *ActivityDescriptor {
	return &ActivityDescriptor{Type: ActivityEvent, EventInfo: block}
}

// HabitPageActivity points the caller at a habit page.
func HabitPageActivity(page int) *ActivityDescriptor {
	return &ActivityDescriptor{Type: ActivityHabitPage, PageNumber: &page}
}

// QueueActivity points the caller at the work queue.
func QueueActivity() *ActivityDescriptor {
	return &ActivityDescriptor{Type: ActivityQueue}
}

// Equal compares two descriptors by variant and full payload, so an edited
// block counts as a change even when its ID is the same.
func (a *ActivityDescriptor) Equal(other *ActivityDescriptor) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.Type != other.Type {
		return false
	}
	switch a.Type {
	case ActivityHabitPage:
		return a.PageNumber != nil && other.PageNumber != nil && *a.PageNumber == *other.PageNumber
	case ActivityEvent:
		return a.EventInfo != nil && other.EventInfo != nil && a.EventInfo.sameContent(other.EventInfo)
	default:
		return true
	}
}

func (b *TimeBlock) sameContent(o *TimeBlock) bool {
	return b.ID == o.ID &&
		b.Title == o.Title &&
		b.Mode == o.Mode &&
		b.Date == o.Date &&
		b.StartTime == o.StartTime &&
		b.EndTime == o.EndTime &&
		equalPtr(b.Location, o.Location) &&
		equalPtr(b.Description, o.Description) &&
		equalPtr(b.Status, o.Status) &&
		equalPtr(b.ExternalSyncID, o.ExternalSyncID) &&
		slices.Equal(b.Attendees, o.Attendees) &&
		b.UpdatedAt.Equal(o.UpdatedAt)
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// MaterializeKey selects how a time block is matched to an existing task.
type MaterializeKey string

const (
	MaterializeByTitle MaterializeKey = "title"
	MaterializeByBlock MaterializeKey = "block"
)

// ExtendCompletedPolicy decides what extending a completed task does.
type ExtendCompletedPolicy string

const (
	// ExtendKeep records the extension and adds remaining time, leaving the task complete.
	ExtendKeep ExtendCompletedPolicy = "keep"
	// ExtendReopen records the extension and returns the task to the queue.
	ExtendReopen ExtendCompletedPolicy = "reopen"
	// ExtendReject refuses to extend a completed task.
	ExtendReject ExtendCompletedPolicy = "reject"
)
