package services

import (
	"context"
	"fmt"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

// NoteService handles reminders and daily goals
type NoteService struct {
	noteRepo ports.NoteRepository
	clock    ports.Clock
	logger   *logger.Logger
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo ports.NoteRepository, clock ports.Clock, logger *logger.Logger) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		clock:    clock,
		logger:   logger.WithComponent("note_service"),
	}
}

func (s *NoteService) CreateReminder(ctx context.Context, req ports.CreateNoteRequest) (*entities.Reminder, error) {
	reminder := &entities.Reminder{Content: req.Content, LastUpdated: s.clock.Now()}
	if err := s.noteRepo.CreateReminder(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	s.logger.Infow("Reminder created", "reminder_id", reminder.ID)
	return reminder, nil
}

func (s *NoteService) ListReminders(ctx context.Context, page ports.Pagination) ([]*entities.Reminder, error) {
	page = page.Normalize()
	return s.noteRepo.ListReminders(ctx, page.Offset, page.Limit)
}

// CreateGoal stores a goal dated today
func (s *NoteService) CreateGoal(ctx context.Context, req ports.CreateNoteRequest) (*entities.Goal, error) {
	goal := &entities.Goal{Content: req.Content, Date: entities.DayOf(s.clock.Now())}
	if err := s.noteRepo.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	s.logger.Infow("Goal created", "goal_id", goal.ID, "date", goal.Date)
	return goal, nil
}

func (s *NoteService) ListGoals(ctx context.Context, page ports.Pagination) ([]*entities.Goal, error) {
	page = page.Normalize()
	return s.noteRepo.ListGoals(ctx, page.Offset, page.Limit)
}

// Latest returns the newest reminder and goal; either may be nil
func (s *NoteService) Latest(ctx context.Context) (*ports.LatestNotes, error) {
	latest := &ports.LatestNotes{}

	reminders, err := s.noteRepo.ListReminders(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(reminders) > 0 {
		latest.Reminder = reminders[0]
	}

	goals, err := s.noteRepo.ListGoals(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(goals) > 0 {
		latest.Goal = goals[0]
	}
	return latest, nil
}
