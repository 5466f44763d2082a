package services

import (
	"context"
	"fmt"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/config"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/infrastructure/metrics"
	"github.com/focusqueue/core/internal/ports"
)

// ActivityService decides what the user should be doing right now.
//
// Precedence, first match wins:
//  1. a current block that is not a work block (its task is materialized)
//  2. the next habit page while today's progress is below the page count
//  3. a current work block, when the queue has pending tasks
//  4. the queue
type ActivityService struct {
	blockRepo    ports.TimeBlockRepository
	taskRepo     ports.TaskRepository
	queueRepo    ports.QueueRepository
	progressRepo ports.ProgressRepository
	notifier     ports.ActivityNotifier
	clock        ports.Clock
	config       config.ResolverConfig
	metrics      *metrics.Recorder
	logger       *logger.Logger
}

// NewActivityService creates a new activity service. notifier and recorder
// may be nil.
func NewActivityService(
	blockRepo ports.TimeBlockRepository,
	taskRepo ports.TaskRepository,
	queueRepo ports.QueueRepository,
	progressRepo ports.ProgressRepository,
	notifier ports.ActivityNotifier,
	clock ports.Clock,
	cfg config.ResolverConfig,
	recorder *metrics.Recorder,
	logger *logger.Logger,
) *ActivityService {
	return &ActivityService{
		blockRepo:    blockRepo,
		taskRepo:     taskRepo,
		queueRepo:    queueRepo,
		progressRepo: progressRepo,
		notifier:     notifier,
		clock:        clock,
		config:       cfg,
		metrics:      recorder,
		logger:       logger.WithComponent("activity_service"),
	}
}

// Resolve computes the current activity and hands it to the notifier.
func (s *ActivityService) Resolve(ctx context.Context) (*entities.ActivityDescriptor, error) {
	activity, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	s.metrics.ActivityResolved(string(activity.Type))
	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, activity); err != nil {
			s.logger.Warnw("Failed to publish activity", "activity", activity.Type, "error", err)
		}
	}
	return activity, nil
}

func (s *ActivityService) resolve(ctx context.Context) (*entities.ActivityDescriptor, error) {
	now := s.clock.Now()
	date := entities.DayOf(now)
	at := entities.ClockTimeOf(now)

	blocks, err := s.blockRepo.ListCurrent(ctx, date, at)
	if err != nil {
		return nil, fmt.Errorf("failed to load current time blocks: %w", err)
	}

	var work *entities.TimeBlock
	for _, block := range blocks {
		if block.IsWork() {
			if work == nil {
				work = block
			}
			continue
		}
		if err := s.materialize(ctx, block); err != nil {
			return nil, err
		}
		return entities.EventActivity(block), nil
	}

	progress, err := s.progressRepo.GetOrCreate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily progress: %w", err)
	}
	if progress.CurrentPage < s.config.HabitPageCount {
		return entities.HabitPageActivity(progress.CurrentPage), nil
	}

	if work != nil {
		// Pending is counted before materializing, otherwise the block's own
		// task would always make the queue non-empty.
		pending, err := s.queueRepo.CountPending(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count pending tasks: %w", err)
		}
		if pending > 0 {
			if err := s.materialize(ctx, work); err != nil {
				return nil, err
			}
			return entities.EventActivity(work), nil
		}
	}

	return entities.QueueActivity(), nil
}

// materialize creates the block's task the first time the block is current.
// The remaining time is pro-rated to what is left of the block.
func (s *ActivityService) materialize(ctx context.Context, block *entities.TimeBlock) error {
	now := s.clock.Now()
	blockID := block.ID
	task := &entities.Task{
		Title:          block.Title,
		TimeCreated:    now,
		OriginalLength: block.Length(),
		TimeRemaining:  block.RemainingAt(entities.ClockTimeOf(now)),
		SourceBlockID:  &blockID,
	}
	if block.Description != nil {
		task.Description = *block.Description
	}

	created, isNew, err := s.taskRepo.Materialize(ctx, task, entities.MaterializeKey(s.config.MaterializeKey))
	if err != nil {
		return fmt.Errorf("failed to materialize task for block %d: %w", block.ID, err)
	}
	if isNew {
		s.metrics.TaskMaterialized()
		s.logger.Infow("Task materialized", "task_id", created.ID, "block_id", block.ID, "title", created.Title)
	}
	return nil
}

// SetPage records today's habit progress and resolves again.
func (s *ActivityService) SetPage(ctx context.Context, page int) (*entities.ActivityDescriptor, error) {
	if page < 0 {
		return nil, entities.NewError(entities.CodeValidation, "page_number must not be negative")
	}

	date := entities.DayOf(s.clock.Now())
	if _, err := s.progressRepo.SetPage(ctx, date, page); err != nil {
		return nil, fmt.Errorf("failed to set page: %w", err)
	}
	s.logger.Infow("Habit page set", "date", date, "page", page)

	return s.Resolve(ctx)
}
