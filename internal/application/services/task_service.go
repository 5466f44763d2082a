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

// TaskService handles the work queue and the task timer
type TaskService struct {
	taskRepo  ports.TaskRepository
	queueRepo ports.QueueRepository
	clock     ports.Clock
	config    config.TimerConfig
	metrics   *metrics.Recorder
	logger    *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, queueRepo ports.QueueRepository, clock ports.Clock, cfg config.TimerConfig, recorder *metrics.Recorder, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		queueRepo: queueRepo,
		clock:     clock,
		config:    cfg,
		metrics:   recorder,
		logger:    logger.WithComponent("task_service"),
	}
}

// CreateTask creates a new task at the end of the queue
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	if req.OriginalLength <= 0 {
		return nil, entities.ErrInvalidDuration
	}

	task := &entities.Task{
		Title:          req.Title,
		Description:    req.Description,
		TimeCreated:    s.clock.Now(),
		OriginalLength: req.OriginalLength,
		TimeRemaining:  req.OriginalLength,
		SubTasks:       make([]entities.SubTask, 0, len(req.SubTasks)),
		Extensions:     []entities.Extension{},
	}
	for _, sub := range req.SubTasks {
		task.SubTasks = append(task.SubTasks, entities.SubTask{Description: sub.Description})
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", task.ID, "title", task.Title, "order", task.Order)
	return task, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, id int64) (*entities.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// DeleteTask deletes a task and closes its gap in the queue
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("Task deleted", "task_id", id)
	return nil
}

// ReorderTasks moves the given tasks to the front of the queue in order
func (s *TaskService) ReorderTasks(ctx context.Context, req ports.ReorderTasksRequest) error {
	if err := s.queueRepo.Reorder(ctx, req.TaskIDs); err != nil {
		return err
	}
	s.logger.Infow("Queue reordered", "task_ids", req.TaskIDs)
	return nil
}

// ListIncomplete returns a page of pending tasks and the pending total
func (s *TaskService) ListIncomplete(ctx context.Context, page ports.Pagination) ([]*entities.Task, int, error) {
	page = page.Normalize()

	tasks, err := s.queueRepo.ListPending(ctx, page.Offset, page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	total, err := s.queueRepo.CountPending(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return tasks, total, nil
}

// ExtendTask grants extra time. What happens to a completed task depends on
// the configured policy.
func (s *TaskService) ExtendTask(ctx context.Context, id int64, req ports.ExtendTaskRequest) (*entities.Task, error) {
	if req.ExtensionLength <= 0 {
		return nil, entities.ErrInvalidDuration
	}

	policy := entities.ExtendCompletedPolicy(s.config.ExtendCompleted)
	task, err := s.taskRepo.Extend(ctx, id, req.ExtensionLength, s.clock.Now(), policy)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task extended",
		"task_id", task.ID,
		"extension", req.ExtensionLength.String(),
		"time_remaining", task.TimeRemaining.String(),
		"is_complete", task.IsComplete,
	)
	return task, nil
}

// DecrementTime takes one unit off the task's timer
func (s *TaskService) DecrementTime(ctx context.Context, id int64) (*ports.TimerResponse, error) {
	unit := entities.DurationOf(s.config.DecrementUnit)
	if unit <= 0 {
		unit = 1
	}

	task, err := s.taskRepo.Decrement(ctx, id, unit, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.metrics.TimerDecremented(task.IsComplete)
	if task.IsComplete {
		s.logger.Infow("Task completed", "task_id", task.ID, "total_time", task.TotalTime().String())
	}
	return &ports.TimerResponse{Task: task, TotalTime: task.TotalTime()}, nil
}

// TotalTime is the original length plus every extension
func (s *TaskService) TotalTime(ctx context.Context, id int64) (entities.Duration, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return task.TotalTime(), nil
}

// TimeRemaining reads the task's countdown
func (s *TaskService) TimeRemaining(ctx context.Context, id int64) (entities.Duration, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return task.TimeRemaining, nil
}
