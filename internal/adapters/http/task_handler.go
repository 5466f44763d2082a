package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

// TaskHandler handles queue and timer requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask godoc
// @Summary Create a task at the end of the queue
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return errorResponse(h.logger, "Create task", err)
	}
	return c.JSON(http.StatusCreated, task)
}

// GetTask godoc
// @Summary Get task by ID
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return errorResponse(h.logger, "Get task", err)
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Removes the task with its subtasks and extensions and closes its queue gap
// @Tags tasks
// @Param id path int true "Task ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id); err != nil {
		return errorResponse(h.logger, "Delete task", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListIncompleteTasks godoc
// @Summary List pending tasks in queue order
// @Tags tasks
// @Produce json
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {object} PaginatedResponse[entities.Task]
// @Security BearerAuth
// @Router /tasks/incomplete [get]
func (h *TaskHandler) ListIncompleteTasks(c echo.Context) error {
	var page ports.Pagination
	if err := bindAndValidate(c, &page); err != nil {
		return err
	}
	page = page.Normalize()

	tasks, total, err := h.taskService.ListIncomplete(c.Request().Context(), page)
	if err != nil {
		return errorResponse(h.logger, "List tasks", err)
	}

	return c.JSON(http.StatusOK, PaginatedResponse[*entities.Task]{
		Data:   tasks,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// ReorderTasks godoc
// @Summary Reorder the queue
// @Description The given tasks take positions 1..N; the rest follow in their prior order
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.ReorderTasksRequest true "Task IDs in order"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/reorder [put]
func (h *TaskHandler) ReorderTasks(c echo.Context) error {
	var req ports.ReorderTasksRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.taskService.ReorderTasks(c.Request().Context(), req); err != nil {
		return errorResponse(h.logger, "Reorder tasks", err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Tasks reordered successfully"})
}

// ExtendTask godoc
// @Summary Add time to a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body ports.ExtendTaskRequest true "Extension length, HH:MM:SS or seconds"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/extend [post]
func (h *TaskHandler) ExtendTask(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.ExtendTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.ExtendTask(c.Request().Context(), id, req)
	if err != nil {
		return errorResponse(h.logger, "Extend task", err)
	}
	return c.JSON(http.StatusOK, task)
}

// DecrementTime godoc
// @Summary Take one tick off a task's timer
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} ports.TimerResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/decrement-time [put]
func (h *TaskHandler) DecrementTime(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	resp, err := h.taskService.DecrementTime(c.Request().Context(), id)
	if err != nil {
		return errorResponse(h.logger, "Decrement time", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetTotalTime godoc
// @Summary Original length plus extensions, in seconds
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/total-time [get]
func (h *TaskHandler) GetTotalTime(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	total, err := h.taskService.TotalTime(c.Request().Context(), id)
	if err != nil {
		return errorResponse(h.logger, "Get total time", err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"total_time": int64(total)})
}

// GetTimeRemaining godoc
// @Summary Remaining time in seconds
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/time-remaining [get]
func (h *TaskHandler) GetTimeRemaining(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	remaining, err := h.taskService.TimeRemaining(c.Request().Context(), id)
	if err != nil {
		return errorResponse(h.logger, "Get time remaining", err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"time_remaining": int64(remaining)})
}
