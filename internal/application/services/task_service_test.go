package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/config"
	"github.com/focusqueue/core/internal/ports"
)

func (f *fixture) taskService(policy entities.ExtendCompletedPolicy) *TaskService {
	cfg := config.TimerConfig{DecrementUnit: time.Second, ExtendCompleted: string(policy)}
	return NewTaskService(f.tasks, f.queue, f.clock, cfg, nil, f.log)
}

func TestTaskService_TotalTimeRoundTrip(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService(entities.ExtendKeep)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, ports.CreateTaskRequest{
		Title:          "Write report",
		OriginalLength: 3600,
		SubTasks:       []ports.CreateSubTaskRequest{{Description: "outline"}, {Description: "draft"}},
	})
	require.NoError(t, err)
	assert.Len(t, task.SubTasks, 2)
	assert.Equal(t, 1, *task.Order)

	total, err := svc.TotalTime(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.Duration(3600), total)

	extended, err := svc.ExtendTask(ctx, task.ID, ports.ExtendTaskRequest{ExtensionLength: 600})
	require.NoError(t, err)
	assert.Len(t, extended.Extensions, 1)

	total, err = svc.TotalTime(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.Duration(4200), total)

	remaining, err := svc.TimeRemaining(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.Duration(4200), remaining)
}

func TestTaskService_DecrementToCompletion(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService(entities.ExtendKeep)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, ports.CreateTaskRequest{Title: "Tiny", OriginalLength: 2})
	require.NoError(t, err)

	resp, err := svc.DecrementTime(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.Duration(1), resp.TimeRemaining)
	assert.False(t, resp.IsComplete)
	assert.Equal(t, entities.Duration(2), resp.TotalTime)

	f.clock.Advance(time.Second)
	resp, err = svc.DecrementTime(ctx, task.ID)
	require.NoError(t, err)
	assert.Zero(t, resp.TimeRemaining)
	assert.True(t, resp.IsComplete)
	require.NotNil(t, resp.CompletedAt)

	_, err = svc.DecrementTime(ctx, task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskAlreadyComplete)

	_, err = svc.DecrementTime(ctx, 9999)
	assert.True(t, entities.IsCode(err, entities.CodeNotFound))

	tasks, total, err := svc.ListIncomplete(ctx, ports.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, total)
}

func TestTaskService_ExtendCompletedFollowsPolicy(t *testing.T) {
	tests := []struct {
		policy       entities.ExtendCompletedPolicy
		wantErr      bool
		wantComplete bool
		wantPending  int
	}{
		{policy: entities.ExtendKeep, wantComplete: true, wantPending: 0},
		{policy: entities.ExtendReopen, wantComplete: false, wantPending: 1},
		{policy: entities.ExtendReject, wantErr: true, wantPending: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			f := newFixture(t)
			svc := f.taskService(tt.policy)
			ctx := context.Background()

			task, err := svc.CreateTask(ctx, ports.CreateTaskRequest{Title: "Done soon", OriginalLength: 1})
			require.NoError(t, err)
			_, err = svc.DecrementTime(ctx, task.ID)
			require.NoError(t, err)

			extended, err := svc.ExtendTask(ctx, task.ID, ports.ExtendTaskRequest{ExtensionLength: 300})
			if tt.wantErr {
				assert.True(t, entities.IsCode(err, entities.CodeInvalidState))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantComplete, extended.IsComplete)
				assert.Equal(t, entities.Duration(300), extended.TimeRemaining)
				assert.Equal(t, entities.Duration(301), extended.TotalTime())
			}

			_, pending, err := svc.ListIncomplete(ctx, ports.Pagination{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPending, pending)
		})
	}
}

func TestTaskService_ReorderAndDelete(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService(entities.ExtendKeep)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"one", "two", "three", "four"} {
		task, err := svc.CreateTask(ctx, ports.CreateTaskRequest{Title: title, OriginalLength: 60})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	require.NoError(t, svc.ReorderTasks(ctx, ports.ReorderTasksRequest{TaskIDs: []int64{ids[2], ids[0], ids[1]}}))
	require.NoError(t, svc.DeleteTask(ctx, ids[0]))

	tasks, total, err := svc.ListIncomplete(ctx, ports.Pagination{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	var titles []string
	var orders []int
	for _, task := range tasks {
		titles = append(titles, task.Title)
		orders = append(orders, *task.Order)
	}
	assert.Equal(t, []string{"three", "two", "four"}, titles)
	assert.Equal(t, []int{1, 2, 3}, orders)

	err = svc.DeleteTask(ctx, ids[0])
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestTaskService_RejectsNonPositiveLengths(t *testing.T) {
	f := newFixture(t)
	svc := f.taskService(entities.ExtendKeep)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, ports.CreateTaskRequest{Title: "zero"})
	assert.True(t, entities.IsCode(err, entities.CodeValidation))

	task, err := svc.CreateTask(ctx, ports.CreateTaskRequest{Title: "ok", OriginalLength: 10})
	require.NoError(t, err)
	_, err = svc.ExtendTask(ctx, task.ID, ports.ExtendTaskRequest{ExtensionLength: -5})
	assert.True(t, entities.IsCode(err, entities.CodeValidation))
}
