package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusqueue/core/internal/adapters/repository"
	"github.com/focusqueue/core/internal/application/services"
	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/config"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
	"github.com/focusqueue/core/internal/testutil"
)

type downGateway struct{}

func (downGateway) ListEvents(context.Context, time.Time, time.Time) ([]entities.CalendarEvent, error) {
	return nil, errors.New("connection refused")
}

func (downGateway) InsertEvent(context.Context, *entities.TimeBlock) (string, error) {
	return "", entities.ErrAuthRequired
}

func (downGateway) UpdateEvent(context.Context, string, *entities.TimeBlock) error {
	return errors.New("connection refused")
}

func (downGateway) DeleteEvent(context.Context, string) error {
	return errors.New("connection refused")
}

func newTestAPI(t *testing.T, gateway ports.CalendarGateway) *echo.Echo {
	t.Helper()

	db := testutil.NewDB(t)
	log := logger.NewNop()
	clock := testutil.At(2026, time.March, 2, 9, 15, 0)

	blocks := repository.NewTimeBlockRepository(db)
	tasks := repository.NewTaskRepository(db)
	queue := repository.NewQueueRepository(db)

	activity := services.NewActivityService(blocks, tasks, queue, repository.NewProgressRepository(db), nil, clock,
		config.ResolverConfig{HabitPageCount: 3, MaterializeKey: string(entities.MaterializeByTitle)}, nil, log)

	handlers := &Handlers{
		Activity: NewActivityHandler(activity, log),
		DayPlan:  NewDayPlanHandler(services.NewDayPlanService(blocks, gateway, clock, nil, log), log),
		Task: NewTaskHandler(services.NewTaskService(tasks, queue, clock,
			config.TimerConfig{DecrementUnit: time.Second, ExtendCompleted: string(entities.ExtendKeep)}, nil, log), log),
		Note:    NewNoteHandler(services.NewNoteService(repository.NewNoteRepository(db), clock, log), log),
		Journal: NewJournalHandler(services.NewJournalService(repository.NewJournalRepository(db), clock, log), log),
	}

	e := echo.New()
	e.Validator = NewValidator()
	handlers.Register(e.Group("/api/v1"))
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestTaskRoutes_Lifecycle(t *testing.T) {
	e := newTestAPI(t, nil)

	rec := do(t, e, http.MethodPost, "/api/v1/tasks", `{"title":"write report","original_length":"00:30:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "00:30:00", created["time_remaining"])
	id := int64(created["id"].(float64))
	path := "/api/v1/tasks/" + jsonInt(id)

	rec = do(t, e, http.MethodPost, path+"/extend", `{"extension_length":600}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodGet, path+"/total-time", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2400), decode(t, rec)["total_time"])

	rec = do(t, e, http.MethodPut, path+"/decrement-time", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tick := decode(t, rec)
	assert.Equal(t, "00:39:59", tick["time_remaining"])
	assert.Equal(t, "00:40:00", tick["total_time"])

	rec = do(t, e, http.MethodGet, path+"/time-remaining", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2399), decode(t, rec)["time_remaining"])

	rec = do(t, e, http.MethodGet, "/api/v1/tasks/incomplete?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	assert.Equal(t, float64(1), page["total"])
	assert.Equal(t, float64(10), page["limit"])

	rec = do(t, e, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec)["error"])
}

func TestTaskRoutes_RejectsBadInput(t *testing.T) {
	e := newTestAPI(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"missing title", http.MethodPost, "/api/v1/tasks", `{"original_length":60}`, http.StatusBadRequest},
		{"zero length", http.MethodPost, "/api/v1/tasks", `{"title":"x","original_length":0}`, http.StatusBadRequest},
		{"malformed length", http.MethodPost, "/api/v1/tasks", `{"title":"x","original_length":"soon"}`, http.StatusBadRequest},
		{"non numeric id", http.MethodGet, "/api/v1/tasks/abc", "", http.StatusBadRequest},
		{"unknown task", http.MethodPut, "/api/v1/tasks/42/decrement-time", "", http.StatusNotFound},
		{"reorder unknown task", http.MethodPut, "/api/v1/tasks/reorder", `{"task_ids":[42]}`, http.StatusNotFound},
		{"limit too large", http.MethodGet, "/api/v1/tasks/incomplete?limit=10000", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestActivityRoutes(t *testing.T) {
	e := newTestAPI(t, nil)

	rec := do(t, e, http.MethodGet, "/api/v1/current-activity", "")
	require.Equal(t, http.StatusOK, rec.Code)
	activity := decode(t, rec)
	assert.Equal(t, "habit_page", activity["activity_type"])
	assert.Equal(t, float64(0), activity["page_number"])

	rec = do(t, e, http.MethodPut, "/api/v1/current-activity/set-page", `{"page_number":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "queue", decode(t, rec)["activity_type"])

	rec = do(t, e, http.MethodPut, "/api/v1/current-activity/set-page", `{"page_number":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/v1/current-activity/set-page", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDayPlanRoutes_WithoutCalendar(t *testing.T) {
	e := newTestAPI(t, nil)

	rec := do(t, e, http.MethodPost, "/api/v1/dayplans", `{"title":"standup","start_time":"09:00","end_time":"10:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decode(t, rec)
	assert.Empty(t, result["sync_warning"])
	block := result["time_block"].(map[string]interface{})
	assert.Equal(t, "event", block["mode"])
	assert.Equal(t, "2026-03-02", block["date"])

	rec = do(t, e, http.MethodGet, "/api/v1/dayplans/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "standup", decode(t, rec)["title"])

	rec = do(t, e, http.MethodGet, "/api/v1/current-activity", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "event", decode(t, rec)["activity_type"])

	rec = do(t, e, http.MethodPost, "/api/v1/dayplans", `{"title":"backwards","start_time":"11:00","end_time":"10:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/dayplans/sync", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestDayPlanRoutes_UpdateValidation(t *testing.T) {
	e := newTestAPI(t, nil)

	rec := do(t, e, http.MethodPost, "/api/v1/dayplans", `{"title":"focus","mode":"work","start_time":"13:00","end_time":"15:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	path := "/api/v1/dayplans/" + jsonInt(int64(decode(t, rec)["time_block"].(map[string]interface{})["id"].(float64)))

	rec = do(t, e, http.MethodPatch, path, `{"mode":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION", decode(t, rec)["error"])

	rec = do(t, e, http.MethodPatch, path, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPatch, path, `{"mode":"meeting","end_time":"24:00"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	block := decode(t, rec)["time_block"].(map[string]interface{})
	assert.Equal(t, "meeting", block["mode"])
	assert.Equal(t, "24:00:00", block["end_time"])
}

func TestDayPlanRoutes_CalendarFailures(t *testing.T) {
	e := newTestAPI(t, downGateway{})

	rec := do(t, e, http.MethodPost, "/api/v1/dayplans/sync", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "EXTERNAL_SYNC", decode(t, rec)["error"])

	rec = do(t, e, http.MethodPost, "/api/v1/dayplans", `{"title":"focus","mode":"work","start_time":"13:00","end_time":"15:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	result := decode(t, rec)
	assert.Contains(t, result["sync_warning"], "calendar insert skipped")
	id := int64(result["time_block"].(map[string]interface{})["id"].(float64))

	rec = do(t, e, http.MethodPatch, "/api/v1/dayplans/"+jsonInt(id), `{"title":"deep focus"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/dayplans", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodDelete, "/api/v1/dayplans/"+jsonInt(id), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNoteAndJournalRoutes(t *testing.T) {
	e := newTestAPI(t, nil)

	rec := do(t, e, http.MethodPost, "/api/v1/reminders", `{"content":"water the plants"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, e, http.MethodPost, "/api/v1/goals", `{"content":"ship it"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, e, http.MethodPost, "/api/v1/goals", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/notes/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	latest := decode(t, rec)
	assert.Equal(t, "water the plants", latest["reminder"].(map[string]interface{})["content"])
	assert.Equal(t, "ship it", latest["goal"].(map[string]interface{})["content"])

	rec = do(t, e, http.MethodPost, "/api/v1/journals", `{"sections":[{"header":"Morning","content":"slept well"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := int64(decode(t, rec)["id"].(float64))

	rec = do(t, e, http.MethodGet, "/api/v1/journals/"+jsonInt(id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	sections := decode(t, rec)["sections"].([]interface{})
	assert.Len(t, sections, 1)

	rec = do(t, e, http.MethodPost, "/api/v1/journals", `{"sections":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/journals/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusOf(entities.ErrTaskAlreadyComplete))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(entities.ErrAuthRequired))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("disk full")))
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
