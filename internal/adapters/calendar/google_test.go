package calendar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
)

type staticCredentials struct {
	err error
}

func (s staticCredentials) GetValidCredential(context.Context) (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: "test-token", Expiry: time.Now().Add(time.Hour)}, nil
}

type fakeCalendar struct {
	mu       sync.Mutex
	requests []string
	inserted map[string]interface{}
}

func (f *fakeCalendar) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
			assert.Equal(t, "startTime", r.URL.Query().Get("orderBy"))
			_, _ = io.WriteString(w, `{"items": [
				{"id": "evt-1", "summary": "Standup", "status": "confirmed",
				 "start": {"dateTime": "2026-03-02T09:00:00Z"}, "end": {"dateTime": "2026-03-02T09:30:00Z"},
				 "attendees": [{"email": "ana@example.com"}],
				 "extendedProperties": {"private": {"mode": "work"}}},
				{"id": "evt-2", "summary": "Holiday", "start": {"date": "2026-03-02"}, "end": {"date": "2026-03-03"}},
				{"id": "evt-3", "summary": "Dropped", "status": "cancelled",
				 "start": {"dateTime": "2026-03-02T11:00:00Z"}, "end": {"dateTime": "2026-03-02T12:00:00Z"}},
				{"id": "evt-4", "summary": "Lunch",
				 "start": {"dateTime": "2026-03-02T12:00:00Z"}, "end": {"dateTime": "2026-03-02T13:00:00Z"}},
				{"id": "evt-5", "summary": "Garbled",
				 "start": {"dateTime": "half past nine"}, "end": {"dateTime": "2026-03-02T10:00:00Z"}},
				{"id": "evt-6", "summary": "Open ended", "start": {"dateTime": "2026-03-02T15:00:00Z"}}
			]}`)
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			f.mu.Lock()
			f.inserted = map[string]interface{}{}
			_ = json.Unmarshal(body, &f.inserted)
			f.mu.Unlock()
			_, _ = io.WriteString(w, `{"id": "created-1"}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/calendars/primary/events/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/calendars/primary/events/gone" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error": {"code": 404, "message": "Not Found"}}`)
			return
		}
		if r.URL.Path == "/calendars/primary/events/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error": {"code": 500, "message": "backend error"}}`)
			return
		}
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = io.WriteString(w, `{"id": "evt-1"}`)
	})
	return mux
}

func (f *fakeCalendar) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func newTestGateway(t *testing.T) (*GoogleGateway, *fakeCalendar) {
	t.Helper()
	return newObservedGateway(t, logger.NewNop())
}

func newObservedGateway(t *testing.T, log *logger.Logger) (*GoogleGateway, *fakeCalendar) {
	t.Helper()
	fake := &fakeCalendar{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	gw := NewGoogleGateway(staticCredentials{}, "primary", time.UTC, log,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	return gw, fake
}

func TestGoogleGateway_ListEvents(t *testing.T) {
	gw, _ := newTestGateway(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	events, err := gw.ListEvents(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, entities.ModeWork, events[0].Mode)
	assert.Equal(t, []string{"ana@example.com"}, events[0].Attendees)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), events[0].Start)

	assert.True(t, events[1].AllDay)

	assert.Equal(t, "Lunch", events[2].Summary)
	assert.Equal(t, entities.ModeEvent, events[2].Mode)
}

func TestGoogleGateway_ListEventsSkipsMalformedEvents(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	gw, _ := newObservedGateway(t, &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	events, err := gw.ListEvents(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)

	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"evt-1", "evt-2", "evt-4"}, ids)

	skipped := logs.FilterMessage("Skipping malformed calendar event").All()
	require.Len(t, skipped, 2)
	assert.Equal(t, "evt-5", skipped[0].ContextMap()["event_id"])
	assert.Equal(t, "evt-6", skipped[1].ContextMap()["event_id"])
}

func TestGoogleGateway_InsertSendsModeAndTimes(t *testing.T) {
	gw, fake := newTestGateway(t)
	loc := "Room 1"

	id, err := gw.InsertEvent(context.Background(), &entities.TimeBlock{
		Title:     "Focus",
		Mode:      entities.ModeWork,
		Date:      "2026-03-02",
		StartTime: entities.NewClockTime(10, 0, 0),
		EndTime:   entities.NewClockTime(11, 0, 0),
		Location:  &loc,
		Attendees: []string{"li@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "created-1", id)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "Focus", fake.inserted["summary"])
	assert.Equal(t, "Room 1", fake.inserted["location"])
	start := fake.inserted["start"].(map[string]interface{})
	assert.Equal(t, "2026-03-02T10:00:00Z", start["dateTime"])
	assert.Equal(t, "UTC", start["timeZone"])
	props := fake.inserted["extendedProperties"].(map[string]interface{})["private"].(map[string]interface{})
	assert.Equal(t, "work", props["mode"])
}

func TestGoogleGateway_DeleteAndUpdate(t *testing.T) {
	gw, fake := newTestGateway(t)
	ctx := context.Background()
	block := &entities.TimeBlock{
		Title: "Focus", Mode: entities.ModeWork, Date: "2026-03-02",
		StartTime: entities.NewClockTime(10, 0, 0), EndTime: entities.NewClockTime(11, 0, 0),
	}

	require.NoError(t, gw.DeleteEvent(ctx, "evt-1"))
	assert.ErrorIs(t, gw.DeleteEvent(ctx, "gone"), entities.ErrExternalEventGone)

	err := gw.DeleteEvent(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrExternalEventGone)

	require.NoError(t, gw.UpdateEvent(ctx, "evt-1", block))
	assert.ErrorIs(t, gw.UpdateEvent(ctx, "gone", block), entities.ErrExternalEventGone)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.requests, "PATCH /calendars/primary/events/evt-1")
	assert.Contains(t, fake.requests, "DELETE /calendars/primary/events/evt-1")
}

func TestGoogleGateway_AuthRequiredSkipsNetwork(t *testing.T) {
	fake := &fakeCalendar{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	gw := NewGoogleGateway(staticCredentials{err: entities.ErrAuthRequired}, "primary", time.UTC, logger.NewNop(),
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))

	_, err := gw.ListEvents(context.Background(), time.Now(), time.Now().Add(time.Hour))
	assert.True(t, entities.IsCode(err, entities.CodeAuthRequired))
	assert.Empty(t, fake.requests)
}

func TestFileCredentialSupplier(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token.json")
	supplier := NewFileCredentialSupplier(filepath.Join(dir, "credentials.json"), tokenFile, logger.NewNop())
	ctx := context.Background()

	_, err := supplier.GetValidCredential(ctx)
	assert.True(t, entities.IsCode(err, entities.CodeAuthRequired), "missing token file")

	require.NoError(t, saveToken(tokenFile, &oauth2.Token{AccessToken: "abc", Expiry: time.Now().Add(time.Hour)}))
	tok, err := supplier.GetValidCredential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)

	require.NoError(t, saveToken(tokenFile, &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Hour)}))
	_, err = supplier.GetValidCredential(ctx)
	assert.True(t, entities.IsCode(err, entities.CodeAuthRequired), "expired without refresh token")

	require.NoError(t, os.WriteFile(tokenFile, []byte("not json"), 0o600))
	_, err = supplier.GetValidCredential(ctx)
	assert.True(t, entities.IsCode(err, entities.CodeAuthRequired), "corrupt token file")
}
