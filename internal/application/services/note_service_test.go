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

func TestNoteService_LatestNotes(t *testing.T) {
	f := newFixture(t)
	svc := NewNoteService(f.notes, f.clock, f.log)
	ctx := context.Background()

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest.Reminder)
	assert.Nil(t, latest.Goal)

	_, err = svc.CreateReminder(ctx, ports.CreateNoteRequest{Content: "stretch"})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = svc.CreateReminder(ctx, ports.CreateNoteRequest{Content: "drink water"})
	require.NoError(t, err)

	goal, err := svc.CreateGoal(ctx, ports.CreateNoteRequest{Content: "ship the release"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", goal.Date)

	latest, err = svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "drink water", latest.Reminder.Content)
	assert.Equal(t, "ship the release", latest.Goal.Content)

	reminders, err := svc.ListReminders(ctx, ports.Pagination{Offset: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "stretch", reminders[0].Content)
}

func TestJournalService_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	svc := NewJournalService(f.journals, f.clock, f.log)
	ctx := context.Background()

	_, err := svc.CreateJournal(ctx, ports.CreateJournalRequest{})
	assert.True(t, entities.IsCode(err, entities.CodeValidation))

	created, err := svc.CreateJournal(ctx, ports.CreateJournalRequest{Sections: []ports.CreateJournalSectionRequest{
		{Header: "Wins", Content: "finished the report"},
		{Header: "Tomorrow", Content: "review"},
	}})
	require.NoError(t, err)

	got, err := svc.GetJournal(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "Wins", got.Sections[0].Header)
	assert.Equal(t, "Tomorrow", got.Sections[1].Header)

	list, err := svc.ListJournals(ctx, ports.Pagination{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GetJournal(ctx, 404)
	assert.ErrorIs(t, err, entities.ErrJournalNotFound)
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(testJWTConfig(), f.log)

	issued, err := auth.Issue("desk-widget", time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)

	claims, err := auth.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "desk-widget", claims.Subject)
	assert.Equal(t, issued.TokenID, claims.ID)

	expired, err := auth.Issue("old", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = auth.ValidateToken(expired.Token)
	assert.True(t, entities.IsCode(err, entities.CodeAuthRequired))

	_, err = auth.ValidateToken(issued.Token + "x")
	assert.True(t, entities.IsCode(err, entities.CodeAuthRequired))
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", ExpiresIn: 24 * time.Hour, Issuer: "focusqueue"}
}
