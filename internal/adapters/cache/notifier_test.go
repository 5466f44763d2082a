package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
)

func TestMemoryNotifier_PublishesOnlyChanges(t *testing.T) {
	n := NewMemoryNotifier(logger.NewNop())
	updates := n.Subscribe()
	ctx := context.Background()

	require.NoError(t, n.Publish(ctx, entities.HabitPageActivity(0)))
	got := <-updates
	assert.Equal(t, entities.ActivityHabitPage, got.Type)

	require.NoError(t, n.Publish(ctx, entities.HabitPageActivity(0)))
	select {
	case <-updates:
		t.Fatal("unchanged activity was published again")
	default:
	}

	require.NoError(t, n.Publish(ctx, entities.QueueActivity()))
	got = <-updates
	assert.Equal(t, entities.ActivityQueue, got.Type)
	assert.Equal(t, entities.ActivityQueue, n.Last().Type)
}

func TestMemoryNotifier_PublishesEditedBlock(t *testing.T) {
	n := NewMemoryNotifier(logger.NewNop())
	updates := n.Subscribe()
	ctx := context.Background()

	require.NoError(t, n.Publish(ctx, entities.EventActivity(&entities.TimeBlock{ID: 7, Title: "Standup"})))
	<-updates

	require.NoError(t, n.Publish(ctx, entities.EventActivity(&entities.TimeBlock{ID: 7, Title: "Planning"})))
	select {
	case got := <-updates:
		assert.Equal(t, "Planning", got.EventInfo.Title)
	default:
		t.Fatal("edited block was not published")
	}
}

func TestActivityDescriptor_Equal(t *testing.T) {
	a := entities.EventActivity(&entities.TimeBlock{ID: 1})
	b := entities.EventActivity(&entities.TimeBlock{ID: 1})
	c := entities.EventActivity(&entities.TimeBlock{ID: 2})
	renamed := entities.EventActivity(&entities.TimeBlock{ID: 1, Title: "Renamed"})
	moved := entities.EventActivity(&entities.TimeBlock{ID: 1, EndTime: entities.NewClockTime(11, 0, 0)})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(renamed))
	assert.False(t, a.Equal(moved))
	assert.False(t, entities.HabitPageActivity(1).Equal(entities.HabitPageActivity(2)))
	assert.False(t, entities.QueueActivity().Equal(nil))
}

func newTestRedisNotifier(t *testing.T) (*RedisNotifier, *miniredis.Miniredis, *redislib.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisNotifier(client, "activity", time.Minute, logger.NewNop()), mr, client
}

func TestRedisNotifier_PublishesOnlyChanges(t *testing.T) {
	n, _, client := newTestRedisNotifier(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "activity")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	messages := sub.Channel()

	receive := func() *redislib.Message {
		select {
		case msg := <-messages:
			return msg
		case <-time.After(2 * time.Second):
			t.Fatal("activity was not published")
			return nil
		}
	}
	assertSilent := func() {
		select {
		case msg := <-messages:
			t.Fatalf("unchanged activity was published again: %s", msg.Payload)
		case <-time.After(200 * time.Millisecond):
		}
	}

	require.NoError(t, n.Publish(ctx, entities.HabitPageActivity(0)))
	assert.Contains(t, receive().Payload, `"habit_page"`)

	require.NoError(t, n.Publish(ctx, entities.HabitPageActivity(0)))
	assertSilent()

	require.NoError(t, n.Publish(ctx, entities.QueueActivity()))
	assert.Contains(t, receive().Payload, `"queue"`)
}

func TestRedisNotifier_PublishesEditedBlock(t *testing.T) {
	n, _, client := newTestRedisNotifier(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "activity")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	messages := sub.Channel()

	block := &entities.TimeBlock{ID: 1, Title: "Standup", Mode: "meeting", Date: "2026-03-02",
		StartTime: entities.NewClockTime(9, 0, 0), EndTime: entities.NewClockTime(9, 30, 0)}
	require.NoError(t, n.Publish(ctx, entities.EventActivity(block)))
	<-messages

	edited := *block
	edited.Title = "Planning"
	require.NoError(t, n.Publish(ctx, entities.EventActivity(&edited)))
	select {
	case msg := <-messages:
		assert.Contains(t, msg.Payload, "Planning")
	case <-time.After(2 * time.Second):
		t.Fatal("edited block was not published")
	}
}

func TestRedisNotifier_Current(t *testing.T) {
	n, mr, _ := newTestRedisNotifier(t)
	ctx := context.Background()

	got, err := n.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, n.Publish(ctx, entities.HabitPageActivity(3)))
	got, err = n.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entities.ActivityHabitPage, got.Type)
	require.NotNil(t, got.PageNumber)
	assert.Equal(t, 3, *got.PageNumber)

	mr.FastForward(2 * time.Minute)
	got, err = n.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
