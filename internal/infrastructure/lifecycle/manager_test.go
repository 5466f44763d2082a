package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ShutdownRunsHooksInReverse(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	m.Register("database", func(context.Context) error { order = append(order, "database"); return nil })
	m.Register("scheduler", func(context.Context) error { order = append(order, "scheduler"); return nil })
	m.Register("http", func(context.Context) error { order = append(order, "http"); return nil })
	m.Register("ignored", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http", "scheduler", "database"}, order)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Len(t, order, 3, "hooks run once")
}

func TestManager_ShutdownJoinsErrors(t *testing.T) {
	m := New(time.Second, nil)
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := false
	m.Register("a", func(context.Context) error { return errA })
	m.Register("ok", func(context.Context) error { ran = true; return nil })
	m.Register("b", func(context.Context) error { return errB })

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.True(t, ran)
}

func TestManager_ListenCancelsWithParent(t *testing.T) {
	m := New(time.Second, nil)
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := m.Listen(parent)
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
}
