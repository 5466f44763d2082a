package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "focusqueue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Resolver.HabitPageCount)
	assert.Equal(t, "title", cfg.Resolver.MaterializeKey)
	assert.Equal(t, time.Second, cfg.Timer.DecrementUnit)
	assert.Equal(t, "keep", cfg.Timer.ExtendCompleted)
	assert.False(t, cfg.Calendar.Enabled)
	assert.False(t, cfg.JWT.AuthEnabled())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
resolver:
  habit_page_count: 5
  materialize_key: block
timer:
  decrement_unit: 1m
  extend_completed: reopen
calendar:
  time_zone: Europe/Berlin
jwt:
  secret: s3cret
redis:
  host: cache
  port: 6380
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Resolver.HabitPageCount)
	assert.Equal(t, "block", cfg.Resolver.MaterializeKey)
	assert.Equal(t, time.Minute, cfg.Timer.DecrementUnit)
	assert.Equal(t, "reopen", cfg.Timer.ExtendCompleted)
	assert.True(t, cfg.JWT.AuthEnabled())
	assert.Equal(t, "cache:6380", cfg.Redis.GetAddr())

	loc, err := cfg.Calendar.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"materialize key": "resolver:\n  materialize_key: name\n",
		"extend policy":   "timer:\n  extend_completed: maybe\n",
		"decrement unit":  "timer:\n  decrement_unit: 1500ms\n",
		"time zone":       "calendar:\n  time_zone: Mars/Olympus\n",
		"driver":          "database:\n  driver: oracle\n",
		"habit pages":     "resolver:\n  habit_page_count: -1\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HABIT_PAGE_COUNT", "7")
	t.Setenv("TIMER_EXTEND_COMPLETED", "reject")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Resolver.HabitPageCount)
	assert.Equal(t, "reject", cfg.Timer.ExtendCompleted)
}
