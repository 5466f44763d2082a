// Package cache publishes resolved activities to whoever renders them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/config"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

const activityKey = "activity:current"

// NewClient creates a Redis client and performs a health check.
func NewClient(cfg config.RedisConfig) (*redislib.Client, error) {
	client := redislib.NewClient(&redislib.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// RedisNotifier caches the last activity and publishes it on a channel
// whenever it changes.
type RedisNotifier struct {
	client  *redislib.Client
	channel string
	ttl     time.Duration
	logger  *logger.Logger
}

// NewRedisNotifier creates a Redis-backed activity notifier.
func NewRedisNotifier(client *redislib.Client, channel string, ttl time.Duration, log *logger.Logger) *RedisNotifier {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisNotifier{
		client:  client,
		channel: channel,
		ttl:     ttl,
		logger:  log.WithComponent("activity_notifier"),
	}
}

func (n *RedisNotifier) Publish(ctx context.Context, activity *entities.ActivityDescriptor) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}

	previous, err := n.client.SetArgs(ctx, activityKey, payload, redislib.SetArgs{Get: true, TTL: n.ttl}).Result()
	if err != nil && err != redislib.Nil {
		return fmt.Errorf("cache activity: %w", err)
	}
	if err == nil && sameActivity(previous, activity) {
		return nil
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}
	n.logger.Debugw("Activity published", "channel", n.channel, "activity", activity.Type)
	return nil
}

// sameActivity reports whether the cached payload decodes to an activity
// equal to current. Undecodable payloads count as a change.
func sameActivity(cached string, current *entities.ActivityDescriptor) bool {
	var previous entities.ActivityDescriptor
	if err := json.Unmarshal([]byte(cached), &previous); err != nil {
		return false
	}
	return previous.Equal(current)
}

// Current returns the cached activity, or nil when nothing was published
// within the TTL.
func (n *RedisNotifier) Current(ctx context.Context) (*entities.ActivityDescriptor, error) {
	raw, err := n.client.Get(ctx, activityKey).Result()
	if err == redislib.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var activity entities.ActivityDescriptor
	if err := json.Unmarshal([]byte(raw), &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

var (
	_ ports.ActivityNotifier = (*RedisNotifier)(nil)
	_ ports.ActivityNotifier = (*MemoryNotifier)(nil)
)

// MemoryNotifier keeps the last activity in process and logs transitions.
type MemoryNotifier struct {
	logger *logger.Logger

	mu   sync.Mutex
	last *entities.ActivityDescriptor
	subs []chan *entities.ActivityDescriptor
}

// NewMemoryNotifier creates an in-process activity notifier.
func NewMemoryNotifier(log *logger.Logger) *MemoryNotifier {
	return &MemoryNotifier{logger: log.WithComponent("activity_notifier")}
}

func (n *MemoryNotifier) Publish(_ context.Context, activity *entities.ActivityDescriptor) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.last.Equal(activity) {
		return nil
	}
	previous := "none"
	if n.last != nil {
		previous = string(n.last.Type)
	}
	n.logger.LogActivityChange(previous, string(activity.Type), nil)
	n.last = activity

	for _, ch := range n.subs {
		select {
		case ch <- activity:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel that receives every change. Slow readers
// miss intermediate values.
func (n *MemoryNotifier) Subscribe() <-chan *entities.ActivityDescriptor {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan *entities.ActivityDescriptor, 1)
	n.subs = append(n.subs, ch)
	return ch
}

// Last returns the most recently published activity.
func (n *MemoryNotifier) Last() *entities.ActivityDescriptor {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}
