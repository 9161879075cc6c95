package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Bus interface {
	Publish(ctx context.Context, event models.Event) error
	Close() error
}

type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

var NewRedisClient = func(opts *redis.Options) RedisClient {
	return redis.NewClient(opts)
}

type redisBus struct {
	client  RedisClient
	channel string
}

func (b *redisBus) Publish(ctx context.Context, event models.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.client.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) Close() error {
	return b.client.Close()
}

type noopBus struct{}

func (noopBus) Publish(ctx context.Context, event models.Event) error {
	return nil
}

func (noopBus) Close() error {
	return nil
}

func NewNoopBus() Bus {
	return noopBus{}
}

func NewRedisBus(ctx context.Context, addr string, password string, db int, channel string) (Bus, error) {
	client := NewRedisClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisBus{client: client, channel: channel}, nil
}

// NewBus returns the redis bus when enabled, a no-op bus otherwise
func NewBus() Bus {
	if !app.Config.Redis.Enabled {
		log.Debug("[EVENTS] Redis disabled, events are not published")
		return NewNoopBus()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	bus, err := NewRedisBus(ctx, app.Config.Redis.Addr, app.Config.Redis.Password, app.Config.Redis.DB, app.Config.Redis.Channel)
	if err != nil {
		log.Fatal("[EVENTS] Error connecting to redis: ", err)
	}

	log.Info("[EVENTS] Publishing events to redis channel: ", app.Config.Redis.Channel)
	return bus
}

func NewEvent(eventType string, fundraiser string, actor string, amount uint64, total uint64) models.Event {
	return models.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Fundraiser: fundraiser,
		Actor:      actor,
		Amount:     amount,
		Total:      total,
		CreatedAt:  time.Now(),
	}
}
