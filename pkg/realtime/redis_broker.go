package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2/log"
)

var ErrBrokerClosed = errors.New("broker closed")

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type redisBroker struct {
	client  *redis.Client
	channel string
}

// NewRedisBroker connects to Redis and fans changes out over one pub/sub
// channel, so every instance behind a load balancer sees every write.
func NewRedisBroker(ctx context.Context, cfg RedisConfig) (Broker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &redisBroker{client: client, channel: cfg.Channel}, nil
}

func (b *redisBroker) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change: %w", err)
	}
	return nil
}

func (b *redisBroker) Subscribe(ctx context.Context) (<-chan Change, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	out := make(chan Change, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					log.Warnf("realtime: dropping malformed change %q: %v", msg.Payload, err)
					continue
				}
				select {
				case out <- change:
				default:
				}
			}
		}
	}()
	return out, nil
}

func (b *redisBroker) Close() error {
	return b.client.Close()
}
