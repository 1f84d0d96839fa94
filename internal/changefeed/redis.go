package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/reliefline/sos-inbox/internal/logging"
)

const channelPrefix = "sos-inbox:notifications:"

// Channel returns the pub/sub channel carrying owner's events.
func Channel(owner string) string {
	return channelPrefix + owner
}

// Redis is a feed over redis pub/sub, shared by every process pointed at the same server.
type Redis struct {
	client *redis.Client
	logger logging.Logger
}

// RedisOptions configures NewRedis.
type RedisOptions struct {
	Addr     string
	Password string
	Logger   logging.Logger
}

// NewRedis connects to the server and verifies it answers PING.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("changefeed: ping redis at %s: %w", opts.Addr, err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Redis{client: client, logger: logger.With("component", "changefeed")}, nil
}

// Publish sends ev as JSON on the owner's channel.
func (r *Redis) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("changefeed: encode event: %w", err)
	}
	if err := r.client.Publish(ctx, Channel(ev.Owner), payload).Err(); err != nil {
		return fmt.Errorf("changefeed: publish to %s: %w", Channel(ev.Owner), err)
	}
	return nil
}

// Listen subscribes to the owner's channel. The subscription is confirmed
// before Listen returns, so no event published afterwards is missed.
func (r *Redis) Listen(ctx context.Context, owner string) (<-chan Event, error) {
	pubsub := r.client.Subscribe(ctx, Channel(owner))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("changefeed: subscribe to %s: %w", Channel(owner), err)
	}

	out := make(chan Event, listenerBuffer)
	go r.listen(ctx, pubsub, out)
	return out, nil
}

func (r *Redis) listen(ctx context.Context, pubsub *redis.PubSub, out chan<- Event) {
	defer close(out)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				r.logger.Warn("dropping malformed change event", "channel", msg.Channel, "error", err)
				continue
			}
			select {
			case out <- ev:
			default:
			}
		}
	}
}

// Close closes the redis client. Listeners end when their context is cancelled.
func (r *Redis) Close() error {
	return r.client.Close()
}
