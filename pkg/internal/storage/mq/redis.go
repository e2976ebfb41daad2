package mq

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/yeisme/mediavault/pkg/configs"
)

const (
	// DefaultChannelBufferSize bounds the subscriber's delivery channel.
	DefaultChannelBufferSize = 100
)

// RedisPublisher publishes messages over Redis pub/sub. Delivery is
// fire-and-forget; consumers that need replay should run the NATS backend
// with JetStream instead.
type RedisPublisher struct {
	client *redis.Client
}

// RedisSubscriber consumes messages from Redis pub/sub channels.
type RedisSubscriber struct {
	client     *redis.Client
	subscriber *redis.PubSub
	mu         sync.RWMutex
	closed     bool
	closeCh    chan struct{}
}

func init() {
	RegisterFactory(configs.MQTypeRedis, redisFactory)
}

// redisFactory creates a Redis Publisher & Subscriber pair.
func redisFactory(
	ctx context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	pub := &RedisPublisher{
		client: rdb,
	}

	sub := &RedisSubscriber{
		client:  rdb,
		closeCh: make(chan struct{}),
	}

	return pub, sub, nil
}

// Publish implements message.Publisher.
func (p *RedisPublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		err := p.client.Publish(context.Background(), topic, []byte(msg.Payload)).Err()
		if err != nil {
			return err
		}

		msg.Ack()
	}

	return nil
}

// Close implements message.Publisher.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// Subscribe implements message.Subscriber.
func (s *RedisSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil
	}

	ch := make(chan *message.Message, DefaultChannelBufferSize)

	s.subscriber = s.client.Subscribe(ctx, topic)

	go func() {
		defer close(ch)

		for {
			select {
			case <-s.closeCh:
				return
			case <-ctx.Done():
				return
			default:
				msg, err := s.subscriber.ReceiveMessage(ctx)
				if err != nil {
					return
				}

				wmMsg := message.NewMessage(watermill.NewUUID(), []byte(msg.Payload))

				select {
				case ch <- wmMsg:
				case <-s.closeCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// Close implements message.Subscriber.
func (s *RedisSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	close(s.closeCh)

	if s.subscriber != nil {
		_ = s.subscriber.Close()
	}

	return s.client.Close()
}
