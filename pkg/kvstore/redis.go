package kvstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores documents as plain Redis strings and relays changes
// over a Pub/Sub channel so every API instance can notify its clients.
type RedisBackend struct {
	client  *redis.Client
	channel string
}

// NewRedisBackend wraps client. Changes are published on channel.
func NewRedisBackend(client *redis.Client, channel string) *RedisBackend {
	if channel == "" {
		channel = "kvstore:changes"
	}
	return &RedisBackend{client: client, channel: channel}
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Announce publishes change on the relay channel.
func (r *RedisBackend) Announce(ctx context.Context, change Change) error {
	payload, err := encodeChange(change)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Listen subscribes to the relay channel until ctx is cancelled.
func (r *RedisBackend) Listen(ctx context.Context, deliver func(Change)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close() //nolint:errcheck

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			change, err := decodeChange(msg.Payload)
			if err != nil {
				continue
			}
			deliver(change)
		}
	}
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

func encodeChange(change Change) (string, error) {
	payload, err := json.Marshal(change)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func decodeChange(payload string) (Change, error) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, err
	}
	if change.Key == "" {
		return Change{}, errors.New("kvstore: change without key")
	}
	return change, nil
}
