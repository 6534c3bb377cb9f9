// Package redis provides a chassis.Watcher that follows a Redis key using
// keyspace notifications, so a form draft stored in Redis can feed a
// chassis.Binding.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Watcher watches a Redis key holding a form draft. Redis must have
// keyspace notifications enabled:
//
//	CONFIG SET notify-keyspace-events KEA
//
// By default the key is a string holding an encoded patch. With AsHash the
// key is a hash whose fields are form field names; its contents are emitted
// as a JSON object.
type Watcher struct {
	client *redis.Client
	key    string
	db     int
	hash   bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// AsHash reads the key as a hash of field name to value.
func AsHash() Option {
	return func(w *Watcher) {
		w.hash = true
	}
}

// WithDB sets the database index used in the notification channel.
// Defaults to 0.
func WithDB(db int) Option {
	return func(w *Watcher) {
		w.db = db
	}
}

// New creates a Watcher for key.
func New(client *redis.Client, key string, opts ...Option) *Watcher {
	w := &Watcher{
		client: client,
		key:    key,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Channel returns the keyspace notification channel for the watched key.
func (w *Watcher) Channel() string {
	return fmt.Sprintf("__keyspace@%d__:%s", w.db, w.key)
}

// Watch subscribes to changes of the key and returns a channel emitting
// its contents. The current contents are emitted first if the key exists.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	pubsub := w.client.Subscribe(ctx, w.Channel())

	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to keyspace notifications: %w", err)
	}

	out := make(chan []byte)

	go func() {
		defer close(out)
		defer pubsub.Close()

		send := func(val []byte) bool {
			select {
			case out <- val:
				return true
			case <-ctx.Done():
				return false
			}
		}

		val, err := w.read(ctx)
		switch {
		case err == nil:
			if !send(val) {
				return
			}
		case !errors.Is(err, redis.Nil):
			return
		}

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if !w.relevant(msg.Payload) {
					continue
				}
				val, err := w.read(ctx)
				if err != nil {
					continue
				}
				if !send(val) {
					return
				}
			}
		}
	}()

	return out, nil
}

func (w *Watcher) relevant(event string) bool {
	if w.hash {
		switch event {
		case "hset", "hdel", "hincrby", "hincrbyfloat":
			return true
		}
		return false
	}
	switch event {
	case "set", "mset", "setex", "psetex", "setnx":
		return true
	}
	return false
}

// read fetches the key contents. It returns redis.Nil when the key is
// missing or the hash is empty.
func (w *Watcher) read(ctx context.Context) ([]byte, error) {
	if !w.hash {
		return w.client.Get(ctx, w.key).Bytes()
	}
	fields, err := w.client.HGetAll(ctx, w.key).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, redis.Nil
	}
	return json.Marshal(fields)
}
