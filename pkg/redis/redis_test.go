package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	return mr, client
}

// notify stands in for the keyspace notification Redis sends after a write.
func notify(t *testing.T, mr *miniredis.Miniredis, w *Watcher, event string) {
	t.Helper()
	mr.Publish(w.Channel(), event)
}

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case data, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return data
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for value")
	}
	return nil
}

func TestWatcher_Channel(t *testing.T) {
	_, client := setupRedis(t)

	if got := New(client, "form:draft").Channel(); got != "__keyspace@0__:form:draft" {
		t.Errorf("expected default db channel, got %q", got)
	}
	if got := New(client, "form:draft", WithDB(3)).Channel(); got != "__keyspace@3__:form:draft" {
		t.Errorf("expected db 3 channel, got %q", got)
	}
}

func TestWatcher_EmitsInitialValue(t *testing.T) {
	mr, client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	value := `{"login": "jdoe"}`
	if err := mr.Set("form:draft", value); err != nil {
		t.Fatalf("failed to set initial value: %v", err)
	}

	ch, err := New(client, "form:draft").Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if data := receive(t, ch); string(data) != value {
		t.Errorf("expected %q, got %q", value, data)
	}
}

func TestWatcher_EmitsOnChange(t *testing.T) {
	mr, client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := mr.Set("form:draft", `{"login": "a"}`); err != nil {
		t.Fatalf("failed to set initial value: %v", err)
	}

	w := New(client, "form:draft")
	ch, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, ch)

	if err := mr.Set("form:draft", `{"login": "b"}`); err != nil {
		t.Fatalf("failed to update value: %v", err)
	}
	notify(t, mr, w, "set")

	if data := receive(t, ch); string(data) != `{"login": "b"}` {
		t.Errorf("expected updated value, got %q", data)
	}
}

func TestWatcher_IgnoresUnrelatedEvents(t *testing.T) {
	mr, client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := mr.Set("form:draft", `{"login": "a"}`); err != nil {
		t.Fatalf("failed to set initial value: %v", err)
	}

	w := New(client, "form:draft")
	ch, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	receive(t, ch)

	if err := mr.Set("form:draft", `{"login": "c"}`); err != nil {
		t.Fatalf("failed to set value: %v", err)
	}
	notify(t, mr, w, "expire")
	notify(t, mr, w, "set")

	if data := receive(t, ch); string(data) != `{"login": "c"}` {
		t.Errorf("expected value after set event, got %q", data)
	}

	select {
	case data := <-ch:
		t.Errorf("expected no further values, got %q", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_Hash(t *testing.T) {
	mr, client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mr.HSet("form:draft", "login", "jdoe", "marketingConsent", "true")

	w := New(client, "form:draft", AsHash())
	ch, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	var patch map[string]string
	if err := json.Unmarshal(receive(t, ch), &patch); err != nil {
		t.Fatalf("expected JSON object, got error: %v", err)
	}
	if patch["login"] != "jdoe" || patch["marketingConsent"] != "true" {
		t.Errorf("unexpected patch: %v", patch)
	}

	mr.HSet("form:draft", "login", "jane")
	notify(t, mr, w, "set")
	notify(t, mr, w, "hset")

	if err := json.Unmarshal(receive(t, ch), &patch); err != nil {
		t.Fatalf("expected JSON object, got error: %v", err)
	}
	if patch["login"] != "jane" {
		t.Errorf("expected updated login, got %q", patch["login"])
	}
}

func TestWatcher_ClosesOnCancel(t *testing.T) {
	_, client := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := New(client, "form:missing").Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for channel close")
	}
}
