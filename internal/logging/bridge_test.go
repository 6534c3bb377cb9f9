package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/chassis"
	"github.com/zoobzio/chassis/internal/registration"
)

// syncBuffer guards a buffer written from capitan workers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBridge_LogsSignals(t *testing.T) {
	var out syncBuffer
	Bridge(NewWriter(&out, slog.LevelDebug))

	form, err := registration.New()
	if err != nil {
		t.Fatalf("registration.New() error = %v", err)
	}
	chassis.Update(form, registration.Login, "bridge-user")
	_ = form.Set(chassis.Name("nickname"), "x") //nolint:errcheck // rejection is what gets logged

	wants := []string{
		`msg="field updated"`,
		"field=login",
		`msg="operation rejected"`,
		`err="chassis: unknown field: nickname"`,
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if containsAll(out.String(), wants) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("expected log to contain %v, got:\n%s", wants, out.String())
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
