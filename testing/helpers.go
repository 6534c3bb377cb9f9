// Package testing provides test utilities and helpers for chassis forms and
// bindings.
package testing

import (
	"testing"
	"time"

	"github.com/zoobzio/chassis"
)

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForState waits until the binding reaches the expected state or timeout occurs.
func WaitForState[M any](t *testing.T, b *chassis.Binding[M], expected chassis.State, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return b.State() == expected
	})
}

// WaitForRevision waits until the chassis has published at least rev snapshots.
func WaitForRevision[M any](t *testing.T, c *chassis.Chassis[M], rev uint64, timeout time.Duration) bool {
	t.Helper()
	return WaitFor(t, timeout, func() bool {
		return c.Revision() >= rev
	})
}

// RequireState fails the test immediately if the binding is not in the expected state.
func RequireState[M any](t *testing.T, b *chassis.Binding[M], expected chassis.State) {
	t.Helper()
	if got := b.State(); got != expected {
		t.Fatalf("expected state %s, got %s", expected, got)
	}
}

// RequireStatus fails the test immediately if the form status differs.
func RequireStatus[M any](t *testing.T, c *chassis.Chassis[M], expected chassis.Status) {
	t.Helper()
	if got := c.Status(); got != expected {
		t.Fatalf("expected status %s, got %s: %+v", expected, got, c.Report())
	}
}

// RequireReasons fails the test if the field's invalid reasons differ from
// want, in order.
func RequireReasons(t *testing.T, v chassis.View, want ...string) {
	t.Helper()
	got := v.InvalidReasons()
	if len(got) != len(want) {
		t.Fatalf("%s: expected reasons %v, got %v", v.Name(), want, got)
	}
	for i := range want {
		if got[i].Reason() != want[i] {
			t.Fatalf("%s: expected reasons %v, got %v", v.Name(), want, got)
		}
	}
}

// NewTestBinding binds c to a sync channel watcher for testing.
// Returns the binding and a channel for sending patches.
func NewTestBinding[M any](t *testing.T, c *chassis.Chassis[M]) (*chassis.Binding[M], chan<- []byte) {
	t.Helper()
	ch := make(chan []byte, 10)
	b := chassis.Bind(c, chassis.NewSyncChannelWatcher(ch)).SyncMode()
	return b, ch
}
