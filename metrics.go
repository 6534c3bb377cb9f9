package chassis

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key chassis and binding events.
type MetricsProvider interface {
	// OnPublish is called after a snapshot is published.
	// Duration covers computing the new snapshot and fanning it out.
	OnPublish(op Operation, duration time.Duration)

	// OnReject is called when an untyped operation fails before publishing.
	OnReject(op Operation)

	// OnStatusChange is called when the form-level status changes.
	OnStatusChange(from, to Status)

	// OnSubscribers is called with the subscriber count whenever it changes.
	OnSubscribers(count int)

	// OnStateChange is called when a binding transitions between states.
	OnStateChange(from, to State)

	// OnProcessSuccess is called when a binding applies a change.
	OnProcessSuccess(duration time.Duration)

	// OnProcessFailure is called when a binding fails to apply a change.
	// Stage is "decode" or "apply".
	OnProcessFailure(stage string, duration time.Duration)

	// OnChangeReceived is called when a binding receives raw data from its watcher.
	OnChangeReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnPublish(_ Operation, _ time.Duration)     {}
func (NoOpMetricsProvider) OnReject(_ Operation)                       {}
func (NoOpMetricsProvider) OnStatusChange(_, _ Status)                 {}
func (NoOpMetricsProvider) OnSubscribers(_ int)                        {}
func (NoOpMetricsProvider) OnStateChange(_, _ State)                   {}
func (NoOpMetricsProvider) OnProcessSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnProcessFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnChangeReceived()                          {}
