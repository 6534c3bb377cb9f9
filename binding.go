package chassis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for change processing.
const DefaultDebounce = 100 * time.Millisecond

// Patch maps field names to raw values, as decoded from a watched source.
type Patch map[string]any

// Binding feeds a chassis from an external source. Each value the watcher
// emits is decoded into a Patch and applied to the chassis as one snapshot.
// A value that fails to decode or apply leaves the chassis untouched and
// moves the binding to a failure state until a later value succeeds.
type Binding[M any] struct {
	chassis        *Chassis[M]
	watcher        Watcher
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	ignoreUnknown  bool
	clock          clockz.Clock
	codec          Codec
	metrics        MetricsProvider
	onStop         func(State)

	state        atomic.Int32
	applied      atomic.Bool
	lastError    atomic.Pointer[error]
	errorHistory *errorRing

	mu      sync.Mutex
	started bool

	changes <-chan []byte
}

// Bind creates a Binding that applies values from watcher to c.
//
// Example:
//
//	b := chassis.Bind(form, chassis.NewFileWatcher("draft.yaml")).
//	    Codec(chassis.YAMLCodec{}).
//	    Debounce(200 * time.Millisecond)
func Bind[M any](c *Chassis[M], watcher Watcher) *Binding[M] {
	b := &Binding[M]{
		chassis:      c,
		watcher:      watcher,
		debounce:     DefaultDebounce,
		clock:        clockz.RealClock,
		codec:        JSONCodec{},
		errorHistory: newErrorRing(0),
	}
	b.state.Store(int32(StateLoading))
	return b
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the debounce duration for change processing.
// Changes arriving within this duration are coalesced; only the last one is
// applied. Default: 100ms. Must be called before Start().
func (b *Binding[M]) Debounce(d time.Duration) *Binding[M] {
	b.debounce = d
	return b
}

// SyncMode enables synchronous processing for testing.
// After Start, values are only applied when Process is called.
// Must be called before Start().
func (b *Binding[M]) SyncMode() *Binding[M] {
	b.syncMode = true
	return b
}

// Clock sets a custom clock for debouncing and the startup timeout.
// Must be called before Start().
func (b *Binding[M]) Clock(clock clockz.Clock) *Binding[M] {
	b.clock = clock
	return b
}

// Codec sets the codec for decoding patches. Default: JSONCodec.
// Must be called before Start().
func (b *Binding[M]) Codec(codec Codec) *Binding[M] {
	b.codec = codec
	return b
}

// StartupTimeout bounds the wait for the first value in Start.
// Default: no timeout. Must be called before Start().
func (b *Binding[M]) StartupTimeout(d time.Duration) *Binding[M] {
	b.startupTimeout = d
	return b
}

// Metrics sets a metrics provider. Must be called before Start().
func (b *Binding[M]) Metrics(provider MetricsProvider) *Binding[M] {
	b.metrics = provider
	return b
}

// OnStop sets a callback invoked with the final state when the binding
// stops watching. Must be called before Start().
func (b *Binding[M]) OnStop(fn func(State)) *Binding[M] {
	b.onStop = fn
	return b
}

// ErrorHistorySize sets the number of recent errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before Start().
func (b *Binding[M]) ErrorHistorySize(n int) *Binding[M] {
	b.errorHistory = newErrorRing(n)
	return b
}

// IgnoreUnknown drops patch entries that name no declared field instead of
// rejecting the whole patch. Must be called before Start().
func (b *Binding[M]) IgnoreUnknown() *Binding[M] {
	b.ignoreUnknown = true
	return b
}

// State returns the current state of the Binding.
func (b *Binding[M]) State() State {
	return State(b.state.Load())
}

// LastError returns the last error encountered, or nil after a success.
func (b *Binding[M]) LastError() error {
	ptr := b.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns the recent error history, oldest first.
// Returns nil if error history is not enabled.
func (b *Binding[M]) ErrorHistory() []error {
	return b.errorHistory.all()
}

// Start begins watching. It blocks until the first value is applied or
// rejected, then keeps watching in the background until ctx is done.
//
// If the first value fails, Start returns the error but keeps watching.
// In sync mode only the first value is processed; use Process for the rest.
//
// Start can only be called once.
func (b *Binding[M]) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return errors.New("binding already started")
	}
	b.started = true
	b.mu.Unlock()

	capitan.Emit(ctx, BindingStarted,
		KeyDebounce.Field(b.debounce),
		KeyContentType.Field(b.codec.ContentType()),
	)

	changes, err := b.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	startupCtx := ctx
	if b.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = b.clock.WithTimeout(ctx, b.startupTimeout)
		defer cancel()
	}

	var initialErr error
	select {
	case <-startupCtx.Done():
		if b.startupTimeout > 0 && errors.Is(startupCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("startup timeout: watcher did not emit initial value within %v", b.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return errors.New("watcher closed before emitting initial value")
		}
		b.received(ctx)
		initialErr = b.process(ctx, raw)
	}

	if b.syncMode {
		b.changes = changes
		return initialErr
	}

	go b.watch(ctx, changes)

	return initialErr
}

// Process applies the next pending value from the watcher.
// It only works in sync mode and reports whether a value was processed.
func (b *Binding[M]) Process(ctx context.Context) bool {
	if !b.syncMode {
		return false
	}

	select {
	case raw, ok := <-b.changes:
		if !ok {
			return false
		}
		b.received(ctx)
		_ = b.process(ctx, raw) //nolint:errcheck // Errors stored via setError
		return true
	default:
		return false
	}
}

func (b *Binding[M]) received(ctx context.Context) {
	capitan.Emit(ctx, BindingChangeReceived)
	if b.metrics != nil {
		b.metrics.OnChangeReceived()
	}
}

// process decodes and applies a single patch.
func (b *Binding[M]) process(ctx context.Context, raw []byte) error {
	start := b.clock.Now()
	oldState := b.State()

	var patch Patch
	if err := b.codec.Unmarshal(raw, &patch); err != nil {
		return b.fail(ctx, oldState, start, "decode", fmt.Errorf("%w: %w", ErrDecode, err))
	}

	if b.ignoreUnknown {
		for name := range patch {
			if !b.chassis.has(name) {
				delete(patch, name)
			}
		}
	}

	if err := b.chassis.Apply(patch); err != nil {
		return b.fail(ctx, oldState, start, "apply", err)
	}

	b.applied.Store(true)
	b.lastError.Store(nil)
	b.errorHistory.clear()
	b.transitionState(ctx, oldState, StateHealthy)
	capitan.Emit(ctx, BindingApplySucceeded,
		KeyRevision.Field(int(b.chassis.Revision())), //nolint:gosec // revisions stay far below MaxInt
	)
	if b.metrics != nil {
		b.metrics.OnProcessSuccess(b.clock.Since(start))
	}
	return nil
}

func (b *Binding[M]) fail(ctx context.Context, oldState State, start time.Time, stage string, err error) error {
	b.setError(err)
	b.transitionState(ctx, oldState, b.failureState())
	if stage == "decode" {
		capitan.Emit(ctx, BindingDecodeFailed, KeyError.Field(err.Error()))
	} else {
		capitan.Emit(ctx, BindingApplyFailed, KeyError.Field(err.Error()))
	}
	if b.metrics != nil {
		b.metrics.OnProcessFailure(stage, b.clock.Since(start))
	}
	return fmt.Errorf("%s failed: %w", stage, err)
}

// failureState is Empty until a patch has been applied, Degraded after.
func (b *Binding[M]) failureState() State {
	if !b.applied.Load() {
		return StateEmpty
	}
	return StateDegraded
}

func (b *Binding[M]) transitionState(ctx context.Context, oldState, newState State) {
	if oldState == newState {
		return
	}
	b.state.Store(int32(newState))
	capitan.Emit(ctx, BindingStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if b.metrics != nil {
		b.metrics.OnStateChange(oldState, newState)
	}
}

func (b *Binding[M]) setError(err error) {
	e := err
	b.lastError.Store(&e)
	b.errorHistory.push(err)
}

// watch applies watcher values once the watcher has been quiet for the
// debounce period. Only the newest value is applied.
func (b *Binding[M]) watch(ctx context.Context, changes <-chan []byte) {
	defer b.stopped()

	held := &heldChange{clock: b.clock, quiet: b.debounce}
	defer held.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-changes:
			if !ok {
				b.flush(ctx, held)
				return
			}
			b.received(ctx)
			held.hold(raw)
		case <-held.due():
			b.flush(ctx, held)
		}
	}
}

func (b *Binding[M]) flush(ctx context.Context, held *heldChange) {
	if raw, ok := held.take(); ok {
		_ = b.process(ctx, raw) //nolint:errcheck // recorded by setError
	}
}

func (b *Binding[M]) stopped() {
	final := b.State()
	capitan.Emit(context.Background(), BindingStopped, KeyState.Field(final.String()))
	if b.onStop != nil {
		b.onStop(final)
	}
}

// heldChange is the newest unapplied watcher value and its debounce timer.
type heldChange struct {
	clock clockz.Clock
	quiet time.Duration
	timer clockz.Timer
	raw   []byte
	ok    bool
}

// hold replaces the held value and restarts the quiet period.
func (h *heldChange) hold(raw []byte) {
	h.raw, h.ok = raw, true
	if h.timer == nil {
		h.timer = h.clock.NewTimer(h.quiet)
		return
	}
	if !h.timer.Stop() {
		select {
		case <-h.timer.C():
		default:
		}
	}
	h.timer.Reset(h.quiet)
}

// due fires when the quiet period ends. It is nil until a value is held.
func (h *heldChange) due() <-chan time.Time {
	if h.timer == nil {
		return nil
	}
	return h.timer.C()
}

func (h *heldChange) take() ([]byte, bool) {
	raw, ok := h.raw, h.ok
	h.raw, h.ok = nil, false
	return raw, ok
}

func (h *heldChange) stop() {
	if h.timer != nil {
		h.timer.Stop()
	}
}
