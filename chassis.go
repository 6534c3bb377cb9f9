package chassis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Chassis owns the current snapshot of a form model M, serialises every
// change to it and publishes each new snapshot to its subscribers.
//
// Snapshots are never mutated after publication. Every operation reads the
// current snapshot, computes a new one and publishes it while holding the
// write lock, so concurrent updates to different fields cannot overwrite
// each other. Reads through Current never block.
type Chassis[M any] struct {
	entries []entry[M]
	index   map[string]entry[M]
	clock   clockz.Clock
	metrics MetricsProvider

	initial  M
	current  atomic.Pointer[M]
	revision atomic.Uint64
	status   atomic.Int32

	mu          sync.Mutex
	subscribers map[string]*subscriber[M]
}

// New builds the initial model with declare and returns a chassis holding
// it. Every field of the model must be created through Declare so it is
// registered by name; declarations with an empty name, a missing accessor
// or reducer, or a duplicate name are rejected.
func New[M any](declare func(b *Builder[M]) M) (*Chassis[M], error) {
	b := &Builder[M]{}
	initial := declare(b)

	c := &Chassis[M]{
		entries:     b.entries,
		index:       make(map[string]entry[M], len(b.entries)),
		clock:       clockz.RealClock,
		initial:     initial,
		subscribers: make(map[string]*subscriber[M]),
	}

	var errs []error
	for _, e := range b.entries {
		if err := e.check(initial); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.index[e.Name()]; dup {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateField, e.Name()))
			continue
		}
		c.index[e.Name()] = e
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c.current.Store(&initial)
	c.status.Store(int32(summarize(c.entries, initial)))

	capitan.Emit(context.Background(), ChassisCreated,
		KeyNewStatus.Field(c.Status().String()),
	)

	return c, nil
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Clock sets a custom clock for publish timings.
// Use this with clockz.FakeClock for deterministic tests.
// Must be called before the chassis is shared.
func (c *Chassis[M]) Clock(clock clockz.Clock) *Chassis[M] {
	c.clock = clock
	return c
}

// Metrics sets a metrics provider for observability integration.
// Must be called before the chassis is shared.
func (c *Chassis[M]) Metrics(provider MetricsProvider) *Chassis[M] {
	c.metrics = provider
	return c
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// Current returns the latest published snapshot.
func (c *Chassis[M]) Current() M {
	return *c.current.Load()
}

// Revision returns the number of snapshots published since creation.
// The initial snapshot is revision 0.
func (c *Chassis[M]) Revision() uint64 {
	return c.revision.Load()
}

// Status returns the form-level status of the latest snapshot.
func (c *Chassis[M]) Status() Status {
	return Status(c.status.Load())
}

// Fields returns the declared field names in declaration order.
func (c *Chassis[M]) Fields() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name()
	}
	return names
}

// Inspect reports on one field of the latest snapshot.
func (c *Chassis[M]) Inspect(key Key) (FieldStatus, error) {
	e, err := c.lookup(key)
	if err != nil {
		return FieldStatus{}, err
	}
	return statusOf(e.view(c.Current())), nil
}

// Report returns a status for every field of the latest snapshot in
// declaration order.
func (c *Chassis[M]) Report() []FieldStatus {
	model := c.Current()
	report := make([]FieldStatus, len(c.entries))
	for i, e := range c.entries {
		report[i] = statusOf(e.view(model))
	}
	return report
}

// Subscribe returns a channel receiving the current snapshot immediately,
// then every later snapshot in publish order without gaps. The channel is
// closed after ctx is done; it is never closed otherwise.
func (c *Chassis[M]) Subscribe(ctx context.Context) <-chan M {
	s := newSubscriber[M](uuid.NewString())

	c.mu.Lock()
	c.subscribers[s.id] = s
	s.push(c.Current())
	count := len(c.subscribers)
	c.mu.Unlock()

	capitan.Emit(ctx, SubscriberAdded, KeySubscriber.Field(s.id))
	if c.metrics != nil {
		c.metrics.OnSubscribers(count)
	}

	go s.run(ctx, func() {
		c.mu.Lock()
		delete(c.subscribers, s.id)
		count := len(c.subscribers)
		c.mu.Unlock()

		capitan.Emit(context.Background(), SubscriberRemoved, KeySubscriber.Field(s.id))
		if c.metrics != nil {
			c.metrics.OnSubscribers(count)
		}
	})

	return s.out
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// Update sets the value of the field behind ref and publishes the new
// snapshot. Any forced result or invalidation on the field is dropped.
func Update[M, V any](c *Chassis[M], ref Ref[M, V], value V) {
	rev, _ := c.mutate(OpUpdate, func(model M) (M, error) { //nolint:errcheck // reduce cannot fail
		return ref.get(model).Reduce(model, &value), nil
	})
	emitUpdated(ref.name, rev)
}

// Clear removes the value of the field behind ref and publishes the new
// snapshot.
func Clear[M, V any](c *Chassis[M], ref Ref[M, V]) {
	rev, _ := c.mutate(OpUpdate, func(model M) (M, error) { //nolint:errcheck // reduce cannot fail
		return ref.get(model).Reduce(model, nil), nil
	})
	emitUpdated(ref.name, rev)
}

// Set is the untyped form of Update. value is converted to the field type;
// nil clears the field.
func (c *Chassis[M]) Set(key Key, value any) error {
	e, err := c.lookup(key)
	if err != nil {
		return c.reject(OpUpdate, nameOf(key), err)
	}
	rev, err := c.mutate(OpUpdate, func(model M) (M, error) {
		return e.set(model, value)
	})
	if err != nil {
		return c.reject(OpUpdate, e.Name(), err)
	}
	emitUpdated(e.Name(), rev)
	return nil
}

// Apply sets several fields and publishes a single snapshot. Fields are
// applied in declaration order. If any name is unknown or any value cannot
// be decoded nothing is published.
func (c *Chassis[M]) Apply(patch map[string]any) error {
	var unknown []error
	for name := range patch {
		if _, ok := c.index[name]; !ok {
			unknown = append(unknown, fmt.Errorf("%w: %s", ErrUnknownField, name))
		}
	}
	if len(unknown) > 0 {
		return c.reject(OpApply, "", errors.Join(unknown...))
	}

	rev, err := c.mutate(OpApply, func(model M) (M, error) {
		var err error
		for _, e := range c.entries {
			raw, ok := patch[e.Name()]
			if !ok {
				continue
			}
			if model, err = e.set(model, raw); err != nil {
				return model, err
			}
		}
		return model, nil
	})
	if err != nil {
		return c.reject(OpApply, "", err)
	}
	for _, e := range c.entries {
		if _, ok := patch[e.Name()]; ok {
			emitUpdated(e.Name(), rev)
		}
	}
	return nil
}

// ForceValidation appends r to the results of the field until its next
// value update, for example a rejection reported by a server.
func (c *Chassis[M]) ForceValidation(key Key, r ValidationResult) error {
	e, err := c.lookup(key)
	if err != nil {
		return c.reject(OpForce, nameOf(key), err)
	}
	_, _ = c.mutate(OpForce, func(model M) (M, error) { //nolint:errcheck // force cannot fail
		return e.force(model, r), nil
	})
	capitan.Emit(context.Background(), FieldForced,
		KeyField.Field(e.Name()),
		KeyReason.Field(reasonOf(r)),
	)
	return nil
}

// ForceErrors forces every FieldError carried by err onto its field and
// publishes a single snapshot. Rejections for unknown fields are returned;
// the known ones are still applied. err without field errors is ignored.
func (c *Chassis[M]) ForceErrors(err error) error {
	fieldErrs := fieldErrorsOf(err)
	if len(fieldErrs) == 0 {
		return nil
	}

	var unknown []error
	known := fieldErrs[:0:0]
	for _, fe := range fieldErrs {
		if _, ok := c.index[fe.Field]; !ok {
			unknown = append(unknown, fmt.Errorf("%w: %s", ErrUnknownField, fe.Field))
			continue
		}
		known = append(known, fe)
	}

	if len(known) > 0 {
		_, _ = c.mutate(OpForce, func(model M) (M, error) { //nolint:errcheck // force cannot fail
			for _, fe := range known {
				model = c.index[fe.Field].force(model, orDefault(fe.Reason))
			}
			return model, nil
		})
		for _, fe := range known {
			capitan.Emit(context.Background(), FieldForced,
				KeyField.Field(fe.Field),
				KeyReason.Field(orDefault(fe.Reason).Reason()),
			)
		}
	}

	if len(unknown) > 0 {
		return c.reject(OpForce, "", errors.Join(unknown...))
	}
	return nil
}

// Invalidate makes the validators run against the current value of the
// field even though it did not change, e.g. when an input loses focus.
func (c *Chassis[M]) Invalidate(key Key) error {
	e, err := c.lookup(key)
	if err != nil {
		return c.reject(OpInvalidate, nameOf(key), err)
	}
	_, _ = c.mutate(OpInvalidate, func(model M) (M, error) { //nolint:errcheck // invalidate cannot fail
		return e.invalidate(model), nil
	})
	capitan.Emit(context.Background(), FieldInvalidated,
		KeyField.Field(e.Name()),
	)
	return nil
}

// Reset publishes the initial snapshot again, discarding every value,
// forced result and invalidation applied since creation.
func (c *Chassis[M]) Reset() {
	rev, _ := c.mutate(OpReset, func(_ M) (M, error) { //nolint:errcheck // reset cannot fail
		return c.initial, nil
	})
	capitan.Emit(context.Background(), ChassisReset,
		KeyRevision.Field(int(rev)), //nolint:gosec // revisions stay far below MaxInt
	)
}

// -----------------------------------------------------------------------------
// Internals
// -----------------------------------------------------------------------------

func (c *Chassis[M]) lookup(key Key) (entry[M], error) {
	name := nameOf(key)
	e, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return e, nil
}

// snapshot reads the current model with its revision and status as one
// consistent triple.
func (c *Chassis[M]) snapshot() (M, uint64, Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.current.Load(), c.revision.Load(), c.Status()
}

func (c *Chassis[M]) has(name string) bool {
	_, ok := c.index[name]
	return ok
}

func nameOf(key Key) string {
	if key == nil {
		return "<nil>"
	}
	return key.Name()
}

// mutate runs the read-modify-publish sequence under the write lock.
// Nothing is published when fn fails.
// It returns the revision of the published snapshot.
func (c *Chassis[M]) mutate(op Operation, fn func(M) (M, error)) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := c.clock.Now()
	next, err := fn(*c.current.Load())
	if err != nil {
		return 0, err
	}

	c.current.Store(&next)
	rev := c.revision.Add(1)
	c.transitionStatus(summarize(c.entries, next))

	for _, s := range c.subscribers {
		s.push(next)
	}

	if c.metrics != nil {
		c.metrics.OnPublish(op, c.clock.Since(start))
	}
	return rev, nil
}

// transitionStatus stores the status and emits a change event if it
// differs. Callers hold the write lock.
func (c *Chassis[M]) transitionStatus(next Status) {
	prev := Status(c.status.Swap(int32(next)))
	if prev == next {
		return
	}
	capitan.Emit(context.Background(), ChassisStatusChanged,
		KeyOldStatus.Field(prev.String()),
		KeyNewStatus.Field(next.String()),
	)
	if c.metrics != nil {
		c.metrics.OnStatusChange(prev, next)
	}
}

func emitUpdated(field string, rev uint64) {
	capitan.Emit(context.Background(), FieldUpdated,
		KeyField.Field(field),
		KeyRevision.Field(int(rev)), //nolint:gosec // revisions stay far below MaxInt
	)
}

func (c *Chassis[M]) reject(op Operation, field string, err error) error {
	capitan.Emit(context.Background(), FieldRejected,
		KeyOperation.Field(string(op)),
		KeyField.Field(field),
		KeyError.Field(err.Error()),
	)
	if c.metrics != nil {
		c.metrics.OnReject(op)
	}
	return err
}
