package chassis

import "github.com/zoobzio/capitan"

// Chassis lifecycle signals.
var (
	// ChassisCreated is emitted when New returns a chassis.
	ChassisCreated = capitan.NewSignal(
		"chassis.created",
		"Form chassis created",
	)

	// ChassisReset is emitted when the initial snapshot is republished.
	ChassisReset = capitan.NewSignal(
		"chassis.reset",
		"Form reset to initial values",
	)

	// ChassisStatusChanged is emitted when the form-level status changes.
	ChassisStatusChanged = capitan.NewSignal(
		"chassis.status.changed",
		"Form status transition",
	)
)

// Field mutation signals.
var (
	// FieldUpdated is emitted when a field value is replaced or cleared.
	FieldUpdated = capitan.NewSignal(
		"chassis.field.updated",
		"Field value updated",
	)

	// FieldForced is emitted when a validation result is forced on a field.
	FieldForced = capitan.NewSignal(
		"chassis.field.forced",
		"Validation result forced on field",
	)

	// FieldInvalidated is emitted when a field is asked to revalidate.
	FieldInvalidated = capitan.NewSignal(
		"chassis.field.invalidated",
		"Field invalidated",
	)

	// FieldRejected is emitted when an untyped update names an unknown
	// field or carries a value that cannot be decoded.
	FieldRejected = capitan.NewSignal(
		"chassis.field.rejected",
		"Field update rejected",
	)
)

// Subscription signals.
var (
	// SubscriberAdded is emitted when Subscribe registers an observer.
	SubscriberAdded = capitan.NewSignal(
		"chassis.subscriber.added",
		"Snapshot subscriber added",
	)

	// SubscriberRemoved is emitted when a subscription context ends.
	SubscriberRemoved = capitan.NewSignal(
		"chassis.subscriber.removed",
		"Snapshot subscriber removed",
	)
)

// Binding signals.
var (
	// BindingStarted is emitted when a Binding begins watching.
	BindingStarted = capitan.NewSignal(
		"chassis.binding.started",
		"Binding watching started",
	)

	// BindingStopped is emitted when a Binding stops watching.
	BindingStopped = capitan.NewSignal(
		"chassis.binding.stopped",
		"Binding watching stopped",
	)

	// BindingStateChanged is emitted when a Binding transitions between states.
	BindingStateChanged = capitan.NewSignal(
		"chassis.binding.state.changed",
		"Binding state transition",
	)

	// BindingChangeReceived is emitted when raw data is received from the watcher.
	BindingChangeReceived = capitan.NewSignal(
		"chassis.binding.change.received",
		"Raw change received from watcher",
	)

	// BindingDecodeFailed is emitted when raw data cannot be decoded into a patch.
	BindingDecodeFailed = capitan.NewSignal(
		"chassis.binding.decode.failed",
		"Patch decoding failed",
	)

	// BindingApplyFailed is emitted when a decoded patch is rejected by the chassis.
	BindingApplyFailed = capitan.NewSignal(
		"chassis.binding.apply.failed",
		"Patch rejected",
	)

	// BindingApplySucceeded is emitted when a patch is published.
	BindingApplySucceeded = capitan.NewSignal(
		"chassis.binding.apply.succeeded",
		"Patch applied successfully",
	)
)

// Submission signals.
var (
	// SubmitRejected is emitted when Submit is called on a form that is not valid.
	SubmitRejected = capitan.NewSignal(
		"chassis.submit.rejected",
		"Submission refused, form not valid",
	)

	// SubmitSucceeded is emitted when the submission pipeline succeeds.
	SubmitSucceeded = capitan.NewSignal(
		"chassis.submit.succeeded",
		"Submission succeeded",
	)

	// SubmitFailed is emitted when the submission pipeline fails.
	SubmitFailed = capitan.NewSignal(
		"chassis.submit.failed",
		"Submission failed",
	)
)
