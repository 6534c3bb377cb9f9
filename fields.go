package chassis

import "github.com/zoobzio/capitan"

// Field keys for chassis events.
var (
	// KeyField is the name of the field an event concerns.
	KeyField = capitan.NewStringKey("field")

	// KeyOperation is the operation that published a snapshot.
	KeyOperation = capitan.NewStringKey("operation")

	// KeyRevision is the revision of the published snapshot.
	KeyRevision = capitan.NewIntKey("revision")

	// KeyReason is the forced validation result or rejection reason.
	KeyReason = capitan.NewStringKey("reason")

	// KeyOldStatus is the form status before a transition.
	KeyOldStatus = capitan.NewStringKey("old_status")

	// KeyNewStatus is the form status after a transition.
	KeyNewStatus = capitan.NewStringKey("new_status")

	// KeySubscriber identifies a snapshot subscription.
	KeySubscriber = capitan.NewStringKey("subscriber")

	// KeyState is the current state of a Binding.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the binding state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the binding state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyContentType is the MIME type of the binding codec.
	KeyContentType = capitan.NewStringKey("content_type")
)
