package logging

import (
	"context"
	"log/slog"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/chassis"
)

// Bridge logs chassis signals through logger. Mutations are logged at debug
// level, failures at warn, everything else at info.
func Bridge(logger *slog.Logger) {
	debug := func(msg string) func(context.Context, *capitan.Event) {
		return func(ctx context.Context, e *capitan.Event) {
			logger.DebugContext(ctx, msg, attrs(e)...)
		}
	}
	info := func(msg string) func(context.Context, *capitan.Event) {
		return func(ctx context.Context, e *capitan.Event) {
			logger.InfoContext(ctx, msg, attrs(e)...)
		}
	}
	warn := func(msg string) func(context.Context, *capitan.Event) {
		return func(ctx context.Context, e *capitan.Event) {
			logger.WarnContext(ctx, msg, attrs(e)...)
		}
	}

	capitan.Hook(chassis.ChassisCreated, info("form created"))
	capitan.Hook(chassis.ChassisReset, info("form reset"))
	capitan.Hook(chassis.ChassisStatusChanged, info("form status changed"))

	capitan.Hook(chassis.FieldUpdated, debug("field updated"))
	capitan.Hook(chassis.FieldForced, debug("field forced"))
	capitan.Hook(chassis.FieldInvalidated, debug("field invalidated"))
	capitan.Hook(chassis.FieldRejected, warn("operation rejected"))

	capitan.Hook(chassis.SubscriberAdded, debug("subscriber added"))
	capitan.Hook(chassis.SubscriberRemoved, debug("subscriber removed"))

	capitan.Hook(chassis.BindingStarted, info("binding started"))
	capitan.Hook(chassis.BindingStopped, info("binding stopped"))
	capitan.Hook(chassis.BindingStateChanged, info("binding state changed"))
	capitan.Hook(chassis.BindingChangeReceived, debug("binding change received"))
	capitan.Hook(chassis.BindingDecodeFailed, warn("binding decode failed"))
	capitan.Hook(chassis.BindingApplyFailed, warn("binding apply failed"))
	capitan.Hook(chassis.BindingApplySucceeded, debug("binding applied patch"))

	capitan.Hook(chassis.SubmitRejected, warn("submit rejected"))
	capitan.Hook(chassis.SubmitFailed, warn("submit failed"))
	capitan.Hook(chassis.SubmitSucceeded, info("submit succeeded"))
}

// attrs collects the chassis keys present on e.
func attrs(e *capitan.Event) []any {
	var out []any
	add := func(name string) func(v any, ok bool) {
		return func(v any, ok bool) {
			if ok {
				out = append(out, name, v)
			}
		}
	}
	add("field")(chassis.KeyField.From(e))
	add("operation")(chassis.KeyOperation.From(e))
	add("revision")(chassis.KeyRevision.From(e))
	add("reason")(chassis.KeyReason.From(e))
	add("old_status")(chassis.KeyOldStatus.From(e))
	add("new_status")(chassis.KeyNewStatus.From(e))
	add("subscriber")(chassis.KeySubscriber.From(e))
	add("state")(chassis.KeyState.From(e))
	add("old_state")(chassis.KeyOldState.From(e))
	add("new_state")(chassis.KeyNewState.From(e))
	add("debounce")(chassis.KeyDebounce.From(e))
	add("content_type")(chassis.KeyContentType.From(e))
	add("error")(chassis.KeyError.From(e))
	return out
}
