package chassis

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Identities for the stages the submit pipeline creates itself.
var (
	submitID         = pipz.NewIdentity("chassis:submit", "Hands a valid snapshot to the collaborator")
	retryID          = pipz.NewIdentity("chassis:retry", "Retries a failed submit")
	backoffID        = pipz.NewIdentity("chassis:backoff", "Retries a failed submit with exponential backoff")
	timeoutID        = pipz.NewIdentity("chassis:timeout", "Bounds the duration of a submit")
	circuitBreakerID = pipz.NewIdentity("chassis:circuit-breaker", "Stops submitting after repeated failures")
	errorHandlerID   = pipz.NewIdentity("chassis:error-handler", "Observes submit failures")
	middlewareID     = pipz.NewIdentity("chassis:middleware", "Runs middleware before the submit")
	fallbackID       = pipz.NewIdentity("chassis:fallback", "Submits to a backup collaborator on failure")
	rateLimitID      = pipz.NewIdentity("chassis:rate-limit", "Throttles submits")
)

// Option wraps the submit pipeline with middleware such as retry, timeout
// or circuit breaking.
type Option[M any] func(pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]]

func buildPipeline[M any](terminal pipz.Chainable[*Request[M]], opts []Option[M]) pipz.Chainable[*Request[M]] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithRetry retries a failed submit immediately, up to maxAttempts times.
func WithRetry[M any](maxAttempts int) Option[M] {
	return func(p pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]] {
		return pipz.NewRetry(retryID, p, maxAttempts)
	}
}

// WithBackoff retries a failed submit with delays of baseDelay,
// 2*baseDelay, 4*baseDelay and so on.
func WithBackoff[M any](maxAttempts int, baseDelay time.Duration) Option[M] {
	return func(p pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]] {
		return pipz.NewBackoff(backoffID, p, maxAttempts, baseDelay)
	}
}

// WithTimeout fails a submit that takes longer than d.
func WithTimeout[M any](d time.Duration) Option[M] {
	return func(p pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]] {
		return pipz.NewTimeout(timeoutID, p, d)
	}
}

// WithFallback tries each fallback in order when the submit fails, e.g. a
// local outbox when the registration endpoint is down.
func WithFallback[M any](fallbacks ...pipz.Chainable[*Request[M]]) Option[M] {
	return func(p pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]] {
		all := append([]pipz.Chainable[*Request[M]]{p}, fallbacks...)
		return pipz.NewFallback(fallbackID, all...)
	}
}

// WithCircuitBreaker rejects submits immediately after failures consecutive
// failures, until recovery has passed.
func WithCircuitBreaker[M any](failures int, recovery time.Duration) Option[M] {
	return func(p pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]] {
		return pipz.NewCircuitBreaker(circuitBreakerID, p, failures, recovery)
	}
}

// WithErrorHandler passes submit failures to handler. The error still
// propagates to the caller of Submit.
func WithErrorHandler[M any](handler pipz.Chainable[*pipz.Error[*Request[M]]]) Option[M] {
	return func(p pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]] {
		return pipz.NewHandle(errorHandlerID, p, handler)
	}
}

// WithMiddleware runs processors in order before the submit function.
//
// Example:
//
//	chassis.NewSubmitter(form, send,
//	    chassis.WithMiddleware(
//	        chassis.UseEffect[Login](auditID, audit),
//	    ),
//	    chassis.WithTimeout[Login](5*time.Second),
//	)
func WithMiddleware[M any](processors ...pipz.Chainable[*Request[M]]) Option[M] {
	return func(p pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]] {
		all := make([]pipz.Chainable[*Request[M]], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence(middlewareID, all...)
	}
}

// UseTransform creates a processor that rewrites the request and cannot fail.
func UseTransform[M any](id pipz.Identity, fn func(context.Context, *Request[M]) *Request[M]) pipz.Chainable[*Request[M]] {
	return pipz.Transform(id, fn)
}

// UseApply creates a processor that rewrites the request and may fail,
// aborting the submit.
func UseApply[M any](id pipz.Identity, fn func(context.Context, *Request[M]) (*Request[M], error)) pipz.Chainable[*Request[M]] {
	return pipz.Apply(id, fn)
}

// UseEffect creates a processor with a side effect, e.g. logging.
// The request passes through unchanged.
func UseEffect[M any](id pipz.Identity, fn func(context.Context, *Request[M]) error) pipz.Chainable[*Request[M]] {
	return pipz.Effect(id, fn)
}

// UseMutate creates a processor that rewrites the request only when
// condition holds.
func UseMutate[M any](id pipz.Identity, transformer func(context.Context, *Request[M]) *Request[M], condition func(context.Context, *Request[M]) bool) pipz.Chainable[*Request[M]] {
	return pipz.Mutate(id, transformer, condition)
}

// UseEnrich creates a processor that attempts an optional rewrite. A
// failure is ignored and the request continues unchanged.
func UseEnrich[M any](id pipz.Identity, fn func(context.Context, *Request[M]) (*Request[M], error)) pipz.Chainable[*Request[M]] {
	return pipz.Enrich(id, fn)
}

// UseFilter runs processor only for requests matching condition.
func UseFilter[M any](id pipz.Identity, condition func(context.Context, *Request[M]) bool, processor pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]] {
	return pipz.NewFilter(id, condition, processor)
}

// UseRateLimit wraps processor with a token bucket allowing rate calls per
// second with the given burst. Calls wait for a token.
func UseRateLimit[M any](rate float64, burst int, processor pipz.Chainable[*Request[M]]) pipz.Chainable[*Request[M]] {
	return pipz.NewRateLimiter(rateLimitID, rate, burst, processor)
}
