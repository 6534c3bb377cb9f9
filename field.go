package chassis

import (
	"errors"
	"fmt"
)

// ErrValueRequired is returned when a required field is resolved before it
// received a value.
var ErrValueRequired = errors.New("chassis: required field has no value")

// Reducer folds an updated field back into a new model value. The model is
// passed by value; the reducer returns the copy with the field replaced:
//
//	func(m LoginForm, f chassis.Field[LoginForm, string]) LoginForm {
//	    m.Email = f
//	    return m
//	}
type Reducer[M, V any] func(model M, field Field[M, V]) M

// Field is one named, independently validated slot of a model M holding a
// value of type V.
//
// Fields are immutable values. Reduce, ForceValidation and Invalidate are
// pure: they build a new Field and return the new model produced by the
// field's reducer. Use the Chassis operations to publish changes instead of
// calling them directly.
type Field[M, V any] struct {
	name        string
	value       *V
	validators  []Validator[V]
	strategy    Strategy
	reducer     Reducer[M, V]
	forced      ValidationResult
	invalidated bool
}

// Name returns the registry name of the field.
func (f Field[M, V]) Name() string { return f.name }

// Strategy returns the strategy the field was declared with.
func (f Field[M, V]) Strategy() Strategy { return f.strategy }

// Value returns the current value and whether one is present.
func (f Field[M, V]) Value() (V, bool) {
	if f.value == nil {
		var zero V
		return zero, false
	}
	return *f.value, true
}

// Present reports whether the field holds a value.
func (f Field[M, V]) Present() bool { return f.value != nil }

// Invalidated reports whether the field was asked to revalidate its
// current value since the last update.
func (f Field[M, V]) Invalidated() bool { return f.invalidated }

// Forced returns the externally forced result, if any.
func (f Field[M, V]) Forced() (ValidationResult, bool) {
	return f.forced, f.forced != nil
}

// Results returns the validator results followed by the forced result.
// An absent value that was not invalidated yields the strategy fallback in
// place of the validator results.
func (f Field[M, V]) Results() []ValidationResult {
	var results []ValidationResult
	if f.value != nil || f.invalidated {
		results = make([]ValidationResult, 0, len(f.validators)+1)
		for _, v := range f.validators {
			results = append(results, v(f.value))
		}
	} else {
		results = []ValidationResult{f.strategy.Fallback()}
	}
	if f.forced != nil {
		results = append(results, f.forced)
	}
	return results
}

// IsValid reports whether every result is Valid.
func (f Field[M, V]) IsValid() bool {
	for _, r := range f.Results() {
		if !IsValid(r) {
			return false
		}
	}
	return true
}

// IsInvalid reports whether any result is Invalid. A required field
// without a value is neither valid nor invalid.
func (f Field[M, V]) IsInvalid() bool {
	for _, r := range f.Results() {
		if IsInvalid(r) {
			return true
		}
	}
	return false
}

// InvalidReasons returns the Invalid results in validator order, with the
// forced result last.
func (f Field[M, V]) InvalidReasons() []Invalid {
	var reasons []Invalid
	for _, r := range f.Results() {
		if inv, ok := r.(Invalid); ok {
			reasons = append(reasons, inv)
		}
	}
	return reasons
}

// Resolve returns the value typed as V. A required field without a value
// returns ErrValueRequired; an optional one returns the zero value.
func (f Field[M, V]) Resolve() (V, error) {
	v, ok := f.Value()
	if !ok && f.strategy == AsRequired {
		return v, fmt.Errorf("%w: %s", ErrValueRequired, f.name)
	}
	return v, nil
}

// MustResolve is like Resolve but panics on a required field without a
// value. Call it only after the form was found valid.
func (f Field[M, V]) MustResolve() V {
	v, err := f.Resolve()
	if err != nil {
		panic(err)
	}
	return v
}

// Reduce sets the value (nil clears it), drops any forced result and
// invalidation, and returns the model rebuilt with the new field.
func (f Field[M, V]) Reduce(model M, value *V) M {
	next := f
	next.value = nil
	if value != nil {
		v := *value
		next.value = &v
	}
	next.forced = nil
	next.invalidated = false
	return next.fold(model)
}

// ForceValidation appends r to the validator results until the next value
// update, leaving the value untouched. A nil r forces DefaultInvalid.
func (f Field[M, V]) ForceValidation(model M, r ValidationResult) M {
	if r == nil {
		r = DefaultInvalid
	}
	next := f
	next.forced = r
	return next.fold(model)
}

// Invalidate asks for the validators to run against the current value even
// though it did not change, including an absent one.
func (f Field[M, V]) Invalidate(model M) M {
	next := f
	next.invalidated = true
	return next.fold(model)
}

// fold hands the field to its reducer. A field without a reducer leaves the
// model unchanged; New rejects such declarations.
func (f Field[M, V]) fold(model M) M {
	if f.reducer == nil {
		return model
	}
	return f.reducer(model, f)
}
