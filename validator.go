package chassis

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

// Validator maps a candidate value to exactly one ValidationResult. A nil
// pointer means the value is absent; validators only see absent input when
// the field was invalidated before receiving a value.
//
// Validators must be pure: no external state, no panics, safe to call
// concurrently.
type Validator[V any] func(value *V) ValidationResult

// Or returns a validator that succeeds if either a or b succeeds.
// b is not consulted when a succeeds; otherwise b's result is returned.
//
//	chassis.Or(chassis.ShorterThan(2, nil), chassis.LongerThan(10, nil))
func Or[V any](a, b Validator[V]) Validator[V] {
	return func(value *V) ValidationResult {
		if IsValid(a(value)) {
			return Valid
		}
		return b(value)
	}
}

// And returns a validator that succeeds only if both a and b succeed.
// The first failure wins; b is not consulted when a fails.
func And[V any](a, b Validator[V]) Validator[V] {
	return func(value *V) ValidationResult {
		if r := a(value); !IsValid(r) {
			return r
		}
		return b(value)
	}
}

// Any folds validators with Or. It panics when called without validators.
func Any[V any](first Validator[V], rest ...Validator[V]) Validator[V] {
	v := first
	for _, next := range rest {
		v = Or(v, next)
	}
	return v
}

// All folds validators with And.
func All[V any](first Validator[V], rest ...Validator[V]) Validator[V] {
	v := first
	for _, next := range rest {
		v = And(v, next)
	}
	return v
}

func check(ok bool, reason Invalid) ValidationResult {
	if ok {
		return Valid
	}
	return orDefault(reason)
}

func text(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// NotEmpty is valid for any present, non-empty string.
func NotEmpty(reason Invalid) Validator[string] {
	return func(value *string) ValidationResult {
		return check(value != nil && *value != "", reason)
	}
}

// ShorterThan is valid when the input has fewer than max characters.
// Absent input counts as empty.
func ShorterThan(max int, reason Invalid) Validator[string] {
	return func(value *string) ValidationResult {
		return check(utf8.RuneCountInString(text(value)) < max, reason)
	}
}

// LongerThan is valid when the input has more than min characters.
// Absent input counts as empty.
func LongerThan(min int, reason Invalid) Validator[string] {
	return func(value *string) ValidationResult {
		return check(utf8.RuneCountInString(text(value)) > min, reason)
	}
}

// Exactly is valid when the input has exactly length characters.
func Exactly(length int, reason Invalid) Validator[string] {
	return func(value *string) ValidationResult {
		return check(utf8.RuneCountInString(text(value)) == length, reason)
	}
}

// Matches is valid when re matches the whole input. Absent input is
// matched as the empty string.
func Matches(re *regexp.Regexp, reason Invalid) Validator[string] {
	full := regexp.MustCompile(`^(?:` + re.String() + `)$`)
	return func(value *string) ValidationResult {
		return check(full.MatchString(text(value)), reason)
	}
}

// MatchesPattern compiles pattern and behaves like Matches.
// It panics if pattern does not compile, like regexp.MustCompile.
func MatchesPattern(pattern string, reason Invalid) Validator[string] {
	return Matches(regexp.MustCompile(pattern), reason)
}

// NotNull is valid for any present value.
func NotNull[V any](reason Invalid) Validator[V] {
	return func(value *V) ValidationResult {
		return check(value != nil, reason)
	}
}

// IsNull is valid only for an absent value.
func IsNull[V any](reason Invalid) Validator[V] {
	return func(value *V) ValidationResult {
		return check(value == nil, reason)
	}
}

// Required is valid only when the input is present and true, e.g. a
// mandatory consent checkbox.
func Required(reason Invalid) Validator[bool] {
	return func(value *bool) ValidationResult {
		return check(value != nil && *value, reason)
	}
}

var tagValidate = playground.New()

// Tag checks the input against a go-playground/validator tag such as
// "email", "url" or "min=3,max=20". Absent input is checked as the zero
// value of V. It panics on a malformed tag, at declaration time.
func Tag[V any](tag string, reason Invalid) Validator[V] {
	var zero V
	mustParseTag(zero, tag)
	return func(value *V) ValidationResult {
		v := zero
		if value != nil {
			v = *value
		}
		return check(tagValidate.Var(v, tag) == nil, reason)
	}
}

// mustParseTag runs tag once so the validator library parses and caches it.
// Parsing panics on a malformed or undefined tag. Any returned error is a
// ValidationErrors about zero itself and carries nothing about the tag.
func mustParseTag(zero any, tag string) {
	err := tagValidate.Var(zero, tag)
	var failures playground.ValidationErrors
	if err != nil && !errors.As(err, &failures) {
		panic(fmt.Sprintf("chassis: tag %q: %v", tag, err))
	}
}
