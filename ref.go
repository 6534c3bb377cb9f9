package chassis

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Key identifies a field by name. Every Ref is a Key.
type Key interface {
	Name() string
}

// Name is a Key for untyped access by field name.
type Name string

// Name returns the name itself.
func (n Name) Name() string { return string(n) }

// View is the read surface shared by every Field regardless of its types.
type View interface {
	Name() string
	Strategy() Strategy
	Present() bool
	Invalidated() bool
	Results() []ValidationResult
	IsValid() bool
	IsInvalid() bool
	InvalidReasons() []Invalid
}

// Ref binds a field name to the accessor that reads the field from a model
// and the reducer that writes it back. Refs are declared once, next to the
// model type:
//
//	var EmailRef = chassis.NewRef("email",
//	    func(m LoginForm) chassis.Field[LoginForm, string] { return m.Email },
//	    func(m LoginForm, f chassis.Field[LoginForm, string]) LoginForm {
//	        m.Email = f
//	        return m
//	    },
//	)
type Ref[M, V any] struct {
	name   string
	get    func(M) Field[M, V]
	reduce Reducer[M, V]
}

// NewRef creates a Ref. Missing parts are reported by New, not here.
func NewRef[M, V any](name string, get func(M) Field[M, V], reduce Reducer[M, V]) Ref[M, V] {
	return Ref[M, V]{name: name, get: get, reduce: reduce}
}

// Name returns the field name.
func (r Ref[M, V]) Name() string { return r.name }

// Get reads the field from model.
func (r Ref[M, V]) Get(model M) Field[M, V] { return r.get(model) }

// entry is the type-erased registry record the Chassis keeps per field.
type entry[M any] interface {
	Name() string
	view(model M) View
	set(model M, raw any) (M, error)
	force(model M, r ValidationResult) M
	invalidate(model M) M
	check(model M) error
}

func (r Ref[M, V]) view(model M) View { return r.get(model) }

func (r Ref[M, V]) force(model M, res ValidationResult) M {
	return r.get(model).ForceValidation(model, res)
}

func (r Ref[M, V]) invalidate(model M) M {
	return r.get(model).Invalidate(model)
}

// set converts raw to V and reduces the field with it. nil clears the
// field; V and *V are taken as is; anything else goes through mapstructure
// with weak typing so decoded JSON and YAML scalars land in numeric and
// boolean fields.
func (r Ref[M, V]) set(model M, raw any) (M, error) {
	f := r.get(model)
	switch v := raw.(type) {
	case nil:
		return f.Reduce(model, nil), nil
	case V:
		return f.Reduce(model, &v), nil
	case *V:
		return f.Reduce(model, v), nil
	}

	var out V
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &out,
	})
	if err != nil {
		return model, fmt.Errorf("%w: %s: %w", ErrDecode, r.name, err)
	}
	if err := dec.Decode(raw); err != nil {
		return model, fmt.Errorf("%w: %s: %w", ErrDecode, r.name, err)
	}
	return f.Reduce(model, &out), nil
}

// check verifies the declaration against the built model.
func (r Ref[M, V]) check(model M) error {
	switch {
	case r.name == "":
		return ErrEmptyFieldName
	case r.get == nil:
		return fmt.Errorf("%w: %s", ErrMissingAccessor, r.name)
	case r.reduce == nil:
		return fmt.Errorf("%w: %s", ErrMissingReducer, r.name)
	}
	if got := r.get(model).Name(); got != r.name {
		return fmt.Errorf("%w: %s reads %q", ErrMismatchedRef, r.name, got)
	}
	return nil
}
