package chassis

// Builder collects field declarations while the initial model is built.
// It is only valid inside the function passed to New.
type Builder[M any] struct {
	entries []entry[M]
}

type fieldSpec[V any] struct {
	initial    *V
	validators []Validator[V]
}

// FieldOption configures a field declaration.
type FieldOption[V any] func(*fieldSpec[V])

// Initial sets the value the field starts with and returns to on Reset.
func Initial[V any](value V) FieldOption[V] {
	return func(s *fieldSpec[V]) {
		s.initial = &value
	}
}

// Validate appends validators. Order is kept and decides the order of
// InvalidReasons.
func Validate[V any](validators ...Validator[V]) FieldOption[V] {
	return func(s *fieldSpec[V]) {
		s.validators = append(s.validators, validators...)
	}
}

// Declare registers ref with the builder and returns the initial field.
//
//	form, err := chassis.New(func(b *chassis.Builder[LoginForm]) LoginForm {
//	    return LoginForm{
//	        Login: chassis.Declare(b, LoginRef, chassis.AsRequired,
//	            chassis.Validate(chassis.NotEmpty(LoginEmpty)),
//	        ),
//	        Phone: chassis.Declare(b, PhoneRef, chassis.AsOptional),
//	    }
//	})
func Declare[M, V any](b *Builder[M], ref Ref[M, V], strategy Strategy, opts ...FieldOption[V]) Field[M, V] {
	var spec fieldSpec[V]
	for _, opt := range opts {
		opt(&spec)
	}
	b.entries = append(b.entries, ref)
	return Field[M, V]{
		name:       ref.name,
		value:      spec.initial,
		validators: spec.validators,
		strategy:   strategy,
		reducer:    ref.reduce,
	}
}
