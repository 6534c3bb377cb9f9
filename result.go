package chassis

// ValidationResult is the outcome of running a Validator against a value.
//
// The set of results is closed: a result is Valid, Unspecified, or an
// Invalid reason. Custom failure domains are declared by implementing
// Invalid, never ValidationResult directly.
type ValidationResult interface {
	validationResult()
}

type valid struct{}

func (valid) validationResult() {}
func (valid) String() string    { return "valid" }

type unspecified struct{}

func (unspecified) validationResult() {}
func (unspecified) String() string    { return "unspecified" }

var (
	// Valid is returned when a value satisfies a validator.
	Valid ValidationResult = valid{}

	// Unspecified is the fallback result of a required field that has not
	// received a value yet. It is neither valid nor invalid.
	Unspecified ValidationResult = unspecified{}
)

// Invalid is a validation failure. Reason covers the common string-tagged
// case; richer reasons embed Failure and implement Reason themselves:
//
//	type TakenBy struct {
//	    chassis.Failure
//	    Owner string
//	}
//
//	func (t TakenBy) Reason() string { return "taken by " + t.Owner }
type Invalid interface {
	ValidationResult
	Reason() string
}

// Failure marks an embedding type as a member of the result set.
type Failure struct{}

func (Failure) validationResult() {}

// Reason is a string-backed Invalid.
//
//	const TooShort chassis.Reason = "too_short"
type Reason string

func (Reason) validationResult() {}

// Reason returns the tag itself.
func (r Reason) Reason() string { return string(r) }

// String returns the tag itself.
func (r Reason) String() string { return string(r) }

// DefaultInvalid is returned by the built-in validators when no reason is given.
const DefaultInvalid Reason = "invalid"

// IsValid reports whether r is Valid.
func IsValid(r ValidationResult) bool {
	_, ok := r.(valid)
	return ok
}

// IsInvalid reports whether r is an Invalid reason.
func IsInvalid(r ValidationResult) bool {
	_, ok := r.(Invalid)
	return ok
}

// reasonOf renders a result for signals and status reports.
func reasonOf(r ValidationResult) string {
	switch v := r.(type) {
	case Invalid:
		return v.Reason()
	case valid:
		return "valid"
	case unspecified:
		return "unspecified"
	default:
		return "unknown"
	}
}

// orDefault substitutes DefaultInvalid for a nil reason.
func orDefault(reason Invalid) Invalid {
	if reason == nil {
		return DefaultInvalid
	}
	return reason
}
