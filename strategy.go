package chassis

// Strategy decides how a field without a value is judged.
type Strategy int32

const (
	// AsRequired fields report Unspecified until they receive a value.
	AsRequired Strategy = iota

	// AsOptional fields are Valid while they have no value.
	AsOptional
)

// Fallback returns the result used in place of validators when the field
// has no value and was not invalidated.
func (s Strategy) Fallback() ValidationResult {
	if s == AsOptional {
		return Valid
	}
	return Unspecified
}

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case AsRequired:
		return "required"
	case AsOptional:
		return "optional"
	default:
		return "unknown"
	}
}
