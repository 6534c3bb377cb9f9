package chassis

// Status summarises the validity of every declared field of a snapshot.
type Status int32

const (
	// StatusPending indicates no field is invalid but at least one is not
	// valid yet, typically a required field without a value.
	StatusPending Status = iota

	// StatusValid indicates every field is valid.
	StatusValid

	// StatusInvalid indicates at least one field has an invalid reason.
	StatusInvalid
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Operation names the chassis operation that published a snapshot.
type Operation string

// Operations reported to signals and metrics.
const (
	OpUpdate     Operation = "update"
	OpForce      Operation = "force"
	OpInvalidate Operation = "invalidate"
	OpReset      Operation = "reset"
	OpApply      Operation = "apply"
)

// FieldStatus is a point-in-time report on one field.
type FieldStatus struct {
	Name        string   `json:"name" yaml:"name"`
	Strategy    string   `json:"strategy" yaml:"strategy"`
	Present     bool     `json:"present" yaml:"present"`
	Valid       bool     `json:"valid" yaml:"valid"`
	Invalid     bool     `json:"invalid" yaml:"invalid"`
	Invalidated bool     `json:"invalidated,omitempty" yaml:"invalidated,omitempty"`
	Reasons     []string `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

func statusOf(v View) FieldStatus {
	fs := FieldStatus{
		Name:        v.Name(),
		Strategy:    v.Strategy().String(),
		Present:     v.Present(),
		Valid:       v.IsValid(),
		Invalid:     v.IsInvalid(),
		Invalidated: v.Invalidated(),
	}
	for _, r := range v.InvalidReasons() {
		fs.Reasons = append(fs.Reasons, r.Reason())
	}
	return fs
}

func summarize[M any](entries []entry[M], model M) Status {
	status := StatusValid
	for _, e := range entries {
		v := e.view(model)
		if v.IsInvalid() {
			return StatusInvalid
		}
		if !v.IsValid() {
			status = StatusPending
		}
	}
	return status
}
