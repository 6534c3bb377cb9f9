package chassis

// State represents the current state of a Binding.
type State int32

const (
	// StateLoading indicates the Binding has not processed any change yet.
	StateLoading State = iota

	// StateHealthy indicates the last change was applied to the chassis.
	StateHealthy

	// StateDegraded indicates the last change could not be decoded or was
	// rejected. The chassis keeps the snapshot of the last applied change.
	StateDegraded

	// StateEmpty indicates no change has ever been applied because every
	// change so far failed. The chassis still holds its initial snapshot.
	StateEmpty
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
