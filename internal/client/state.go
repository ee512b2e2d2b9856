package client

// State is the lifecycle state of a Client.
type State int

const (
	// StateIdle means Connect has not been called yet.
	StateIdle State = iota
	// StateConnecting means the transport is being dialed.
	StateConnecting
	// StateOpen means frames are being received and commands can be sent.
	StateOpen
	// StateClosing means a local shutdown is in progress.
	StateClosing
	// StateClosed is terminal.
	StateClosed
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
