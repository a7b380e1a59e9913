package provisioner

// State is a step of the create-with-retry state machine.
type State int

const (
	StateAttempting State = iota
	StateWaitingToRetry
	StateSucceeded
	StateFailedExists
	StateFailedTimeout
	StateFailedInterrupted
	StateFailedTransport
)

func (s State) String() string {
	switch s {
	case StateAttempting:
		return "Attempting"
	case StateWaitingToRetry:
		return "WaitingToRetry"
	case StateSucceeded:
		return "Succeeded"
	case StateFailedExists:
		return "FailedExists"
	case StateFailedTimeout:
		return "FailedTimeout"
	case StateFailedInterrupted:
		return "FailedInterrupted"
	case StateFailedTransport:
		return "FailedTransport"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s != StateAttempting && s != StateWaitingToRetry
}
