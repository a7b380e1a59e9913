package provisioner

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest = errors.New("invalid provision request")
	ErrAlreadyExists  = errors.New("queue already exists")
	ErrTimedOut       = errors.New("queue creation timed out")
	ErrInterrupted    = errors.New("queue creation interrupted")
)

// Reason is why a provisioning operation failed.
type Reason int

const (
	ReasonAlreadyExists Reason = iota + 1
	ReasonTimedOut
	ReasonInterrupted
	ReasonTransport
)

func (r Reason) String() string {
	switch r {
	case ReasonAlreadyExists:
		return "exists"
	case ReasonTimedOut:
		return "timeout"
	case ReasonInterrupted:
		return "interrupted"
	case ReasonTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the failure of provisioning a single queue.
type Error struct {
	Queue  string
	Reason Reason
	Err    error // underlying cause, may be nil
}

func (e *Error) Error() string {
	var msg string
	switch e.Reason {
	case ReasonAlreadyExists:
		msg = fmt.Sprintf("queue %s already exists", e.Queue)
	case ReasonTimedOut:
		msg = fmt.Sprintf("queue %s creation timed out", e.Queue)
	case ReasonInterrupted:
		msg = fmt.Sprintf("queue %s creation interrupted", e.Queue)
	default:
		msg = fmt.Sprintf("queue %s creation failed", e.Queue)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's reason.
func (e *Error) Is(target error) bool {
	switch e.Reason {
	case ReasonAlreadyExists:
		return target == ErrAlreadyExists
	case ReasonTimedOut:
		return target == ErrTimedOut
	case ReasonInterrupted:
		return target == ErrInterrupted
	default:
		return false
	}
}

func (e *Error) state() State {
	switch e.Reason {
	case ReasonAlreadyExists:
		return StateFailedExists
	case ReasonTimedOut:
		return StateFailedTimeout
	case ReasonInterrupted:
		return StateFailedInterrupted
	default:
		return StateFailedTransport
	}
}
