package queue

import (
	"context"
	"errors"
)

// Client defines the queue service operations used to provision and tear down queues.
type Client interface {
	// CreateQueue creates the named queue and returns its URL.
	CreateQueue(ctx context.Context, name string) (string, error)
	// GetQueueUrl resolves a queue name to its URL.
	GetQueueUrl(ctx context.Context, name string) (string, error)
	// DeleteQueue deletes the queue at url.
	DeleteQueue(ctx context.Context, url string) error
}

// Handle identifies a provisioned queue.
type Handle struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

var (
	ErrNameExists      = errors.New("queue name already exists")
	ErrDeletedRecently = errors.New("queue deleted recently")
	ErrNotFound        = errors.New("queue does not exist")
)

// Kind classifies an error returned by a Client.
type Kind int

const (
	KindNone Kind = iota
	KindNameExists
	KindDeletedRecently
	KindNotFound
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindNameExists:
		return "NameExists"
	case KindDeletedRecently:
		return "DeletedRecently"
	case KindNotFound:
		return "NotFound"
	case KindTransport:
		return "Transport"
	default:
		return "Unknown"
	}
}

// KindOf reports the Kind of err. A nil error is KindNone and any
// unrecognised error is KindTransport.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNameExists):
		return KindNameExists
	case errors.Is(err, ErrDeletedRecently):
		return KindDeletedRecently
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindTransport
	}
}
