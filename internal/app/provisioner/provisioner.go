package provisioner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"aws-sqs-queue-provisioner/internal/pkg/delay"
	"aws-sqs-queue-provisioner/internal/pkg/logger"
	"aws-sqs-queue-provisioner/internal/pkg/observability/metrics"
	"aws-sqs-queue-provisioner/internal/pkg/queue"
)

// Request describes one queue to create.
type Request struct {
	Name    string
	Timeout time.Duration // retry budget; zero allows a single attempt
	Delay   time.Duration // fixed wait between attempts
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: queue name is empty", ErrInvalidRequest)
	}
	if r.Timeout < 0 {
		return fmt.Errorf("%w: retry timeout %s is negative", ErrInvalidRequest, r.Timeout)
	}
	if r.Delay <= 0 {
		return fmt.Errorf("%w: retry delay %s must be greater than 0", ErrInvalidRequest, r.Delay)
	}
	return nil
}

// Provisioner creates queues, retrying while the service reports a queue
// of the same name was deleted recently.
type Provisioner struct {
	queue   queue.Client
	sleeper delay.Sleeper
	log     *zap.Logger
}

func New(client queue.Client, sleeper delay.Sleeper, log *zap.Logger) *Provisioner {
	return &Provisioner{
		queue:   client,
		sleeper: sleeper,
		log:     logger.OrNop(log),
	}
}

// Provision creates the queue named in req.
//
// Each attempt is one CreateQueue call. A recently deleted conflict
// subtracts req.Delay from the remaining budget and then waits req.Delay, so a
// positive timeout allows ceil(Timeout/Delay) attempts, each followed by a wait.
// A zero timeout allows exactly one attempt and never waits.
func (p *Provisioner) Provision(ctx context.Context, req Request) (queue.Handle, error) {
	if err := req.Validate(); err != nil {
		return queue.Handle{}, err
	}

	log := logger.WithContext(ctx, p.log).With(zap.String("queue", req.Name))
	start := time.Now()
	defer func() {
		metrics.ProvisionDuration.Observe(time.Since(start).Seconds())
	}()

	handle, err := p.execute(ctx, req, log)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			metrics.ProvisionFailures.WithLabelValues(perr.Reason.String()).Inc()
		}
		log.Error("queue provisioning failed", zap.Error(err))
		return queue.Handle{}, err
	}

	metrics.QueuesCreated.Inc()
	log.Info("queue created", zap.String("url", handle.URL))
	return handle, nil
}

func (p *Provisioner) execute(ctx context.Context, req Request, log *zap.Logger) (queue.Handle, error) {
	var (
		state    = StateAttempting
		timeLeft = req.Timeout
		handle   queue.Handle
		failure  *Error
		lastErr  error
	)

	transition := func(next State) {
		log.Debug("state transitioned",
			zap.Stringer("from", state),
			zap.Stringer("to", next),
			zap.Duration("timeLeft", timeLeft))
		state = next
	}
	fail := func(reason Reason, err error) {
		failure = &Error{Queue: req.Name, Reason: reason, Err: err}
		transition(failure.state())
	}

	for {
		switch state {
		case StateAttempting:
			metrics.CreateAttempts.Inc()
			url, err := p.queue.CreateQueue(ctx, req.Name)

			switch queue.KindOf(err) {
			case queue.KindNone:
				handle = queue.Handle{Name: req.Name, URL: url}
				transition(StateSucceeded)
			case queue.KindNameExists:
				fail(ReasonAlreadyExists, err)
			case queue.KindDeletedRecently:
				lastErr = err
				if timeLeft <= 0 {
					fail(ReasonTimedOut, lastErr)
					continue
				}
				log.Warn("queue deleted recently, retrying", zap.Duration("timeLeft", timeLeft))
				timeLeft -= req.Delay
				transition(StateWaitingToRetry)
			default:
				if ctx.Err() != nil {
					fail(ReasonInterrupted, context.Cause(ctx))
					continue
				}
				fail(ReasonTransport, err)
			}

		case StateWaitingToRetry:
			metrics.CreateRetries.Inc()
			if err := p.sleeper.Sleep(ctx, req.Delay); err != nil {
				fail(ReasonInterrupted, err)
				continue
			}
			if timeLeft <= 0 {
				fail(ReasonTimedOut, lastErr)
				continue
			}
			transition(StateAttempting)

		case StateSucceeded:
			return handle, nil

		default:
			return queue.Handle{}, failure
		}
	}
}

// ProvisionAll creates the named queues in order and stops at the first failure.
// Handles of the queues created before the failure are returned along with the
// error; they are not rolled back.
func (p *Provisioner) ProvisionAll(ctx context.Context, names []string, timeout, retryDelay time.Duration) ([]queue.Handle, error) {
	handles := make([]queue.Handle, 0, len(names))
	for _, name := range names {
		handle, err := p.Provision(ctx, Request{Name: name, Timeout: timeout, Delay: retryDelay})
		if err != nil {
			return handles, err
		}
		handles = append(handles, handle)
	}
	return handles, nil
}
