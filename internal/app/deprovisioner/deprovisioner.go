package deprovisioner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aws-sqs-queue-provisioner/internal/pkg/logger"
	"aws-sqs-queue-provisioner/internal/pkg/observability/metrics"
	"aws-sqs-queue-provisioner/internal/pkg/queue"
)

// Deprovisioner deletes queues. Deletion needs no retry: the service has
// no transient conflict for it and deleting a missing queue is harmless.
type Deprovisioner struct {
	queue queue.Client
	log   *zap.Logger
}

func New(client queue.Client, log *zap.Logger) *Deprovisioner {
	return &Deprovisioner{
		queue: client,
		log:   logger.OrNop(log),
	}
}

// Deprovision resolves name to its URL and deletes that queue.
func (d *Deprovisioner) Deprovision(ctx context.Context, name string) error {
	log := logger.WithContext(ctx, d.log).With(zap.String("queue", name))

	log.Info("looking for queue url")
	url, err := d.queue.GetQueueUrl(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get url of queue %s: %w", name, err)
	}
	log.Info("found queue", zap.String("url", url))

	if err := d.queue.DeleteQueue(ctx, url); err != nil {
		return fmt.Errorf("failed to delete queue %s: %w", name, err)
	}
	metrics.QueuesDeleted.Inc()
	log.Info("queue requested to be deleted", zap.String("url", url))
	return nil
}

// DeprovisionByURL deletes the queue at url. A queue that does not exist counts as deleted.
func (d *Deprovisioner) DeprovisionByURL(ctx context.Context, url string) error {
	log := logger.WithContext(ctx, d.log).With(zap.String("url", url))

	err := d.queue.DeleteQueue(ctx, url)
	switch queue.KindOf(err) {
	case queue.KindNone:
		metrics.QueuesDeleted.Inc()
		log.Info("queue requested to be deleted")
		return nil
	case queue.KindNotFound:
		log.Info("queue already absent")
		return nil
	default:
		return fmt.Errorf("failed to delete queue at %s: %w", url, err)
	}
}

// DeprovisionAll deletes every named queue, continuing past failures. A name
// that does not resolve to a queue is a failure like any other. The first
// error is returned once all names have been processed.
func (d *Deprovisioner) DeprovisionAll(ctx context.Context, names []string) error {
	return d.each(ctx, names, d.Deprovision)
}

// DeprovisionAllByURL is DeprovisionAll for queue URLs. URLs of queues that
// no longer exist count as deleted.
func (d *Deprovisioner) DeprovisionAllByURL(ctx context.Context, urls []string) error {
	return d.each(ctx, urls, d.DeprovisionByURL)
}

func (d *Deprovisioner) each(ctx context.Context, targets []string, fn func(context.Context, string) error) error {
	log := logger.WithContext(ctx, d.log)

	var firstErr error
	for _, target := range targets {
		if err := fn(ctx, target); err != nil {
			log.Error("queue deletion failed", zap.String("target", target), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
