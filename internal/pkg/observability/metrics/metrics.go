package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	CreateAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqs_queue_create_attempts_total",
			Help: "Total CreateQueue calls issued",
		})

	CreateRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqs_queue_create_retries_total",
			Help: "Total waits caused by a recently deleted queue",
		})

	QueuesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqs_queues_created_total",
			Help: "Total queues successfully created",
		})

	ProvisionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqs_queue_provision_failures_total",
			Help: "Total failed queue provisioning operations by reason",
		}, []string{"reason"})

	QueuesDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sqs_queues_deleted_total",
			Help: "Total queues deleted",
		})

	ProvisionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sqs_queue_provision_duration_seconds",
			Help:    "Histogram of queue provisioning duration including retries",
			Buckets: prometheus.DefBuckets,
		})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		CreateAttempts,
		CreateRetries,
		QueuesCreated,
		ProvisionFailures,
		QueuesDeleted,
		ProvisionDuration,
	}
}

// Setup registers all collectors on reg. Collectors already registered are skipped.
func Setup(reg prometheus.Registerer) error {
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return nil
}

// Push sends everything gathered from g to the Pushgateway at url under job.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	if err := push.New(url, job).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
