package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"aws-sqs-queue-provisioner/configs"
	"aws-sqs-queue-provisioner/internal/pkg/logger"
	"aws-sqs-queue-provisioner/internal/pkg/observability/metrics"
	"aws-sqs-queue-provisioner/internal/pkg/queue"
	"aws-sqs-queue-provisioner/internal/pkg/queue/sqs"
)

const pushTimeout = 10 * time.Second

// session holds what a single command run needs.
type session struct {
	cfg      *configs.Config
	log      *zap.Logger
	client   queue.Client
	registry *prometheus.Registry
}

func newSession(ctx context.Context, c *cli.Context, newClient clientFactory) (*session, error) {
	cfg, err := buildConfig(c)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	log, err := logger.New(cfg.LogVerbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	log.Info("config",
		zap.String("region", cfg.Region),
		zap.String("endpoint", cfg.Endpoint),
		zap.Strings("queues", cfg.Queues),
		zap.Duration("retryTimeout", cfg.RetryTimeout),
		zap.Duration("retryDelay", cfg.RetryDelay))

	registry := prometheus.NewRegistry()
	if err := metrics.Setup(registry); err != nil {
		return nil, err
	}

	client, err := newClient(ctx, sqs.Config{Region: cfg.Region, Endpoint: cfg.Endpoint})
	if err != nil {
		return nil, fmt.Errorf("failed to create SQS client: %w", err)
	}

	return &session{cfg: cfg, log: log, client: client, registry: registry}, nil
}

// close pushes metrics when a Pushgateway is configured and flushes the logger.
func (s *session) close() {
	if s.cfg.MetricsPushgatewayURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := metrics.Push(ctx, s.cfg.MetricsPushgatewayURL, s.cfg.MetricsJobName, s.registry); err != nil {
			s.log.Warn("unable to push metrics", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
