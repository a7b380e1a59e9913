package main

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"aws-sqs-queue-provisioner/internal/app/provisioner"
	"aws-sqs-queue-provisioner/internal/pkg/delay"
)

func create(c *cli.Context, newClient clientFactory) error {
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	s, err := newSession(ctx, c, newClient)
	if err != nil {
		return err
	}
	defer s.close()

	p := provisioner.New(s.client, delay.New(), s.log)
	handles, err := p.ProvisionAll(ctx, s.cfg.Queues, s.cfg.RetryTimeout, s.cfg.RetryDelay)
	if err != nil {
		s.log.Warn("queue creation stopped",
			zap.Int("created", len(handles)),
			zap.Int("requested", len(s.cfg.Queues)))
		return err
	}

	s.log.Info("all queues created", zap.Int("count", len(handles)))
	return nil
}
