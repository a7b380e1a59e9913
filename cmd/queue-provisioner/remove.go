package main

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"aws-sqs-queue-provisioner/internal/app/deprovisioner"
)

func remove(c *cli.Context, newClient clientFactory) error {
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	s, err := newSession(ctx, c, newClient)
	if err != nil {
		return err
	}
	defer s.close()

	d := deprovisioner.New(s.client, s.log)
	if c.Bool("by-url") {
		err = d.DeprovisionAllByURL(ctx, s.cfg.Queues)
	} else {
		err = d.DeprovisionAll(ctx, s.cfg.Queues)
	}
	if err != nil {
		return err
	}

	s.log.Info("all queues deleted", zap.Int("count", len(s.cfg.Queues)))
	return nil
}
