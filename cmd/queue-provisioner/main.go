package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"aws-sqs-queue-provisioner/internal/pkg/queue"
	"aws-sqs-queue-provisioner/internal/pkg/queue/sqs"
)

// clientFactory builds the queue service client for a run.
type clientFactory func(ctx context.Context, cfg sqs.Config) (queue.Client, error)

func newSQSClient(ctx context.Context, cfg sqs.Config) (queue.Client, error) {
	return sqs.NewClient(ctx, cfg)
}

func newApp(newClient clientFactory) *cli.App {
	return &cli.App{
		Name:  "queue-provisioner",
		Usage: "Create and delete SQS queues around integration test runs",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create queues, waiting out the cooldown after a recent deletion",
				ArgsUsage: "[NAME...]",
				Flags:     createFlags(),
				Action: func(c *cli.Context) error {
					return create(c, newClient)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete queues by name or url",
				ArgsUsage: "[NAME|URL...]",
				Flags:     deleteFlags(),
				Action: func(c *cli.Context) error {
					return remove(c, newClient)
				},
			},
		},
	}
}

func main() {
	err := newApp(newSQSClient).Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
