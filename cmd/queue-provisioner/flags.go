package main

import (
	"github.com/urfave/cli/v2"

	"aws-sqs-queue-provisioner/configs"
)

// commonFlags returns the flags shared by all commands. Unset flags fall back to the environment.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable verbose logging",
		},
		&cli.StringFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Usage:   "The AWS region of the queues (overrides QUEUE_AWS_SQS_REGION)",
		},
	}
}

func createFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.IntFlag{
			Name:  "retry-timeout",
			Usage: "Seconds to keep retrying a recently deleted queue (overrides QUEUE_RETRY_TIMEOUT_SECONDS)",
		},
		&cli.IntFlag{
			Name:  "retry-delay",
			Usage: "Seconds to wait between attempts (overrides QUEUE_RETRY_DELAY_SECONDS)",
		},
	)
}

func deleteFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.BoolFlag{
			Name:  "by-url",
			Usage: "Treat arguments as queue urls and skip the name lookup",
		},
	)
}

// buildConfig loads the environment config and applies the flags and arguments of c.
func buildConfig(c *cli.Context) (*configs.Config, error) {
	opts := []configs.Option{
		configs.WithQueues(c.Args().Slice()),
		configs.WithRegion(c.String("region")),
		configs.WithVerbose(c.Bool("verbose")),
	}
	if c.IsSet("retry-timeout") {
		opts = append(opts, configs.WithRetryTimeout(c.Int("retry-timeout")))
	}
	if c.IsSet("retry-delay") {
		opts = append(opts, configs.WithRetryDelay(c.Int("retry-delay")))
	}

	return configs.Parse(opts...)
}
