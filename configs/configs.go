package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config defines all environment variables and derived config for the provisioner.
type Config struct {
	// Transformed time.Duration fields (not loaded from env directly)
	RetryTimeout time.Duration `env:"-"` // retry budget (duration)
	RetryDelay   time.Duration `env:"-"` // delay between attempts (duration)

	Region   string   `env:"QUEUE_AWS_SQS_REGION" validate:"required"`
	Endpoint string   `env:"QUEUE_AWS_SQS_ENDPOINT" validate:"omitempty,url"`
	Queues   []string `env:"QUEUE_NAMES" envSeparator:"," validate:"min=1,dive,required"`

	RetryTimeoutSeconds int `env:"QUEUE_RETRY_TIMEOUT_SECONDS" envDefault:"75" validate:"gte=0,lte=86400"`
	RetryDelaySeconds   int `env:"QUEUE_RETRY_DELAY_SECONDS" envDefault:"1" validate:"gt=0,lte=3600"`

	LogVerbose bool `env:"LOG_VERBOSE" envDefault:"false"`

	MetricsPushgatewayURL string `env:"METRICS_PUSHGATEWAY_URL" validate:"omitempty,url"`
	MetricsJobName        string `env:"METRICS_JOB_NAME" envDefault:"queue-provisioner" validate:"required"`
}

// Option overrides a value after the environment has been loaded.
type Option func(*Config)

// WithQueues replaces the configured queue names when names is not empty.
func WithQueues(names []string) Option {
	return func(c *Config) {
		if len(names) > 0 {
			c.Queues = names
		}
	}
}

func WithRegion(region string) Option {
	return func(c *Config) {
		if region != "" {
			c.Region = region
		}
	}
}

// WithRetryTimeout overrides the retry budget. The value is validated like the env setting.
func WithRetryTimeout(seconds int) Option {
	return func(c *Config) {
		c.RetryTimeoutSeconds = seconds
	}
}

// WithRetryDelay overrides the delay between attempts. The value is validated like the env setting.
func WithRetryDelay(seconds int) Option {
	return func(c *Config) {
		c.RetryDelaySeconds = seconds
	}
}

func WithVerbose(verbose bool) Option {
	return func(c *Config) {
		c.LogVerbose = c.LogVerbose || verbose
	}
}

// Parse loads configuration from environment variables, applies opts, validates and normalizes it.
func Parse(opts ...Option) (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Queues = trimNames(cfg.Queues)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.normalize()

	return &cfg, nil
}

// validate performs all required configuration checks.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// normalize converts int values to duration and sets derived fields.
func (c *Config) normalize() {
	c.RetryTimeout = time.Duration(c.RetryTimeoutSeconds) * time.Second
	c.RetryDelay = time.Duration(c.RetryDelaySeconds) * time.Second
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
