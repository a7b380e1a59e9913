package sqs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"

	"aws-sqs-queue-provisioner/internal/pkg/queue"
)

// Legacy query-protocol error codes, still returned by some SQS-compatible endpoints.
const (
	codeQueueAlreadyExists   = "QueueAlreadyExists"
	codeQueueDeletedRecently = "AWS.SimpleQueueService.QueueDeletedRecently"
	codeNonExistentQueue     = "AWS.SimpleQueueService.NonExistentQueue"
)

// API is the subset of *sqs.Client used by Client.
type API interface {
	CreateQueue(ctx context.Context, params *sqs.CreateQueueInput, optFns ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error)
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	DeleteQueue(ctx context.Context, params *sqs.DeleteQueueInput, optFns ...func(*sqs.Options)) (*sqs.DeleteQueueOutput, error)
}

type Config struct {
	Region   string // AWS region of the queues
	Endpoint string // Optional endpoint override, e.g. a LocalStack URL
}

// Client implements queue.Client on top of AWS SQS.
type Client struct {
	api API
}

var _ queue.Client = (*Client)(nil)

// NewClient creates a new sqs client using the default credential chain.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	// Load the Shared AWS Configuration
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var optFns []func(*sqs.Options)
	if cfg.Endpoint != "" {
		optFns = append(optFns, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	return New(sqs.NewFromConfig(awsCfg, optFns...)), nil
}

// New wraps an existing SQS API.
func New(api API) *Client {
	return &Client{api: api}
}

// CreateQueue creates a queue with default attributes and returns its URL.
func (c *Client) CreateQueue(ctx context.Context, name string) (string, error) {
	out, err := c.api.CreateQueue(ctx, &sqs.CreateQueueInput{
		QueueName: aws.String(name),
	})
	if err != nil {
		return "", translate(err)
	}
	return aws.ToString(out.QueueUrl), nil
}

// GetQueueUrl resolves a queue name to its URL.
func (c *Client) GetQueueUrl(ctx context.Context, name string) (string, error) {
	out, err := c.api.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(name),
	})
	if err != nil {
		return "", translate(err)
	}
	return aws.ToString(out.QueueUrl), nil
}

// DeleteQueue deletes the queue at url.
func (c *Client) DeleteQueue(ctx context.Context, url string) error {
	_, err := c.api.DeleteQueue(ctx, &sqs.DeleteQueueInput{
		QueueUrl: aws.String(url),
	})
	if err != nil {
		return translate(err)
	}
	return nil
}

// translate maps SQS errors onto the queue error kinds, keeping the original error in the chain.
func translate(err error) error {
	var (
		nameExists      *types.QueueNameExists
		deletedRecently *types.QueueDeletedRecently
		doesNotExist    *types.QueueDoesNotExist
		apiErr          smithy.APIError
	)

	switch {
	case errors.As(err, &nameExists):
		return fmt.Errorf("%w: %w", queue.ErrNameExists, err)
	case errors.As(err, &deletedRecently):
		return fmt.Errorf("%w: %w", queue.ErrDeletedRecently, err)
	case errors.As(err, &doesNotExist):
		return fmt.Errorf("%w: %w", queue.ErrNotFound, err)
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case codeQueueAlreadyExists:
			return fmt.Errorf("%w: %w", queue.ErrNameExists, err)
		case codeQueueDeletedRecently:
			return fmt.Errorf("%w: %w", queue.ErrDeletedRecently, err)
		case codeNonExistentQueue:
			return fmt.Errorf("%w: %w", queue.ErrNotFound, err)
		}
	}
	return err
}
