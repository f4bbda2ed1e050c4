package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// ReceiveDeleteAPI is the subset of the SQS client the consumer needs.
type ReceiveDeleteAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// DefaultPollErrorBackoff is how long StartPolling waits after a failed receive.
const DefaultPollErrorBackoff = 5 * time.Second

// SQSConsumer provides methods for consuming messages from SQS queues.
//
// Messages whose handler fails are never deleted, so the queue needs a
// redrive policy (dead-letter queue with maxReceiveCount) or a poison
// message is redelivered forever.
type SQSConsumer struct {
	client       ReceiveDeleteAPI
	queueURL     string
	logger       *zap.Logger
	errorBackoff time.Duration
}

// NewSQSConsumer creates a new SQS consumer for the given queue URL
func NewSQSConsumer(cfg aws.Config, queueURL string, logger *zap.Logger) *SQSConsumer {
	return NewSQSConsumerWithAPI(sqs.NewFromConfig(cfg), queueURL, logger)
}

// NewSQSConsumerWithAPI creates a consumer on top of an existing SQS implementation.
func NewSQSConsumerWithAPI(api ReceiveDeleteAPI, queueURL string, logger *zap.Logger) *SQSConsumer {
	return &SQSConsumer{
		client:       api,
		queueURL:     queueURL,
		logger:       logger,
		errorBackoff: DefaultPollErrorBackoff,
	}
}

// MessageHandler is a function that processes an SQS message
type MessageHandler func(ctx context.Context, body string) error

// StartPolling polls SQS for messages and processes them with the handler.
// Runs until ctx is cancelled.
func (c *SQSConsumer) StartPolling(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Starting SQS polling", zap.String("queue_url", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("SQS polling stopped", zap.String("queue_url", c.queueURL))
			return ctx.Err()
		default:
			if err := c.PollOnce(ctx, handler); err != nil {
				c.logger.Warn("Error polling SQS", zap.Error(err), zap.Duration("retry_in", c.errorBackoff))
				select {
				case <-ctx.Done():
				case <-time.After(c.errorBackoff):
				}
			}
		}
	}
}

// PollOnce receives one batch and hands each message to handler. Messages are
// deleted only when handler succeeds; failed ones reappear after the
// visibility timeout.
func (c *SQSConsumer) PollOnce(ctx context.Context, handler MessageHandler) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            &c.queueURL,
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20, // long polling
		VisibilityTimeout:   30,
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range result.Messages {
		if msg.Body == nil {
			continue
		}

		if err := handler(ctx, *msg.Body); err != nil {
			c.logger.Warn("Failed to process message", zap.Error(err))
			continue
		}

		if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      &c.queueURL,
			ReceiptHandle: msg.ReceiptHandle,
		}); err != nil {
			c.logger.Warn("Failed to delete message", zap.Error(err))
		}
	}

	return nil
}
