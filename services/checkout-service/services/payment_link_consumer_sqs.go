package services

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/grocery-agent/pkg/aws"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
)

// MessagePoller is satisfied by pkg/aws.SQSConsumer.
type MessagePoller interface {
	StartPolling(ctx context.Context, handler awspkg.MessageHandler) error
}

// PaymentLinkRequestConsumer creates payment links for requests queued on SQS.
type PaymentLinkRequestConsumer struct {
	poller  MessagePoller
	service PaymentLinkService
	metrics MetricsRecorder // optional
	logger  *zap.Logger
}

func NewPaymentLinkRequestConsumer(poller MessagePoller, service PaymentLinkService, metrics MetricsRecorder, logger *zap.Logger) *PaymentLinkRequestConsumer {
	return &PaymentLinkRequestConsumer{poller: poller, service: service, metrics: metrics, logger: logger}
}

// Start blocks until ctx is cancelled.
func (c *PaymentLinkRequestConsumer) Start(ctx context.Context) {
	c.logger.Info("Starting PaymentLinkRequestConsumer (SQS)")

	err := c.poller.StartPolling(ctx, c.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Error("SQS consumer error", zap.Error(err))
	}
}

// Handle processes one message body. Only undecodable bodies are returned as
// errors; checkout failures are terminal and already published.
func (c *PaymentLinkRequestConsumer) Handle(ctx context.Context, body string) error {
	var msg models.PaymentLinkQueueMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		c.logger.Warn("Invalid payment link request JSON", zap.Error(err))
		return err
	}

	if c.metrics != nil {
		_ = c.metrics.RecordCount(ctx, awspkg.MetricSQSMessages, map[string]string{"Queue": "payment-link-requests"})
	}

	result, err := c.service.CreatePaymentLink(ctx, models.PaymentLinkRequest{
		SessionID:   msg.SessionID,
		ActionGroup: "sqs",
		Products:    msg.Products,
		Items:       msg.Items,
	})
	if err != nil {
		c.logger.Warn("Payment link request failed",
			zap.String("session_id", msg.SessionID),
			zap.String("kind", string(KindOf(err))),
		)
		return nil
	}

	c.logger.Info("Payment link request processed",
		zap.String("session_id", msg.SessionID),
		zap.String("result", result),
	)
	return nil
}
