package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/grocery-agent/pkg/aws"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/parser"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/providers"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/repository"
	"github.com/yashrajoria/grocery-agent/services/common/logger"
)

// MetricsRecorder is satisfied by pkg/aws.MetricsClient.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, name string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, name string, d time.Duration, dimensions map[string]string) error
}

// CatalogFactory builds a catalog client bound to an API key.
type CatalogFactory func(apiKey string) providers.CatalogProvider

// PaymentLinkService implements the agent's payment_link and current_time tools.
type PaymentLinkService interface {
	CreatePaymentLink(ctx context.Context, req models.PaymentLinkRequest) (string, error)
	CurrentTime() int64
}

// PaymentLinkDeps groups the collaborators of the payment link service.
// Repo, SNS, Metrics and Clock are optional.
type PaymentLinkDeps struct {
	Credentials providers.CredentialProvider
	NewCatalog  CatalogFactory
	Extractor   *parser.Extractor
	Repo        repository.PaymentLinkRepository
	SNS         awspkg.SNSPublisher
	SNSTopicArn string
	Metrics     MetricsRecorder
	PageSize    int64
	Logger      *zap.Logger
	Clock       func() time.Time
}

type paymentLinkServiceImpl struct {
	deps PaymentLinkDeps
}

func NewPaymentLinkService(deps PaymentLinkDeps) PaymentLinkService {
	if deps.Extractor == nil {
		deps.Extractor = parser.NewExtractor()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &paymentLinkServiceImpl{deps: deps}
}

// CreatePaymentLink returns "Payment Link URL: <url>" or a *CheckoutError.
func (s *paymentLinkServiceImpl) CreatePaymentLink(ctx context.Context, req models.PaymentLinkRequest) (string, error) {
	start := s.deps.Clock()
	log := logger.FromContext(ctx, s.deps.Logger).With(
		zap.String("session_id", req.SessionID),
		zap.String("action_group", req.ActionGroup),
		zap.String("input_text", req.InputText),
	)

	items := req.Items
	if len(items) == 0 {
		items = s.deps.Extractor.Extract(req.Products)
	}

	url, err := s.create(ctx, log, items)
	if err != nil {
		kind := KindOf(err)
		log.Error("Failed to create payment link",
			zap.String("kind", string(kind)),
			zap.Strings("items", items.Names()),
			zap.Error(err),
		)
		s.publish(ctx, log, models.PaymentLinkEvent{
			Type:      models.EventPaymentLinkFailed,
			SessionID: req.SessionID,
			ErrorKind: string(kind),
			ItemCount: len(items),
			Timestamp: s.deps.Clock().UTC(),
		})
		s.count(ctx, awspkg.MetricPaymentLinksFailed, map[string]string{"Kind": string(kind)})
		return "", err
	}

	now := s.deps.Clock().UTC()
	s.store(ctx, log, req.SessionID, url, len(items), now)
	s.publish(ctx, log, models.PaymentLinkEvent{
		Type:      models.EventPaymentLinkCreated,
		SessionID: req.SessionID,
		URL:       url,
		ItemCount: len(items),
		Timestamp: now,
	})
	s.count(ctx, awspkg.MetricPaymentLinksCreated, nil)
	if s.deps.Metrics != nil {
		_ = s.deps.Metrics.RecordLatency(ctx, awspkg.MetricPaymentLinkLatency, now.Sub(start), nil)
	}

	log.Info("Payment link created", zap.String("url", url), zap.Int("items", len(items)))
	return "Payment Link URL: " + url, nil
}

func (s *paymentLinkServiceImpl) create(ctx context.Context, log *zap.Logger, items models.ItemList) (string, error) {
	apiKey, err := s.deps.Credentials.CheckoutAPIKey(ctx)
	if err != nil || apiKey == "" {
		if err == nil {
			err = errors.New("checkout api key is empty")
		}
		return "", &CheckoutError{Kind: KindMissingCredential, Stage: StageStarted, Err: err}
	}

	assembler := NewCheckoutAssembler(s.deps.NewCatalog(apiKey), s.deps.PageSize, log)
	return assembler.Assemble(ctx, items)
}

func (s *paymentLinkServiceImpl) CurrentTime() int64 {
	return s.deps.Clock().Unix()
}

func (s *paymentLinkServiceImpl) store(ctx context.Context, log *zap.Logger, sessionID, url string, itemCount int, now time.Time) {
	if s.deps.Repo == nil {
		return
	}
	record := &models.PaymentLinkRecord{
		PK:        "SESSION#" + sessionID,
		SK:        fmt.Sprintf("PAYMENT_LINK#%s#%s", now.Format(time.RFC3339Nano), uuid.NewString()),
		SessionID: sessionID,
		URL:       url,
		ItemCount: itemCount,
		CreatedAt: now,
	}
	if err := s.deps.Repo.Put(ctx, record); err != nil {
		log.Warn("Failed to store payment link record", zap.Error(err))
	}
}

func (s *paymentLinkServiceImpl) publish(ctx context.Context, log *zap.Logger, event models.PaymentLinkEvent) {
	if s.deps.SNS == nil || s.deps.SNSTopicArn == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Warn("Failed to encode payment link event", zap.Error(err))
		return
	}
	if err := s.deps.SNS.Publish(ctx, s.deps.SNSTopicArn, payload); err != nil {
		log.Warn("Failed to publish payment link event", zap.String("type", event.Type), zap.Error(err))
	}
}

func (s *paymentLinkServiceImpl) count(ctx context.Context, name string, dims map[string]string) {
	if s.deps.Metrics == nil {
		return
	}
	_ = s.deps.Metrics.RecordCount(ctx, name, dims)
}
