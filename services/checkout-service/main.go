package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	awspkg "github.com/yashrajoria/grocery-agent/pkg/aws"
	dynamodbpkg "github.com/yashrajoria/grocery-agent/pkg/dynamodb"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/controllers"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/database"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/parser"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/providers"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/repository"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/routes"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/services"
	apperrors "github.com/yashrajoria/grocery-agent/services/common/errors"
	"github.com/yashrajoria/grocery-agent/services/common/logger"
	"github.com/yashrajoria/grocery-agent/services/common/middleware"
)

const serviceName = "checkout-service"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[CheckoutService] No .env file found, using system environment variables")
	}

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("[CheckoutService] Failed to load config: %v", err)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, awsErr := awspkg.LoadAWSConfig(rootCtx)

	var cwWriter io.Writer
	if cfg.CloudWatchEnabled && awsErr == nil {
		cw, err := awspkg.NewCloudWatchLogsClient(rootCtx, awsCfg, cfg.CloudWatchLogGroup, serviceName, true)
		if err != nil {
			log.Printf("[CheckoutService] CloudWatch Logs disabled: %v", err)
		} else {
			cwWriter = cw
		}
	}

	zl, err := logger.New(cfg.Environment, cwWriter)
	if err != nil {
		log.Fatalf("[CheckoutService] Failed to init logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if awsErr != nil {
		zl.Warn("AWS config unavailable, AWS integrations disabled", zap.Error(awsErr))
	}

	// Metrics
	var metricsClient *awspkg.MetricsClient
	if awsErr == nil {
		metricsClient = awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchMetricsNamespace, cfg.CloudWatchEnabled)
	}

	// Credentials
	var creds providers.CredentialProvider = providers.StaticCredentials{Key: cfg.StripeAPIKey}
	var secrets *awspkg.SecretsClient
	if cfg.UseSecrets && awsErr == nil {
		secrets = awspkg.NewSecretsClient(awsCfg)
		creds = providers.NewSecretsManagerCredentials(secrets, cfg.StripeSecretName, cfg.StripeSecretField)
	}

	// Record store
	repo, db := openRecordStore(rootCtx, cfg, awsCfg, awsErr, secrets, zl)
	defer database.Close(db) //nolint:errcheck

	// SNS
	var snsClient awspkg.SNSPublisher
	if awsErr == nil && cfg.PaymentLinkSNSTopicARN != "" {
		snsClient = awspkg.NewSNSClient(awsCfg)
	}

	extractorOpts := []parser.Option{}
	if cfg.ParseUnits {
		extractorOpts = append(extractorOpts, parser.WithUnits())
	}

	backends := providers.NewStripeBackends(cfg.StripeAPIURL)
	deps := services.PaymentLinkDeps{
		Credentials: creds,
		NewCatalog: func(apiKey string) providers.CatalogProvider {
			return providers.NewStripeCatalog(apiKey, backends)
		},
		Extractor:   parser.NewExtractor(extractorOpts...),
		Repo:        repo,
		SNS:         snsClient,
		SNSTopicArn: cfg.PaymentLinkSNSTopicARN,
		PageSize:    cfg.ProductPageSize,
		Logger:      zl,
	}
	if metricsClient != nil {
		deps.Metrics = metricsClient
	}
	paymentLinkService := services.NewPaymentLinkService(deps)

	// Queue transport
	if cfg.PaymentLinkRequestQueueURL != "" && awsErr == nil {
		sqsConsumer := awspkg.NewSQSConsumer(awsCfg, cfg.PaymentLinkRequestQueueURL, zl)
		consumer := services.NewPaymentLinkRequestConsumer(sqsConsumer, paymentLinkService, deps.Metrics, zl)
		go consumer.Start(rootCtx)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst, 10*time.Minute)
	go limiter.RunCleanup(rootCtx)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(zl),
		middleware.SecurityHeaders(),
		middleware.MetricsMiddleware(metricsClient, serviceName),
		apperrors.ErrorMiddleware(),
		middleware.RateLimitMiddleware(limiter),
		middleware.Timeout(30*time.Second),
	)

	routes.RegisterToolRoutes(r,
		controllers.NewToolController(paymentLinkService),
		controllers.NewBedrockController(paymentLinkService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	zl.Info("Checkout service started", zap.String("port", cfg.Port), zap.String("record_store", cfg.RecordStore))
	<-rootCtx.Done()
	zl.Info("Shutting down checkout service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	zl.Info("Server exited cleanly")
}

// openRecordStore returns nil when no store is configured or it cannot be
// reached. Records are best effort, so the service still starts.
func openRecordStore(ctx context.Context, cfg *Config, awsCfg sdkaws.Config, awsErr error, secrets *awspkg.SecretsClient, zl *zap.Logger) (repository.PaymentLinkRepository, *gorm.DB) {
	switch cfg.RecordStore {
	case RecordStoreDynamoDB:
		if awsErr != nil {
			zl.Warn("DynamoDB record store disabled", zap.Error(awsErr))
			return nil, nil
		}
		client := dynamodbpkg.NewClientFromConfig(awsCfg)
		return repository.NewDynamoPaymentLinkRepository(client, cfg.EcommerceTableName), nil

	case RecordStorePostgres:
		if secrets != nil {
			if raw, err := secrets.GetSecret(ctx, "checkout/DB_CREDENTIALS"); err == nil && raw != "" {
				if err := cfg.applyDBSecret(raw); err != nil {
					zl.Warn("Ignoring DB credentials secret", zap.Error(err))
				}
			}
		}
		db, err := database.ConnectPostgres(cfg.Postgres, 5, zl, &models.PaymentLinkRecord{})
		if err != nil {
			zl.Warn("Postgres record store disabled", zap.Error(err))
			return nil, nil
		}
		return repository.NewGormPaymentLinkRepository(db), db
	}
	return nil, nil
}
