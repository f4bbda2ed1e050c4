package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/grocery-agent/pkg/aws"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/providers"
	"github.com/yashrajoria/grocery-agent/services/common/logger"
	"github.com/yashrajoria/grocery-agent/tools/seed-catalog/seeder"
)

func main() {
	_ = godotenv.Load()

	var source, currency, secretName, secretField, apiURL string
	flag.StringVar(&source, "source", getEnv("PRODUCT_LIST_SOURCE", "product_list.json"), "product list path or s3://bucket/key")
	flag.StringVar(&currency, "currency", "usd", "price currency")
	flag.StringVar(&secretName, "secret-name", getEnv("STRIPE_SECRET_NAME", "dev/stripe-secret"), "Secrets Manager secret holding the Stripe key")
	flag.StringVar(&secretField, "secret-field", getEnv("STRIPE_SECRET_FIELD", "STRIPE_SECRET_KEY"), "JSON field of the Stripe key in the secret")
	flag.StringVar(&apiURL, "stripe-url", os.Getenv("STRIPE_API_URL"), "Stripe API base URL override")
	flag.Parse()

	zl, err := logger.New(getEnv("ENVIRONMENT", "development"), nil)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	ctx := context.Background()
	awsCfg, awsErr := awspkg.LoadAWSConfig(ctx)

	var s3 seeder.ObjectReader
	if awsErr == nil {
		s3 = awspkg.NewS3Reader(awspkg.NewS3Client(awsCfg))
	}

	var creds providers.CredentialProvider = providers.StaticCredentials{Key: os.Getenv("STRIPE_API_KEY")}
	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsErr != nil {
			zl.Fatal("AWS_USE_SECRETS set but AWS config unavailable", zap.Error(awsErr))
		}
		creds = providers.NewSecretsManagerCredentials(awspkg.NewSecretsClient(awsCfg), secretName, secretField)
	}

	apiKey, err := creds.CheckoutAPIKey(ctx)
	if err != nil || apiKey == "" {
		zl.Fatal("Stripe API key not set", zap.Error(err))
	}

	entries, err := seeder.Load(ctx, source, s3)
	if err != nil {
		zl.Fatal("Failed to load product list", zap.String("source", source), zap.Error(err))
	}

	catalog := providers.NewStripeCatalog(apiKey, providers.NewStripeBackends(apiURL))
	sum := seeder.New(catalog, currency, zl).Run(ctx, entries)

	if awsErr == nil {
		metrics := awspkg.NewMetricsClient(awsCfg, getEnv("CLOUDWATCH_NAMESPACE", "GroceryAgent"), os.Getenv("CLOUDWATCH_ENABLED") == "true")
		_ = metrics.PutMetric(ctx, awspkg.MetricCatalogSeeded, float64(sum.Created), "Count", nil)
	}

	zl.Info("Catalog seeding finished", zap.Int("created", sum.Created), zap.Int("failed", sum.Failed))
	if sum.Failed > 0 {
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
