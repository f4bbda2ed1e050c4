package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/database"
)

const (
	RecordStoreNone     = "none"
	RecordStoreDynamoDB = "dynamodb"
	RecordStorePostgres = "postgres"
)

// Config holds all configuration for the checkout service.
type Config struct {
	Port        string
	Environment string

	StripeAPIKey      string
	StripeAPIURL      string // empty means api.stripe.com
	StripeSecretName  string
	StripeSecretField string
	UseSecrets        bool

	ProductPageSize int64
	ParseUnits      bool

	RecordStore        string
	EcommerceTableName string
	Postgres           database.PostgresConfig

	PaymentLinkSNSTopicARN     string
	PaymentLinkRequestQueueURL string
	CloudWatchEnabled          bool
	CloudWatchLogGroup         string
	CloudWatchMetricsNamespace string
	RateLimitPerSecond         float64
	RateLimitBurst             int
}

// LoadConfig reads configuration from environment variables. The Stripe key
// is resolved per request, so a missing key is not a startup error.
func LoadConfig() (*Config, error) {
	pageSize, err := strconv.ParseInt(getEnv("PRODUCT_PAGE_SIZE", "100"), 10, 64)
	if err != nil || pageSize <= 0 || pageSize > 100 {
		return nil, fmt.Errorf("PRODUCT_PAGE_SIZE must be between 1 and 100")
	}
	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number")
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil || burst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8093"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		StripeAPIKey:      os.Getenv("STRIPE_API_KEY"),
		StripeAPIURL:      os.Getenv("STRIPE_API_URL"),
		StripeSecretName:  getEnv("STRIPE_SECRET_NAME", "dev/stripe-secret"),
		StripeSecretField: getEnv("STRIPE_SECRET_FIELD", "STRIPE_SECRET_KEY"),
		UseSecrets:        os.Getenv("AWS_USE_SECRETS") == "true",
		ProductPageSize:   pageSize,
		ParseUnits:        os.Getenv("PARSE_UNITS") == "true",

		RecordStore:        strings.ToLower(getEnv("RECORD_STORE", RecordStoreNone)),
		EcommerceTableName: os.Getenv("ECOMMERCE_TABLE_NAME"),
		Postgres: database.PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},

		PaymentLinkSNSTopicARN:     os.Getenv("PAYMENT_LINK_SNS_TOPIC_ARN"),
		PaymentLinkRequestQueueURL: os.Getenv("PAYMENT_LINK_REQUEST_QUEUE_URL"),
		CloudWatchEnabled:          os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchLogGroup:         getEnv("CLOUDWATCH_LOG_GROUP", "/grocery-agent/services"),
		CloudWatchMetricsNamespace: getEnv("CLOUDWATCH_NAMESPACE", "GroceryAgent"),
		RateLimitPerSecond:         rps,
		RateLimitBurst:             burst,
	}

	switch cfg.RecordStore {
	case RecordStoreNone:
	case RecordStoreDynamoDB:
		if cfg.EcommerceTableName == "" {
			return nil, fmt.Errorf("ECOMMERCE_TABLE_NAME is required when RECORD_STORE=dynamodb")
		}
	case RecordStorePostgres:
		// Credentials may still arrive from Secrets Manager, see applyDBSecret.
		if !cfg.UseSecrets {
			if err := cfg.Postgres.Validate(); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown RECORD_STORE %q", cfg.RecordStore)
	}

	return cfg, nil
}

// applyDBSecret overrides the Postgres settings with the fields present in a
// JSON secret such as checkout/DB_CREDENTIALS.
func (c *Config) applyDBSecret(secret string) error {
	var m map[string]string
	if err := json.Unmarshal([]byte(secret), &m); err != nil {
		return fmt.Errorf("decode db secret: %w", err)
	}
	if v := m["POSTGRES_USER"]; v != "" {
		c.Postgres.User = v
	}
	if v := m["POSTGRES_PASSWORD"]; v != "" {
		c.Postgres.Password = v
	}
	if v := m["POSTGRES_DB"]; v != "" {
		c.Postgres.DB = v
	}
	if v := m["POSTGRES_HOST"]; v != "" {
		c.Postgres.Host = v
	}
	if v := m["POSTGRES_PORT"]; v != "" {
		c.Postgres.Port = v
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
