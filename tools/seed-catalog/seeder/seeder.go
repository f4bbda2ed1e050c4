// Package seeder loads a product list and creates a Stripe product and price
// for every entry, so the agent has a catalog to resolve against.
package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	awspkg "github.com/yashrajoria/grocery-agent/pkg/aws"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/providers"
)

// ObjectReader is satisfied by pkg/aws.S3Reader.
type ObjectReader interface {
	ReadObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Load reads the product list from a local path or an s3://bucket/key URI.
func Load(ctx context.Context, source string, s3 ObjectReader) ([]models.CatalogEntry, error) {
	var data []byte
	var err error
	if strings.HasPrefix(source, "s3://") {
		bucket, key, ok := awspkg.ParseS3URI(source)
		if !ok {
			return nil, fmt.Errorf("invalid s3 uri %q", source)
		}
		if s3 == nil {
			return nil, fmt.Errorf("no s3 client for %q", source)
		}
		data, err = s3.ReadObject(ctx, bucket, key)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read product list: %w", err)
	}

	var entries []models.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	return entries, nil
}

// Summary counts the outcome of a run.
type Summary struct {
	Created int
	Failed  int
	Errors  []error
}

type Seeder struct {
	writer   providers.CatalogWriter
	currency string
	logger   *zap.Logger
}

func New(writer providers.CatalogWriter, currency string, logger *zap.Logger) *Seeder {
	if currency == "" {
		currency = "usd"
	}
	return &Seeder{writer: writer, currency: strings.ToLower(currency), logger: logger}
}

// Run creates every entry. A failing entry is logged and skipped.
func (s *Seeder) Run(ctx context.Context, entries []models.CatalogEntry) Summary {
	var sum Summary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			sum.Failed++
			sum.Errors = append(sum.Errors, err)
			continue
		}
		if err := s.seed(ctx, entry); err != nil {
			s.logger.Error("Failed to create product or price",
				zap.String("name", entry.Name),
				zap.String("product_id", entry.ProductID),
				zap.Error(err),
			)
			sum.Failed++
			sum.Errors = append(sum.Errors, err)
			continue
		}
		sum.Created++
	}
	return sum
}

func (s *Seeder) seed(ctx context.Context, entry models.CatalogEntry) error {
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("entry %q has no name", entry.ProductID)
	}
	if entry.Price <= 0 {
		return fmt.Errorf("entry %q has no price", entry.Name)
	}

	productID, err := s.writer.CreateProduct(ctx, entry)
	if err != nil {
		return err
	}
	s.logger.Info("Product created", zap.String("name", entry.Name), zap.String("id", productID))

	priceID, err := s.writer.CreatePrice(ctx, productID, entry.Price, s.currency)
	if err != nil {
		return err
	}
	price := models.Price{ID: priceID, UnitAmount: entry.Price, Currency: s.currency}
	s.logger.Info("Price created", zap.String("price", price.DisplayAmount()), zap.String("id", priceID))
	return nil
}
