package providers

import (
	"context"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
)

// CatalogProvider is the product catalog and checkout backend the assembler
// resolves items against.
type CatalogProvider interface {
	// ListProducts calls visit for every product, following pagination with
	// pages of pageSize, until visit returns false or the listing is exhausted.
	ListProducts(ctx context.Context, pageSize int64, visit func(models.CatalogProduct) bool) error

	// ListPrices returns at most limit prices of the product, current first.
	ListPrices(ctx context.Context, productID string, limit int64) ([]models.Price, error)

	// CreateCheckoutArtifact builds one aggregate checkout for all line items.
	CreateCheckoutArtifact(ctx context.Context, lineItems []models.LineItem) (*models.CheckoutArtifact, error)
}

// CatalogWriter adds products to the catalog. Used by the seeder.
type CatalogWriter interface {
	CreateProduct(ctx context.Context, entry models.CatalogEntry) (string, error)
	CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error)
}
