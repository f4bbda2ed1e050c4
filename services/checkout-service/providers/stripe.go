package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
)

// StripeCatalog implements CatalogProvider and CatalogWriter on the Stripe
// API. Each instance carries its own key so callers never touch stripe.Key.
type StripeCatalog struct {
	sc *client.API
}

// NewStripeBackends points every Stripe backend at url. An empty url keeps
// the default api.stripe.com backends.
func NewStripeBackends(url string) *stripe.Backends {
	if url == "" {
		return nil
	}
	return stripe.NewBackendsWithConfig(&stripe.BackendConfig{
		URL:               stripe.String(url),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
}

func NewStripeCatalog(apiKey string, backends *stripe.Backends) *StripeCatalog {
	sc := &client.API{}
	sc.Init(apiKey, backends)
	return &StripeCatalog{sc: sc}
}

func (s *StripeCatalog) ListProducts(ctx context.Context, pageSize int64, visit func(models.CatalogProduct) bool) error {
	params := &stripe.ProductListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(pageSize)

	it := s.sc.Products.List(params)
	for it.Next() {
		p := it.Product()
		if !visit(models.CatalogProduct{ID: p.ID, Name: p.Name}) {
			return nil
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	return nil
}

func (s *StripeCatalog) ListPrices(ctx context.Context, productID string, limit int64) ([]models.Price, error) {
	params := &stripe.PriceListParams{Product: stripe.String(productID)}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)
	params.Single = true

	var prices []models.Price
	it := s.sc.Prices.List(params)
	for it.Next() {
		p := it.Price()
		prices = append(prices, models.Price{ID: p.ID, UnitAmount: p.UnitAmount, Currency: string(p.Currency)})
		if int64(len(prices)) >= limit {
			break
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list prices for %s: %w", productID, err)
	}
	return prices, nil
}

func (s *StripeCatalog) CreateCheckoutArtifact(ctx context.Context, lineItems []models.LineItem) (*models.CheckoutArtifact, error) {
	params := &stripe.PaymentLinkParams{}
	params.Context = ctx
	for _, li := range lineItems {
		params.LineItems = append(params.LineItems, &stripe.PaymentLinkLineItemParams{
			Price:    stripe.String(li.PriceID),
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	link, err := s.sc.PaymentLinks.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment link: %w", err)
	}
	return &models.CheckoutArtifact{ID: link.ID, URL: link.URL}, nil
}

// CreateProduct creates a product for a seed entry and returns its id.
func (s *StripeCatalog) CreateProduct(ctx context.Context, entry models.CatalogEntry) (string, error) {
	pkg, err := json.Marshal(entry.Package)
	if err != nil {
		return "", fmt.Errorf("encode package: %w", err)
	}

	params := &stripe.ProductParams{
		Name:        stripe.String(entry.Name),
		Description: stripe.String(entry.Description),
		Images:      stripe.StringSlice(entry.Pictures),
		Metadata: map[string]string{
			"category":     entry.Category,
			"createdDate":  entry.CreatedDate,
			"modifiedDate": entry.ModifiedDate,
			"productId":    entry.ProductID,
			"tags":         strings.Join(entry.Tags, ", "),
			"package":      string(pkg),
		},
	}
	params.Context = ctx

	p, err := s.sc.Products.New(params)
	if err != nil {
		return "", fmt.Errorf("create product %s: %w", entry.Name, err)
	}
	return p.ID, nil
}

func (s *StripeCatalog) CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (string, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(unitAmount),
		Currency:   stripe.String(currency),
	}
	params.Context = ctx

	p, err := s.sc.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("create price for %s: %w", productID, err)
	}
	return p.ID, nil
}
