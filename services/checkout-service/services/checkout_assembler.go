package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
	"github.com/yashrajoria/grocery-agent/services/checkout-service/providers"
)

const DefaultProductPageSize int64 = 100

// Stage is the assembler's position in a single request.
type Stage string

const (
	StageStarted          Stage = "Started"
	StageValidating       Stage = "Validating"
	StageResolving        Stage = "Resolving"
	StageCreatingArtifact Stage = "CreatingArtifact"
	StageSucceeded        Stage = "Succeeded"
	StageFailed           Stage = "Failed"
)

// CheckoutAssembler resolves an item list against the catalog and creates a
// single payment link for it. Any unresolved item fails the whole order.
type CheckoutAssembler struct {
	catalog  providers.CatalogProvider
	pageSize int64
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCheckoutAssembler(catalog providers.CatalogProvider, pageSize int64, logger *zap.Logger) *CheckoutAssembler {
	if pageSize <= 0 {
		pageSize = DefaultProductPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutAssembler{
		catalog:  catalog,
		pageSize: pageSize,
		validate: validator.New(),
		logger:   logger,
	}
}

// assembly is the per-call state. It never outlives Assemble.
type assembly struct {
	stage     Stage
	index     int
	lineItems []models.LineItem
	resolved  map[string]string // case-folded name -> price id
}

func (a *CheckoutAssembler) Assemble(ctx context.Context, items models.ItemList) (string, error) {
	st := &assembly{
		stage:     StageStarted,
		lineItems: make([]models.LineItem, 0, len(items)),
		resolved:  make(map[string]string, len(items)),
	}

	if len(items) == 0 {
		return "", a.fail(st, &CheckoutError{Kind: KindEmptyOrder})
	}

	for i, item := range items {
		st.index = i
		item.Name = strings.TrimSpace(item.Name)

		a.enter(st, StageValidating)
		if err := a.validate.Struct(item); err != nil {
			return "", a.fail(st, &CheckoutError{Kind: KindInvalidRecord, Name: item.Name, Err: err})
		}

		a.enter(st, StageResolving)
		priceID, err := a.resolve(ctx, st, item.Name)
		if err != nil {
			return "", a.fail(st, err)
		}
		st.lineItems = append(st.lineItems, models.LineItem{PriceID: priceID, Quantity: int64(item.Quantity)})
	}

	a.enter(st, StageCreatingArtifact)
	artifact, err := a.catalog.CreateCheckoutArtifact(ctx, st.lineItems)
	if err != nil {
		return "", a.fail(st, providerError(err))
	}
	if artifact == nil || artifact.URL == "" {
		return "", a.fail(st, providerError(errors.New("checkout artifact has no url")))
	}

	a.enter(st, StageSucceeded)
	a.logger.Info("checkout assembled",
		zap.Int("line_items", len(st.lineItems)),
		zap.String("artifact_id", artifact.ID),
	)
	return artifact.URL, nil
}

// resolve returns the current price id for name. Names already resolved in
// this call are not looked up again.
func (a *CheckoutAssembler) resolve(ctx context.Context, st *assembly, name string) (string, error) {
	key := strings.ToLower(name)
	if id, ok := st.resolved[key]; ok {
		return id, nil
	}

	var match *models.CatalogProduct
	err := a.catalog.ListProducts(ctx, a.pageSize, func(p models.CatalogProduct) bool {
		if strings.EqualFold(p.Name, name) {
			match = &p
			return false
		}
		return true
	})
	if err != nil {
		return "", providerError(err)
	}
	if match == nil {
		return "", &CheckoutError{Kind: KindProductNotFound, Name: name}
	}

	prices, err := a.catalog.ListPrices(ctx, match.ID, 1)
	if err != nil {
		return "", providerError(err)
	}
	if len(prices) == 0 {
		return "", &CheckoutError{Kind: KindPriceNotFound, Name: name, ProductID: match.ID}
	}

	a.logger.Debug("item resolved",
		zap.String("name", name),
		zap.String("product_id", match.ID),
		zap.String("price_id", prices[0].ID),
		zap.String("price", prices[0].DisplayAmount()),
	)
	st.resolved[key] = prices[0].ID
	return prices[0].ID, nil
}

func (a *CheckoutAssembler) enter(st *assembly, next Stage) {
	st.stage = next
	if ce := a.logger.Check(zap.DebugLevel, "assembler stage"); ce != nil {
		ce.Write(zap.String("stage", string(next)), zap.Int("item", st.index))
	}
}

func (a *CheckoutAssembler) fail(st *assembly, err error) error {
	var ce *CheckoutError
	if !errors.As(err, &ce) {
		ce = &CheckoutError{Kind: KindProviderError, Err: err}
	}
	ce.Stage = st.stage
	a.enter(st, StageFailed)

	fields := []zap.Field{
		zap.String("kind", string(ce.Kind)),
		zap.String("stage", string(ce.Stage)),
		zap.Int("item", st.index),
		zap.Error(err),
	}
	fields = append(fields, stripeFields(err)...)
	a.logger.Debug("checkout failed", fields...)
	return ce
}

func providerError(err error) error {
	return &CheckoutError{Kind: KindProviderError, Err: err}
}

// stripeFields extracts Stripe error details for logging, when present.
func stripeFields(err error) []zap.Field {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return nil
	}
	return []zap.Field{
		zap.String("stripe_code", string(se.Code)),
		zap.Int("stripe_status", se.HTTPStatusCode),
		zap.String("stripe_message", se.Msg),
		zap.String("stripe_request_id", se.RequestID),
	}
}
