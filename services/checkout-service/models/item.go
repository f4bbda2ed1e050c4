package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ItemRecord is one requested product line. An empty Unit means absent.
type ItemRecord struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Unit     string `json:"unit,omitempty"`
}

// ItemList keeps input order. Duplicate names stay separate entries.
type ItemList []ItemRecord

// Names returns the item names in order, for logging.
func (l ItemList) Names() []string {
	names := make([]string, 0, len(l))
	for _, it := range l {
		names = append(names, it.Name)
	}
	return names
}

// CatalogProduct is a product as listed by the catalog provider.
type CatalogProduct struct {
	ID   string
	Name string
}

// Price is a catalog price. UnitAmount is in the currency's minor units.
type Price struct {
	ID         string
	UnitAmount int64
	Currency   string
}

// Minor unit exponents that differ from 2, per Stripe's currency list.
var currencyExponents = map[string]int32{
	"bif": 0, "clp": 0, "djf": 0, "gnf": 0, "jpy": 0, "kmf": 0, "krw": 0, "mga": 0,
	"pyg": 0, "rwf": 0, "ugx": 0, "vnd": 0, "vuv": 0, "xaf": 0, "xof": 0, "xpf": 0,
	"bhd": 3, "jod": 3, "kwd": 3, "omr": 3, "tnd": 3,
}

// DisplayAmount renders the price in major units, e.g. "3.50 USD" or "500 JPY".
func (p Price) DisplayAmount() string {
	exp, ok := currencyExponents[strings.ToLower(p.Currency)]
	if !ok {
		exp = 2
	}
	return decimal.New(p.UnitAmount, -exp).StringFixed(exp) + " " + strings.ToUpper(p.Currency)
}

// LineItem is a price and the quantity ordered at that price.
type LineItem struct {
	PriceID  string
	Quantity int64
}

// CheckoutArtifact is the provider's aggregate checkout result.
type CheckoutArtifact struct {
	ID  string
	URL string
}
