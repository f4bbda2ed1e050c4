package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a payment link could not be created. Kinds are
// for logs and metrics; callers only ever see a generic failure.
type ErrorKind string

const (
	KindMissingCredential ErrorKind = "MissingCredential"
	KindEmptyOrder        ErrorKind = "EmptyOrder"
	KindInvalidRecord     ErrorKind = "InvalidRecord"
	KindProductNotFound   ErrorKind = "ProductNotFound"
	KindPriceNotFound     ErrorKind = "PriceNotFound"
	KindProviderError     ErrorKind = "ProviderError"
)

// Kinds lists every kind a failure event or metric dimension can carry.
func Kinds() []ErrorKind {
	return []ErrorKind{
		KindMissingCredential,
		KindEmptyOrder,
		KindInvalidRecord,
		KindProductNotFound,
		KindPriceNotFound,
		KindProviderError,
	}
}

// Sentinels for errors.Is. A *CheckoutError matches the sentinel of its kind.
var (
	ErrMissingCredential = &CheckoutError{Kind: KindMissingCredential}
	ErrEmptyOrder        = &CheckoutError{Kind: KindEmptyOrder}
	ErrInvalidRecord     = &CheckoutError{Kind: KindInvalidRecord}
	ErrProductNotFound   = &CheckoutError{Kind: KindProductNotFound}
	ErrPriceNotFound     = &CheckoutError{Kind: KindPriceNotFound}
	ErrProviderError     = &CheckoutError{Kind: KindProviderError}
)

// CheckoutError aborts a whole payment link request.
type CheckoutError struct {
	Kind      ErrorKind
	Name      string // item name, ProductNotFound and InvalidRecord
	ProductID string // PriceNotFound
	Stage     Stage  // assembler stage the request failed in
	Err       error
}

func (e *CheckoutError) Error() string {
	var msg string
	switch e.Kind {
	case KindProductNotFound:
		msg = fmt.Sprintf("product not found: %q", e.Name)
	case KindPriceNotFound:
		msg = fmt.Sprintf("price not found for product %s", e.ProductID)
	case KindInvalidRecord:
		msg = fmt.Sprintf("invalid item record %q", e.Name)
	default:
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *CheckoutError) Unwrap() error { return e.Err }

func (e *CheckoutError) Is(target error) bool {
	t, ok := target.(*CheckoutError)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of err, or ProviderError for foreign errors.
func KindOf(err error) ErrorKind {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindProviderError
}
