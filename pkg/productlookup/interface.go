// Package productlookup defines how a barcode is resolved to product
// metadata. Resolution is best effort: callers continue without a product
// when it fails.
package productlookup

import (
	"context"
	"medscan/pkg/domain"
)

// Resolver looks up product metadata for a barcode with a single round trip.
// Errors carry one of the serrors kinds ErrNotFound (no product known),
// ErrTransport (network, timeout, unexpected status) or ErrDecode (malformed body).
//
//go:generate mockgen -package mockproductlookup -source=interface.go -destination=mock/mockproductlookup.go *
type Resolver interface {
	Resolve(ctx context.Context, code domain.BarcodeCode) (*domain.ProductRecord, error)
}
