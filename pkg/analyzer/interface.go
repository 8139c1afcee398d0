// Package analyzer asks a language model whether a medication is safe for a
// health profile and classifies the free-form reply into a verdict.
package analyzer

import (
	"context"
	"medscan/pkg/domain"
)

// Analyzer performs one safety analysis round trip. product is optional
// context from a product lookup and may be nil.
//
// Errors carry one of the serrors kinds ErrCredentialMissing (no credential,
// nothing was sent), ErrTransport, ErrEmptyReply or ErrDecode.
//
//go:generate mockgen -package mockanalyzer -source=interface.go -destination=mock/mockanalyzer.go *
type Analyzer interface {
	Analyze(
		ctx context.Context,
		code domain.BarcodeCode,
		profile domain.HealthProfile,
		product *domain.ProductRecord,
	) (*domain.SafetyVerdict, error)
}
