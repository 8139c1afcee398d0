// Package vault stores and retrieves the API credential used to call the
// safety analysis service. The Vault type holds the rules (a missing or empty
// secret is CREDENTIAL_MISSING, the secret is never logged); Backends only
// persist strings keyed by service and account.
//
//go:generate mockgen -package mockvault -source=interface.go -destination=mock/mockvault.go *
package vault

import (
	"context"
	"medscan/pkg/domain"
)

// Vault is the credential store seen by the rest of the application.
type Vault interface {
	// Get returns the stored credential. It fails with serrors.ErrCredentialMissing
	// when nothing usable is stored; callers treat that as fatal to the request only.
	Get(ctx context.Context) (domain.APICredential, error)
	// Set persists secret, replacing any previous value.
	Set(ctx context.Context, secret string) error
}

// Backend persists secrets at rest. Read returns an error matching
// serrors.ErrNotFound when no secret exists for the pair.
type Backend interface {
	Read(ctx context.Context, service, account string) (string, error)
	Write(ctx context.Context, service, account, secret string) error
}
