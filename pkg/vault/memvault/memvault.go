// Package memvault is an in-process vault.Backend. Secrets live only as long
// as the process; it backs tests and the "memory" vault configuration.
package memvault

import (
	"context"
	"medscan/pkg/serrors"
	"medscan/pkg/vault"
	"sync"
)

// Backend keeps secrets in a map guarded by a mutex. The zero value is an
// empty Backend ready to use.
type Backend struct {
	mu      sync.RWMutex
	secrets map[string]string
}

func key(service, account string) string { return service + "\x00" + account }

// Read returns the secret for service and account.
func (b *Backend) Read(_ context.Context, service, account string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	secret, ok := b.secrets[key(service, account)]
	if !ok {
		return "", serrors.With(serrors.ErrNotFound, "no secret for %s", service)
	}

	return secret, nil
}

// Write stores the secret, overwriting any previous value.
func (b *Backend) Write(_ context.Context, service, account, secret string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.secrets == nil {
		b.secrets = map[string]string{}
	}
	b.secrets[key(service, account)] = secret

	return nil
}

var _ vault.Backend = (*Backend)(nil)

// New returns an empty Backend.
func New() *Backend {
	return &Backend{secrets: map[string]string{}}
}
