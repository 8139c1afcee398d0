// Package keyringvault is a vault.Backend over the operating system keychain
// (macOS Keychain, Secret Service on Linux, Windows Credential Manager).
package keyringvault

import (
	"context"
	"errors"
	"fmt"
	"medscan/pkg/serrors"
	"medscan/pkg/vault"

	"github.com/zalando/go-keyring"
)

// Backend delegates to go-keyring. The keychain calls are synchronous and
// do not observe the context.
type Backend struct{}

// Read returns the secret stored under service and account.
func (Backend) Read(_ context.Context, service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", serrors.Wrap(serrors.ErrNotFound, err, "no secret for %s", service)
	}
	if err != nil {
		return "", fmt.Errorf("could not read keychain: %w", err)
	}

	return secret, nil
}

// Write stores the secret under service and account.
func (Backend) Write(_ context.Context, service, account, secret string) error {
	if err := keyring.Set(service, account, secret); err != nil {
		return fmt.Errorf("could not write keychain: %w", err)
	}

	return nil
}

var _ vault.Backend = Backend{}

// New returns a keychain backend.
func New() Backend { return Backend{} }
