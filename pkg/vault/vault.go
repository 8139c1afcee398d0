package vault

import (
	"context"
	"errors"
	"medscan/pkg/domain"
	"medscan/pkg/logger"
	"medscan/pkg/serrors"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultService is the service identifier credentials are filed under.
	DefaultService = "com.yourdrugs.app"
	// DefaultAccount is the account name of the analysis service key.
	DefaultAccount = "openrouter_api_key"
)

// Options select where in the backend the credential lives.
type Options struct {
	Service string
	Account string
}

type vault struct {
	backend Backend
	service string
	account string
}

// Get reads the credential from the backend on every call; nothing is cached.
func (v *vault) Get(ctx context.Context) (domain.APICredential, error) {
	secret, err := v.backend.Read(ctx, v.service, v.account)
	if err != nil {
		if errors.Is(err, serrors.ErrNotFound) {
			return "", serrors.With(serrors.ErrCredentialMissing, "no API credential configured")
		}

		logger.Warn(ctx, "could not read credential from backend", zap.String("service", v.service), zap.Error(err))

		return "", serrors.Wrap(serrors.ErrCredentialMissing, err, "could not read API credential")
	}
	if strings.TrimSpace(secret) == "" {
		return "", serrors.With(serrors.ErrCredentialMissing, "stored API credential is empty")
	}

	return domain.APICredential(secret), nil
}

// Set validates and stores secret. Surrounding whitespace is dropped because
// pasted keys often carry a trailing newline.
func (v *vault) Set(ctx context.Context, secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return serrors.With(serrors.ErrValidation, "API credential must not be empty")
	}

	if err := v.backend.Write(ctx, v.service, v.account, secret); err != nil {
		return serrors.Wrap(serrors.ErrStorage, err, "could not store API credential")
	}

	logger.Info(ctx, "API credential stored",
		zap.String("service", v.service),
		logger.Secret("credential", secret))

	return nil
}

// New returns a Vault over backend. Empty options fall back to DefaultService
// and DefaultAccount.
func New(backend Backend, options Options) Vault {
	if options.Service == "" {
		options.Service = DefaultService
	}
	if options.Account == "" {
		options.Account = DefaultAccount
	}

	return &vault{
		backend: backend,
		service: options.Service,
		account: options.Account,
	}
}
