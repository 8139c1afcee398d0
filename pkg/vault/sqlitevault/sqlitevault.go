// Package sqlitevault is a vault.Backend that keeps secrets in a local SQLite
// database file, for hosts without an OS keychain.
package sqlitevault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"medscan/pkg/serrors"
	"medscan/pkg/vault"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	service    TEXT NOT NULL,
	account    TEXT NOT NULL,
	secret     TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (service, account)
)`

// Backend implements vault.Backend on top of database/sql with the pure-Go
// modernc SQLite driver.
type Backend struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Backend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open sqlite database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("could not initialize credentials schema: %w", err)
	}

	return &Backend{db: db}, nil
}

// Read returns the secret for service and account.
func (b *Backend) Read(ctx context.Context, service, account string) (string, error) {
	var secret string
	err := b.db.QueryRowContext(ctx,
		`SELECT secret FROM credentials WHERE service = ? AND account = ?`,
		service, account).Scan(&secret)
	if errors.Is(err, sql.ErrNoRows) {
		return "", serrors.With(serrors.ErrNotFound, "no secret for %s", service)
	}
	if err != nil {
		return "", fmt.Errorf("could not query credential: %w", err)
	}

	return secret, nil
}

// Write upserts the secret for service and account.
func (b *Backend) Write(ctx context.Context, service, account, secret string) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO credentials (service, account, secret, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(service, account) DO UPDATE SET
			secret = excluded.secret,
			updated_at = excluded.updated_at`,
		service, account, secret)
	if err != nil {
		return fmt.Errorf("could not upsert credential: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("could not close sqlite database: %w", err)
	}

	return nil
}

var _ vault.Backend = (*Backend)(nil)
