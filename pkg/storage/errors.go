package storage

import "medscan/pkg/serrors"

// Transaction misuse errors. Both carry serrors.ErrStorage so API handlers
// report them as storage failures.
var (
	// ErrAlreadyInTx is returned by Begin and Migrate on a transactional handle.
	ErrAlreadyInTx = serrors.With(serrors.ErrStorage, "already in tx")
	// ErrNotInTx is returned by Commit and Rollback outside a transaction.
	ErrNotInTx = serrors.With(serrors.ErrStorage, "not in tx")
)
