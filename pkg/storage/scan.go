package storage

import (
	"context"
	"medscan/pkg/domain"
	"time"
)

// ScanPage groups a page of scans together with an optional NextCursor used
// for pagination.
type ScanPage struct {
	// Scans contains the current page of scan records, newest first.
	Scans []domain.Scan
	// NextCursor points to the timestamp to be used as the cursor for fetching
	// the next page. It is nil when there is no next page.
	NextCursor *time.Time
}

// ScanStorage records finished scans.
type ScanStorage interface {
	// StoreScan inserts a scan, or replaces the stored row with the same ID.
	StoreScan(ctx context.Context, scan domain.Scan) error
	// Scans returns scans started before the optional cursor time, newest
	// first, limited by limit. If state is non-empty only scans in that state
	// are returned.
	Scans(ctx context.Context, state domain.ScanState, cursor time.Time, limit uint) (ScanPage, error)
	// ScanByID fetches a scan by its ID. Returns nil when not found.
	ScanByID(ctx context.Context, id domain.ScanID) (*domain.Scan, error)
	// PruneScans deletes all but the keep most recently started scans and
	// returns the number of deleted rows. keep == 0 deletes nothing.
	PruneScans(ctx context.Context, keep uint) (int64, error)
}
