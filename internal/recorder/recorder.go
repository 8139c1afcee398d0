// Package recorder persists the scans produced by the pipeline.
package recorder

import (
	"context"
	"medscan/internal/pipeline"
	"medscan/pkg/domain"
	"medscan/pkg/logger"
	"medscan/pkg/storage"
	"time"

	"go.uber.org/zap"
)

const defaultStoreTimeout = 5 * time.Second

// Recorder stores every scan the pipeline finishes, superseded scans
// included. When retention is set, older scans are pruned in the same
// transaction as the insert.
type Recorder struct {
	pipeline     pipeline.Pipeline
	storage      storage.Storage
	retention    uint
	storeTimeout time.Duration
}

// Run stores finished scans until ctx is done and the scans finished before
// that are stored. Storage failures are logged and do not stop recording.
func (r *Recorder) Run(ctx context.Context) error {
	for scan := range r.pipeline.Finished(ctx) {
		r.store(ctx, scan)
	}

	return nil
}

func (r *Recorder) store(ctx context.Context, scan domain.Scan) {
	// storing must outlive a canceled Run for the last scan
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.storeTimeout)
	defer cancel()

	var pruned int64
	err := r.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if err := tx.StoreScan(ctx, scan); err != nil {
			return err //nolint: wrapcheck
		}

		var err error
		pruned, err = tx.PruneScans(ctx, r.retention)

		return err //nolint: wrapcheck
	})
	if err != nil {
		logger.Warn(ctx, "could not record scan",
			zap.Stringer("scanID", scan.ID),
			zap.String("state", string(scan.State)),
			zap.Error(err))

		return
	}
	logger.Debug(ctx, "scan recorded",
		zap.Stringer("scanID", scan.ID),
		zap.String("state", string(scan.State)),
		zap.Int64("pruned", pruned))
}

// New creates a Recorder writing to s that keeps at most retention scans.
// A zero retention keeps every scan.
func New(p pipeline.Pipeline, s storage.Storage, retention uint) *Recorder {
	return &Recorder{
		pipeline:     p,
		storage:      s,
		retention:    retention,
		storeTimeout: defaultStoreTimeout,
	}
}
