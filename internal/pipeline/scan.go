package pipeline

import (
	"context"
	"medscan/pkg/domain"
	"medscan/pkg/logger"
	"medscan/pkg/serrors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Scan is the handle of one scan started by Pipeline.Begin. Exactly one of
// Decoded or DecodeFailed may be called on it.
type Scan struct {
	p      *pipeline
	ctx    context.Context //nolint: containedctx
	cancel context.CancelFunc
	seq    uint64
	used   atomic.Bool

	// last is the latest snapshot this scan published, guarded by p.mu.
	last domain.Scan
}

// Snapshot returns the latest state published by this scan, which may be
// older than Pipeline.Snapshot once a newer scan started.
func (s *Scan) Snapshot() domain.Scan {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	return s.last
}

// Seq returns the sequence number of the scan.
func (s *Scan) Seq() uint64 { return s.seq }

// Cancel aborts the scan. A scan still awaiting its barcode ends Failed with
// CANCELED at once; a running scan ends that way when its in-flight call
// returns. Cancel has no effect on a terminal or superseded scan.
func (s *Scan) Cancel() {
	s.cancel()
	if s.used.CompareAndSwap(false, true) {
		_, _ = s.fail(serrors.With(serrors.ErrCanceled, "scan canceled"))
	}
}

// Decoded validates raw scanner output and drives the scan to a terminal
// state. The lookup outcome never stops the scan; analysis failures end it
// Failed with their kind. It blocks until the scan is Done, Failed or
// superseded, returning the final snapshot and, unless Done, the error.
func (s *Scan) Decoded(raw string, profile domain.HealthProfile) (domain.Scan, error) {
	if !s.used.CompareAndSwap(false, true) {
		return s.Snapshot(), serrors.With(serrors.ErrValidation, "scan already received its input")
	}
	defer s.cancel()

	code, err := domain.ParseBarcode(raw)
	if err != nil {
		return s.fail(err)
	}
	profile = profile.Normalized()

	if !s.advance(func(sc *domain.Scan) {
		sc.State = domain.ScanStateResolving
		sc.Barcode = code
		sc.Profile = profile
	}) {
		return s.superseded()
	}

	product := s.resolve(code)
	if err := s.ctx.Err(); err != nil {
		return s.fail(serrors.Wrap(serrors.ErrCanceled, err, "scan canceled"))
	}

	if !s.advance(func(sc *domain.Scan) {
		sc.State = domain.ScanStateAnalyzing
		sc.Product = product
	}) {
		return s.superseded()
	}

	verdict, err := s.analyze(code, profile, product)
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		return s.fail(serrors.Wrap(serrors.ErrCanceled, ctxErr, "scan canceled"))
	}
	if err != nil {
		return s.fail(err)
	}

	if !s.advance(func(sc *domain.Scan) {
		sc.State = domain.ScanStateDone
		sc.Verdict = verdict
	}) {
		return s.superseded()
	}
	final := s.Snapshot()
	s.p.metrics.recordFinished(final, string(verdict.Status))
	logger.Info(s.ctx, "scan done", zap.String("status", string(verdict.Status)))

	return final, nil
}

// DecodeFailed ends the scan because the scanner could not read a barcode.
func (s *Scan) DecodeFailed(cause error) (domain.Scan, error) {
	if !s.used.CompareAndSwap(false, true) {
		return s.Snapshot(), serrors.With(serrors.ErrValidation, "scan already received its input")
	}
	defer s.cancel()

	return s.fail(serrors.Wrap(serrors.ErrScanFailed, cause, "could not decode barcode"))
}

func (s *Scan) resolve(code domain.BarcodeCode) *domain.ProductRecord {
	if s.p.resolver == nil {
		return nil
	}

	ctx, cancel := withTimeout(s.ctx, s.p.options.LookupTimeout)
	defer cancel()

	product, err := s.p.resolver.Resolve(ctx, code)
	if err != nil {
		logger.Info(s.ctx, "continuing without product", zap.String("kind", serrors.KindOf(err).Error()), zap.Error(err))

		return nil
	}

	return product
}

func (s *Scan) analyze(
	code domain.BarcodeCode,
	profile domain.HealthProfile,
	product *domain.ProductRecord,
) (*domain.SafetyVerdict, error) {
	ctx, cancel := withTimeout(s.ctx, s.p.options.AnalysisTimeout)
	defer cancel()

	return s.p.analyzer.Analyze(ctx, code, profile, product)
}

func (s *Scan) advance(mutate func(*domain.Scan)) bool {
	return s.p.transition(s, mutate)
}

// fail moves the scan to Failed, keeping the kind of err.
func (s *Scan) fail(err error) (domain.Scan, error) {
	kind := serrors.KindOf(err)
	if !s.advance(func(sc *domain.Scan) {
		sc.State = domain.ScanStateFailed
		sc.Failure = &domain.ScanFailure{Kind: kind.Error(), Message: err.Error()}
	}) {
		return s.superseded()
	}
	final := s.Snapshot()
	s.p.metrics.recordFinished(final, kind.Error())
	logger.Info(s.ctx, "scan failed", zap.String("kind", kind.Error()), zap.Error(err))

	return final, err
}

func (s *Scan) superseded() (domain.Scan, error) {
	logger.Debug(s.ctx, "discarding result of superseded scan")

	return s.Snapshot(), serrors.With(serrors.ErrCanceled, "scan superseded by a newer scan")
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}
