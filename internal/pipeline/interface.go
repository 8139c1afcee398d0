// Package pipeline orchestrates one scan at a time: barcode validation,
// best-effort product lookup, safety analysis and the resulting state.
package pipeline

import (
	"context"
	"medscan/pkg/domain"
)

// Pipeline owns the state of the current scan. Starting a scan cancels the
// one in flight; results that arrive for a superseded scan are discarded.
//
//go:generate mockgen -package mockpipeline -source=interface.go -destination=mock/mockpipeline.go *
type Pipeline interface {
	// Begin cancels any in-flight scan and starts a new one awaiting a barcode.
	Begin(ctx context.Context) *Scan
	// Run is Begin followed by Scan.Decoded.
	Run(ctx context.Context, raw string, profile domain.HealthProfile) (domain.Scan, error)
	// Snapshot returns a copy of the current scan state.
	Snapshot() domain.Scan
	// Subscribe streams state snapshots, starting with the current one, until
	// ctx is done. Slow subscribers lose their oldest snapshots.
	Subscribe(ctx context.Context) <-chan domain.Scan
	// Finished streams every scan that reached Done or Failed, in order, plus
	// scans superseded after their barcode arrived, reported as Failed with
	// kind CANCELED. Nothing is dropped. Once ctx is done the scans still
	// queued are delivered before the channel closes, so the reader must
	// drain it.
	Finished(ctx context.Context) <-chan domain.Scan
}
