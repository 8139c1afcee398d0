package pipeline

import (
	"context"
	"fmt"
	"medscan/pkg/analyzer"
	"medscan/pkg/domain"
	"medscan/pkg/logger"
	"medscan/pkg/productlookup"
	"sync"
	"time"

	"go.uber.org/zap"
)

// pipeline is the concrete implementation of the Pipeline interface. Every
// state change goes through transition, which holds mu and compares the
// caller's sequence number against the current one.
type pipeline struct {
	options  Options
	resolver productlookup.Resolver
	analyzer analyzer.Analyzer
	metrics  *instruments
	now      func() time.Time

	mu          sync.Mutex
	seq         uint64
	current     domain.Scan
	cancel      context.CancelFunc
	subscribers map[chan domain.Scan]struct{}
	finished    map[*finishedQueue]struct{}
}

// Begin cancels the in-flight scan, passes through Idle and enters
// AwaitingScan under a new sequence number.
func (p *pipeline) Begin(ctx context.Context) *Scan {
	scanCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	now := p.now()
	if prev := p.current; prev.InProgress() {
		p.metrics.recordFinished(prev, "SUPERSEDED")
		logger.Info(ctx, "scan superseded", zap.Stringer("scanID", prev.ID), zap.Uint64("seq", prev.Seq))
		if prev.Barcode != "" {
			p.finishLocked(supersededAt(prev, now))
		}
	}

	p.seq++
	p.cancel = cancel
	p.setLocked(domain.Scan{Seq: p.seq, State: domain.ScanStateIdle, UpdatedAt: now})
	p.setLocked(domain.Scan{
		ID:        domain.NewScanID(),
		Seq:       p.seq,
		State:     domain.ScanStateAwaitingScan,
		StartedAt: now,
		UpdatedAt: now,
	})
	p.metrics.started.Add(ctx, 1)

	scanCtx = logger.WithFields(scanCtx, zap.Stringer("scanID", p.current.ID), zap.Uint64("seq", p.seq))

	return &Scan{
		p:      p,
		ctx:    scanCtx,
		cancel: cancel,
		seq:    p.seq,
		last:   p.current,
	}
}

// Run starts a scan and feeds it the decoded barcode.
func (p *pipeline) Run(ctx context.Context, raw string, profile domain.HealthProfile) (domain.Scan, error) {
	return p.Begin(ctx).Decoded(raw, profile)
}

func (p *pipeline) Snapshot() domain.Scan {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current
}

func (p *pipeline) Subscribe(ctx context.Context) <-chan domain.Scan {
	ch := make(chan domain.Scan, p.options.SubscriberBuffer)

	p.mu.Lock()
	p.subscribers[ch] = struct{}{}
	ch <- p.current
	p.mu.Unlock()

	context.AfterFunc(ctx, func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		delete(p.subscribers, ch)
		close(ch)
	})

	return ch
}

// transition applies mutate to the current scan if s is still the current,
// non-terminal scan and publishes the result. It reports false otherwise.
func (p *pipeline) transition(s *Scan, mutate func(*domain.Scan)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current.Seq != s.seq || p.current.State.Terminal() {
		return false
	}

	next := p.current
	mutate(&next)
	next.UpdatedAt = p.now()
	p.setLocked(next)
	s.last = next
	if next.State.Terminal() {
		p.finishLocked(next)
	}

	return true
}

// setLocked replaces the current scan and fans it out. mu must be held.
func (p *pipeline) setLocked(scan domain.Scan) {
	p.current = scan
	for ch := range p.subscribers {
		select {
		case ch <- scan:
		default:
			// drop the oldest snapshot to make room
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- scan:
			default:
			}
		}
	}
}

// New creates a Pipeline. resolver may be nil, in which case scans pass
// through Resolving without a lookup.
func New(resolver productlookup.Resolver, analyzer analyzer.Analyzer, options Options) (Pipeline, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("pipeline requires an analyzer")
	}
	if options.SubscriberBuffer <= 0 {
		options.SubscriberBuffer = defaultSubscriberBuffer
	}

	metrics, err := newInstruments(options.MeterProvider)
	if err != nil {
		return nil, fmt.Errorf("could not create pipeline instruments: %w", err)
	}

	return &pipeline{
		options:     options,
		resolver:    resolver,
		analyzer:    analyzer,
		metrics:     metrics,
		now:         time.Now,
		current:     domain.Scan{State: domain.ScanStateIdle},
		subscribers: make(map[chan domain.Scan]struct{}),
		finished:    make(map[*finishedQueue]struct{}),
	}, nil
}
