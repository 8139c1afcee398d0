package pipeline

import (
	"context"
	"medscan/pkg/domain"
	"medscan/pkg/serrors"
	"sync"
	"time"
)

// finishedQueue buffers finished scans for one Finished reader without bound.
type finishedQueue struct {
	mu     sync.Mutex
	scans  []domain.Scan
	notify chan struct{}
}

func (q *finishedQueue) push(scan domain.Scan) {
	q.mu.Lock()
	q.scans = append(q.scans, scan)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *finishedQueue) take() []domain.Scan {
	q.mu.Lock()
	defer q.mu.Unlock()

	scans := q.scans
	q.scans = nil

	return scans
}

func (p *pipeline) Finished(ctx context.Context) <-chan domain.Scan {
	q := &finishedQueue{notify: make(chan struct{}, 1)}
	out := make(chan domain.Scan)

	p.mu.Lock()
	p.finished[q] = struct{}{}
	p.mu.Unlock()

	go func() {
		defer close(out)

		for {
			batch := q.take()
			for i, scan := range batch {
				select {
				case out <- scan:
				case <-ctx.Done():
					p.flushFinished(q, out, batch[i:])

					return
				}
			}

			select {
			case <-q.notify:
			case <-ctx.Done():
				p.flushFinished(q, out, nil)

				return
			}
		}
	}()

	return out
}

// flushFinished unregisters q and hands pending, then everything still
// queued, to out.
func (p *pipeline) flushFinished(q *finishedQueue, out chan<- domain.Scan, pending []domain.Scan) {
	p.mu.Lock()
	delete(p.finished, q)
	p.mu.Unlock()

	for _, scan := range append(pending, q.take()...) {
		out <- scan
	}
}

// finishLocked queues scan for every Finished reader. mu must be held.
func (p *pipeline) finishLocked(scan domain.Scan) {
	for q := range p.finished {
		q.push(scan)
	}
}

// supersededAt reports an in-progress scan replaced by a newer one.
func supersededAt(scan domain.Scan, at time.Time) domain.Scan {
	scan.State = domain.ScanStateFailed
	scan.Failure = &domain.ScanFailure{
		Kind:    serrors.ErrCanceled.Error(),
		Message: "scan superseded by a newer scan",
	}
	scan.UpdatedAt = at

	return scan
}
