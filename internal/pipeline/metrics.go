package pipeline

import (
	"context"
	"fmt"
	"medscan/pkg/domain"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "medscan/internal/pipeline"

type instruments struct {
	started  metric.Int64Counter
	finished metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	started, err := meter.Int64Counter("medscan.pipeline.scans.started",
		metric.WithDescription("Scans started, including superseded ones."))
	if err != nil {
		return nil, fmt.Errorf("could not create started counter: %w", err)
	}
	finished, err := meter.Int64Counter("medscan.pipeline.scans.finished",
		metric.WithDescription("Scans that reached a terminal state or were superseded, by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create finished counter: %w", err)
	}
	duration, err := meter.Float64Histogram("medscan.pipeline.scan.duration",
		metric.WithDescription("Time from scan start to its terminal state."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	return &instruments{started: started, finished: finished, duration: duration}, nil
}

// recordFinished observes a scan that left the in-progress states. outcome is
// the verdict status for Done, otherwise the failure kind.
func (i *instruments) recordFinished(scan domain.Scan, outcome string) {
	attrs := metric.WithAttributes(
		attribute.String("state", string(scan.State)),
		attribute.String("outcome", outcome),
	)
	i.finished.Add(context.Background(), 1, attrs)
	if !scan.StartedAt.IsZero() {
		i.duration.Record(context.Background(), time.Since(scan.StartedAt).Seconds(), attrs)
	}
}
