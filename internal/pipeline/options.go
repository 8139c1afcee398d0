package pipeline

import (
	"medscan/internal/config"
	"time"

	"go.opentelemetry.io/otel/metric"
)

const defaultSubscriberBuffer = 32

// Options configure the pipeline. Zero timeouts leave the calls bounded only
// by the caller's context and the HTTP client.
type Options struct {
	// LookupTimeout bounds the product lookup call.
	LookupTimeout time.Duration
	// AnalysisTimeout bounds the safety analysis call.
	AnalysisTimeout time.Duration
	// SubscriberBuffer is the channel capacity given to each subscriber.
	SubscriberBuffer int
	// MeterProvider records pipeline instruments; nil uses the global provider.
	MeterProvider metric.MeterProvider
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		LookupTimeout:    cfg.ProductLookup.Timeout,
		AnalysisTimeout:  cfg.Analyzer.Timeout,
		SubscriberBuffer: cfg.Pipeline.SubscriberBuffer,
	}
}
