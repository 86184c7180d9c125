package pcapng

import (
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultMaxBlockSize = 16 << 20 // HARD_MAX, matching practical writers
	defaultTSResolUnits = 1_000_000
)

type config struct {
	maxBlockSize int
	strict       bool
	defaultRes   uint64
	meter        metric.Meter
}

func defaultConfig() *config {
	return &config{
		maxBlockSize: defaultMaxBlockSize,
		strict:       false,
		defaultRes:   defaultTSResolUnits,
	}
}

// Option configures a Capture at construction time.
type Option func(*config)

// WithMaxBlockSize overrides the hard cap on a single block's total
// length. The default is 16 MiB, matching practical pcapng writers.
func WithMaxBlockSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBlockSize = n
		}
	}
}

// WithStrictMode promotes certain Tier-1 (warn-only) conditions, such as a
// snap-length overrun, to Tier-2 non-fatal errors instead of silently
// logging and continuing. Framing-level fatal errors are unaffected.
func WithStrictMode(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithDefaultTimestampResolution sets the units-per-second assumed for an
// interface that declares no if_tsresol option. The pcapng default is
// 10^6 (microseconds).
func WithDefaultTimestampResolution(unitsPerSecond uint64) Option {
	return func(c *config) {
		if unitsPerSecond > 0 {
			c.defaultRes = unitsPerSecond
		}
	}
}

// WithMeter attaches an OpenTelemetry Meter that Capture uses to record
// packets-decoded and blocks-skipped counters. Nil (the default) disables
// metrics entirely; decoding behavior never depends on whether a meter is
// present.
func WithMeter(m metric.Meter) Option {
	return func(c *config) { c.meter = m }
}
