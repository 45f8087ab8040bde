// Package analyze holds the derived-view engines: spike detection over a
// sliding time window, pattern grouping of normalized error messages, and
// statistical anomaly flagging. Each analyzer owns its accumulator and is
// constructed fresh per run; nothing persists between invocations.
package analyze

import (
	"time"

	"github.com/logtriage/logtriage/internal/domain"
)

// OrderPolicy values for handling out-of-order input
type OrderPolicy string

const (
	// OrderStrict fails fast on the first out-of-order event
	OrderStrict OrderPolicy = "strict"
	// OrderLenient skips out-of-order events and counts them
	OrderLenient OrderPolicy = "lenient"
)

// ParseOrderPolicy validates an order-policy token
func ParseOrderPolicy(s string) (OrderPolicy, error) {
	switch OrderPolicy(s) {
	case OrderStrict, "":
		return OrderStrict, nil
	case OrderLenient:
		return OrderLenient, nil
	}
	return "", &ConfigError{Field: "order", Reason: "must be strict or lenient"}
}

// SpikeConfig configures the sliding-window spike detector
type SpikeConfig struct {
	// Window is the sliding window size. Must be positive.
	Window time.Duration
	// Threshold is the error count that makes a window a spike. A value
	// <= 0 means every single error triggers a spike.
	Threshold int
	// ErrorLevels is the set of levels counted as errors. Defaults to
	// {ERROR, FATAL} when nil.
	ErrorLevels domain.LevelSet
	// Order selects strict or lenient handling of out-of-order input
	Order OrderPolicy
}

func (c *SpikeConfig) validate() error {
	if c.Window <= 0 {
		return &ConfigError{Field: "window", Reason: "must be positive"}
	}
	if c.Threshold <= 0 {
		c.Threshold = 1
	}
	if c.ErrorLevels == nil {
		c.ErrorLevels = domain.DefaultErrorLevels()
	}
	if c.Order == "" {
		c.Order = OrderStrict
	}
	return nil
}

// SpikeDetector finds time windows where error density crosses a
// threshold. It requires events in timestamp-non-decreasing order and does
// O(1) amortized work per event: each error is pushed once and evicted
// once, so the pass is linear regardless of window size.
type SpikeDetector struct {
	cfg SpikeConfig

	// win is the deque of in-window error events, ordered by timestamp
	win []domain.LogEvent

	lastSeen          time.Time
	seenAny           bool
	reported          bool
	lastReportedStart time.Time
	violations        int

	spikes []domain.Spike
}

// NewSpikeDetector validates the configuration and builds a detector
func NewSpikeDetector(cfg SpikeConfig) (*SpikeDetector, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &SpikeDetector{cfg: cfg}, nil
}

// Observe feeds one event to the detector. Non-error events only advance
// the detector's notion of current time. Under the strict order policy an
// out-of-order event returns an *OrderError; under the lenient policy it
// is skipped and counted.
func (d *SpikeDetector) Observe(event domain.LogEvent) error {
	if d.seenAny && event.Timestamp.Before(d.lastSeen) {
		d.violations++
		if d.cfg.Order == OrderStrict {
			return &OrderError{Previous: d.lastSeen, Got: event.Timestamp}
		}
		return nil
	}
	d.lastSeen = event.Timestamp
	d.seenAny = true

	if !d.cfg.ErrorLevels.Contains(event.Level) {
		return nil
	}

	d.win = append(d.win, event)

	// Evict everything outside the half-open window [t-w, t). An event
	// exactly at t-w is outside.
	cutoff := event.Timestamp.Add(-d.cfg.Window)
	for len(d.win) > 0 && !d.win[0].Timestamp.After(cutoff) {
		d.win = d.win[1:]
	}

	if len(d.win) < d.cfg.Threshold {
		return nil
	}

	// One report per distinct window start: a refilled window whose
	// leading edge has not advanced past the last reported start is the
	// same spike, not a new one.
	start := d.win[0].Timestamp
	if d.reported && !start.After(d.lastReportedStart) {
		return nil
	}

	d.spikes = append(d.spikes, domain.Spike{
		WindowStart:    start,
		WindowEnd:      event.Timestamp,
		ErrorCount:     len(d.win),
		SampleMessages: sampleMessages(d.win),
	})
	d.reported = true
	d.lastReportedStart = start
	return nil
}

// Spikes returns the detected spikes in non-decreasing window-start order
func (d *SpikeDetector) Spikes() []domain.Spike { return d.spikes }

// OrderViolations returns the number of out-of-order events seen. Nonzero
// only under the lenient policy.
func (d *SpikeDetector) OrderViolations() int { return d.violations }

func sampleMessages(win []domain.LogEvent) []string {
	n := len(win)
	if n > domain.SpikeSampleCap {
		n = domain.SpikeSampleCap
	}
	samples := make([]string, n)
	for i := 0; i < n; i++ {
		samples[i] = win[i].Message
	}
	return samples
}

// DetectSpikes runs a detector over a finished event sequence
func DetectSpikes(events []domain.LogEvent, cfg SpikeConfig) ([]domain.Spike, error) {
	d, err := NewSpikeDetector(cfg)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if err := d.Observe(e); err != nil {
			return nil, err
		}
	}
	return d.Spikes(), nil
}
