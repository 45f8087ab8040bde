package analyze

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/logtriage/logtriage/internal/domain"
)

// minAnomalySamples is the minimum event count before baselines mean
// anything; below it no anomalies are flagged.
const minAnomalySamples = 5

// AnomalyConfig configures the statistical anomaly detector. Thresholds
// are explicit configuration; nothing is learned across runs.
type AnomalyConfig struct {
	// Bucket is the fixed aggregation interval. Must be positive.
	Bucket time.Duration
	// Sensitivity is how many standard deviations from the mean a bucket
	// must sit to be flagged. Must be positive.
	Sensitivity float64
	// MaxGap flags a silence between consecutive events longer than this.
	// Zero disables gap detection.
	MaxGap time.Duration
	// ErrorLevels is the set of levels counted as errors. Defaults to
	// {ERROR, FATAL} when nil.
	ErrorLevels domain.LevelSet
}

func (c *AnomalyConfig) validate() error {
	if c.Bucket <= 0 {
		return &ConfigError{Field: "bucket", Reason: "must be positive"}
	}
	if c.Sensitivity <= 0 {
		return &ConfigError{Field: "sensitivity", Reason: "must be positive"}
	}
	if c.MaxGap < 0 {
		return &ConfigError{Field: "max-gap", Reason: "must not be negative"}
	}
	if c.ErrorLevels == nil {
		c.ErrorLevels = domain.DefaultErrorLevels()
	}
	return nil
}

type bucketStats struct {
	total  int
	errors int
}

// AnomalyDetector flags buckets whose error rate or volume sits outside
// mean ± sensitivity·stddev, and silences longer than the configured gap.
type AnomalyDetector struct {
	cfg AnomalyConfig

	buckets map[time.Time]*bucketStats
	events  int

	prev    time.Time
	seenAny bool
	gaps    []domain.Anomaly
}

// NewAnomalyDetector validates the configuration and builds a detector
func NewAnomalyDetector(cfg AnomalyConfig) (*AnomalyDetector, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &AnomalyDetector{
		cfg:     cfg,
		buckets: make(map[time.Time]*bucketStats),
	}, nil
}

// Observe feeds one event to the detector. Every level contributes to
// volume; only configured error levels contribute to error rates.
func (d *AnomalyDetector) Observe(event domain.LogEvent) {
	d.events++

	key := event.Timestamp.Truncate(d.cfg.Bucket)
	b, ok := d.buckets[key]
	if !ok {
		b = &bucketStats{}
		d.buckets[key] = b
	}
	b.total++
	if d.cfg.ErrorLevels.Contains(event.Level) {
		b.errors++
	}

	if d.seenAny && d.cfg.MaxGap > 0 {
		if gap := event.Timestamp.Sub(d.prev); gap > d.cfg.MaxGap {
			d.gaps = append(d.gaps, domain.Anomaly{
				Kind:     domain.AnomalyTimeGap,
				Time:     event.Timestamp,
				Severity: domain.SeverityLow,
				Gap:      gap,
			})
		}
	}
	if !d.seenAny || event.Timestamp.After(d.prev) {
		d.prev = event.Timestamp
	}
	d.seenAny = true
}

// Anomalies computes the baseline over the finished pass and returns every
// flagged bucket followed by the recorded time gaps, both in time order.
func (d *AnomalyDetector) Anomalies() []domain.Anomaly {
	if d.events < minAnomalySamples {
		return nil
	}

	keys := make([]time.Time, 0, len(d.buckets))
	for k := range d.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	rates := make([]float64, len(keys))
	volumes := make([]float64, len(keys))
	for i, k := range keys {
		b := d.buckets[k]
		if b.total > 0 {
			rates[i] = float64(b.errors) / float64(b.total)
		}
		volumes[i] = float64(b.total)
	}

	rateMean := stat.Mean(rates, nil)
	rateStd := popStdDev(rates, rateMean)
	volMean := stat.Mean(volumes, nil)
	volStd := popStdDev(volumes, volMean)

	var out []domain.Anomaly
	for i, k := range keys {
		if rateStd > 0 && rates[i]-rateMean > d.cfg.Sensitivity*rateStd {
			severity := domain.SeverityMedium
			if rates[i] > 0.8 {
				severity = domain.SeverityHigh
			}
			out = append(out, domain.Anomaly{
				Kind:     domain.AnomalyHighErrorRate,
				Time:     k,
				Severity: severity,
				Observed: rates[i],
				Expected: rateMean,
			})
		}
		if volStd > 0 && volumes[i]-volMean > d.cfg.Sensitivity*volStd {
			out = append(out, domain.Anomaly{
				Kind:     domain.AnomalyVolumeSpike,
				Time:     k,
				Severity: domain.SeverityMedium,
				Observed: volumes[i],
				Expected: volMean,
			})
		}
	}

	return append(out, d.gaps...)
}

// popStdDev is the population standard deviation; baselines describe the
// observed buckets themselves, not a sample of a larger population.
func popStdDev(xs []float64, mean float64) float64 {
	return math.Sqrt(stat.MomentAbout(2, xs, mean, nil))
}

// DetectAnomalies runs a detector over a finished event sequence
func DetectAnomalies(events []domain.LogEvent, cfg AnomalyConfig) ([]domain.Anomaly, error) {
	d, err := NewAnomalyDetector(cfg)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		d.Observe(e)
	}
	return d.Anomalies(), nil
}
