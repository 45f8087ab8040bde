package analyze

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/logtriage/logtriage/internal/domain"
)

// Options bundles the configuration surface of one analysis pass
type Options struct {
	Window      time.Duration
	Threshold   int
	ErrorLevels []string
	Order       OrderPolicy

	Rules          NormalizeRules
	MinOccurrences int

	Bucket      time.Duration
	Sensitivity float64
	MaxGap      time.Duration
}

// DefaultOptions mirrors the CLI defaults
func DefaultOptions() Options {
	return Options{
		Window:         5 * time.Minute,
		Threshold:      3,
		Order:          OrderStrict,
		Rules:          DefaultRules(),
		MinOccurrences: 1,
		Bucket:         time.Minute,
		Sensitivity:    2.0,
		MaxGap:         5 * time.Minute,
	}
}

// LevelSet resolves the configured error-level tags, failing fast on an
// unrecognized tag.
func (o Options) LevelSet() (domain.LevelSet, error) {
	if len(o.ErrorLevels) == 0 {
		return domain.DefaultErrorLevels(), nil
	}
	set := make(domain.LevelSet, len(o.ErrorLevels))
	for _, tag := range o.ErrorLevels {
		level := domain.ParseLogLevel(tag)
		if !level.Known() {
			return nil, &ConfigError{Field: "error-levels", Reason: fmt.Sprintf("unrecognized level %q", tag)}
		}
		set[level] = struct{}{}
	}
	return set, nil
}

// Run executes the three analyzers over one finished event sequence and
// assembles the report. The configuration is validated before anything
// runs; a failing analyzer yields no partial report. The analyzers run as
// parallel goroutines: each owns its accumulator and only reads the shared
// slice, so there is no ordering dependency between them.
func Run(events []domain.LogEvent, parseDrops int, opts Options) (*domain.Report, error) {
	levels, err := opts.LevelSet()
	if err != nil {
		return nil, err
	}

	spikeDetector, err := NewSpikeDetector(SpikeConfig{
		Window:      opts.Window,
		Threshold:   opts.Threshold,
		ErrorLevels: levels,
		Order:       opts.Order,
	})
	if err != nil {
		return nil, err
	}

	patternAnalyzer := NewPatternAnalyzer(PatternConfig{
		ErrorLevels:    levels,
		Rules:          opts.Rules,
		MinOccurrences: opts.MinOccurrences,
	})

	anomalyDetector, err := NewAnomalyDetector(AnomalyConfig{
		Bucket:      opts.Bucket,
		Sensitivity: opts.Sensitivity,
		MaxGap:      opts.MaxGap,
		ErrorLevels: levels,
	})
	if err != nil {
		return nil, err
	}

	var g errgroup.Group
	g.Go(func() error {
		for _, e := range events {
			if err := spikeDetector.Observe(e); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		for _, e := range events {
			patternAnalyzer.Observe(e)
		}
		return nil
	})
	g.Go(func() error {
		for _, e := range events {
			anomalyDetector.Observe(e)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domain.Report{
		GeneratedAt: time.Now(),
		TotalEvents: len(events),
		ParseDrops:  parseDrops,
		LevelCounts: make(map[domain.LogLevel]int),
		Spikes:      spikeDetector.Spikes(),
		Patterns:    patternAnalyzer.Groups(),
		Anomalies:   anomalyDetector.Anomalies(),
	}

	if len(events) > 0 {
		report.WindowStart = events[0].Timestamp
		report.WindowEnd = events[len(events)-1].Timestamp
	}

	errorCount := 0
	for _, e := range events {
		report.LevelCounts[e.Level]++
		if levels.Contains(e.Level) {
			errorCount++
		}
	}
	if minutes := report.WindowEnd.Sub(report.WindowStart).Minutes(); minutes > 0 {
		report.ErrorsPerMin = float64(errorCount) / minutes
	}

	return report, nil
}
