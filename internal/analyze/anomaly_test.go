package analyze

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logtriage/logtriage/internal/domain"
)

func defaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{Bucket: time.Minute, Sensitivity: 2.0}
}

func TestAnomalyDetector_TooFewEvents(t *testing.T) {
	events := []domain.LogEvent{
		errorAt(base, "a"),
		errorAt(base.Add(time.Hour), "b"),
	}

	anomalies, err := DetectAnomalies(events, defaultAnomalyConfig())
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestAnomalyDetector_ErrorRateSpike(t *testing.T) {
	// Ten quiet one-event buckets, then one bucket where three of four
	// events are errors.
	var events []domain.LogEvent
	for i := 0; i < 10; i++ {
		events = append(events, infoAt(base.Add(time.Duration(i)*time.Minute), "ok"))
	}
	hot := base.Add(10 * time.Minute)
	events = append(events,
		infoAt(hot, "ok"),
		errorAt(hot.Add(time.Second), "boom"),
		errorAt(hot.Add(2*time.Second), "boom"),
		errorAt(hot.Add(3*time.Second), "boom"),
	)

	anomalies, err := DetectAnomalies(events, defaultAnomalyConfig())
	require.NoError(t, err)

	var kinds []string
	for _, a := range anomalies {
		kinds = append(kinds, a.Kind)
	}
	assert.Contains(t, kinds, domain.AnomalyHighErrorRate)
	assert.Contains(t, kinds, domain.AnomalyVolumeSpike)

	for _, a := range anomalies {
		if a.Kind == domain.AnomalyHighErrorRate {
			assert.Equal(t, hot.Truncate(time.Minute), a.Time)
			assert.Equal(t, domain.SeverityMedium, a.Severity)
			assert.InDelta(t, 0.75, a.Observed, 1e-9)
		}
	}
}

func TestAnomalyDetector_HighSeverityRate(t *testing.T) {
	var events []domain.LogEvent
	for i := 0; i < 10; i++ {
		events = append(events, infoAt(base.Add(time.Duration(i)*time.Minute), "ok"))
	}
	hot := base.Add(10 * time.Minute)
	for i := 0; i < 5; i++ {
		events = append(events, errorAt(hot.Add(time.Duration(i)*time.Second), "boom"))
	}

	anomalies, err := DetectAnomalies(events, defaultAnomalyConfig())
	require.NoError(t, err)

	found := false
	for _, a := range anomalies {
		if a.Kind == domain.AnomalyHighErrorRate {
			found = true
			assert.Equal(t, domain.SeverityHigh, a.Severity) // rate 1.0 > 0.8
		}
	}
	assert.True(t, found)
}

func TestAnomalyDetector_TimeGaps(t *testing.T) {
	// Six events two minutes apart with a 1m gap limit: five gaps, and a
	// flat baseline that flags nothing else.
	var events []domain.LogEvent
	for i := 0; i < 6; i++ {
		events = append(events, infoAt(base.Add(time.Duration(i)*2*time.Minute), "ok"))
	}

	cfg := defaultAnomalyConfig()
	cfg.MaxGap = time.Minute
	anomalies, err := DetectAnomalies(events, cfg)
	require.NoError(t, err)

	require.Len(t, anomalies, 5)
	for _, a := range anomalies {
		assert.Equal(t, domain.AnomalyTimeGap, a.Kind)
		assert.Equal(t, domain.SeverityLow, a.Severity)
		assert.Equal(t, 2*time.Minute, a.Gap)
	}
}

func TestAnomalyDetector_GapDetectionDisabled(t *testing.T) {
	var events []domain.LogEvent
	for i := 0; i < 6; i++ {
		events = append(events, infoAt(base.Add(time.Duration(i)*time.Hour), "ok"))
	}

	anomalies, err := DetectAnomalies(events, defaultAnomalyConfig()) // MaxGap zero
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestAnomalyDetector_ConfigErrors(t *testing.T) {
	var cfgErr *ConfigError

	_, err := NewAnomalyDetector(AnomalyConfig{Bucket: 0, Sensitivity: 2})
	require.True(t, errors.As(err, &cfgErr))

	_, err = NewAnomalyDetector(AnomalyConfig{Bucket: time.Minute, Sensitivity: 0})
	require.True(t, errors.As(err, &cfgErr))

	_, err = NewAnomalyDetector(AnomalyConfig{Bucket: time.Minute, Sensitivity: 2, MaxGap: -time.Second})
	require.True(t, errors.As(err, &cfgErr))
}
