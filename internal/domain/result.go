package domain

import "time"

// SpikeSampleCap bounds the representative messages kept per spike
const SpikeSampleCap = 5

// Spike is a time window whose error count met the configured threshold.
// WindowStart <= every contributing event timestamp <= WindowEnd.
type Spike struct {
	WindowStart    time.Time `json:"windowStart"`
	WindowEnd      time.Time `json:"windowEnd"`
	ErrorCount     int       `json:"errorCount"`
	SampleMessages []string  `json:"sampleMessages,omitempty"`
}

// PatternGroup is a set of error events sharing one normalized message form
type PatternGroup struct {
	NormalizedForm string    `json:"normalizedForm"`
	Count          int       `json:"count"`
	ExampleMessage string    `json:"exampleMessage"`
	FirstSeen      time.Time `json:"firstSeen"`
	LastSeen       time.Time `json:"lastSeen"`
}

// Anomaly severity levels
const (
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// Anomaly kinds
const (
	AnomalyHighErrorRate = "high_error_rate"
	AnomalyVolumeSpike   = "volume_spike"
	AnomalyTimeGap       = "time_gap"
)

// Anomaly flags a statistic outside its configured normal range
type Anomaly struct {
	Kind     string    `json:"kind"`
	Time     time.Time `json:"time"`
	Severity string    `json:"severity"`

	// high_error_rate / volume_spike
	Observed float64 `json:"observed,omitempty"`
	Expected float64 `json:"expected,omitempty"`

	// time_gap
	Gap time.Duration `json:"gap,omitempty"`
}

// RangeStats summarizes events inside a closed time range
type RangeStats struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Total    int       `json:"total"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
}

// Report bundles all derived views of one analysis pass. It is handed,
// fully formed, to the rendering layer.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`

	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`

	TotalEvents  int              `json:"totalEvents"`
	ParseDrops   int              `json:"parseDrops"`
	LevelCounts  map[LogLevel]int `json:"levelCounts"`
	ErrorsPerMin float64          `json:"errorsPerMin"`

	Spikes    []Spike        `json:"spikes,omitempty"`
	Patterns  []PatternGroup `json:"patterns,omitempty"`
	Anomalies []Anomaly      `json:"anomalies,omitempty"`
}
