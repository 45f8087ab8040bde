// Package output renders analysis results as NDJSON, text tables, or CSV.
package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/logtriage/logtriage/internal/domain"
)

// SchemaVersion is bumped when the NDJSON output shapes change
const SchemaVersion = 1

// NDJSONWriter writes typed result records as NDJSON
type NDJSONWriter struct {
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep log text unescaped
	return &NDJSONWriter{encoder: enc}
}

// EventOutput is the NDJSON shape of one log event
type EventOutput struct {
	Type          string `json:"type"` // Always "log"
	SchemaVersion int    `json:"schemaVersion"`
	Timestamp     string `json:"timestamp"`
	Level         string `json:"level"`
	Message       string `json:"message"`
}

// SpikeOutput is the NDJSON shape of one detected spike
type SpikeOutput struct {
	Type          string       `json:"type"` // Always "spike"
	SchemaVersion int          `json:"schemaVersion"`
	Spike         domain.Spike `json:"spike"`
}

// PatternOutput is the NDJSON shape of one pattern group
type PatternOutput struct {
	Type          string              `json:"type"` // Always "pattern"
	SchemaVersion int                 `json:"schemaVersion"`
	Pattern       domain.PatternGroup `json:"pattern"`
}

// AnomalyOutput is the NDJSON shape of one anomaly
type AnomalyOutput struct {
	Type          string         `json:"type"` // Always "anomaly"
	SchemaVersion int            `json:"schemaVersion"`
	Anomaly       domain.Anomaly `json:"anomaly"`
}

// ReportOutput wraps a full report
type ReportOutput struct {
	Type          string         `json:"type"` // Always "report"
	SchemaVersion int            `json:"schemaVersion"`
	Report        *domain.Report `json:"report"`
}

// ErrorOutput is a structured failure record
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
}

// WriteEvent writes one log event
func (w *NDJSONWriter) WriteEvent(event *domain.LogEvent) error {
	return w.encoder.Encode(EventOutput{
		Type:          "log",
		SchemaVersion: SchemaVersion,
		Timestamp:     event.Timestamp.Format(time.RFC3339),
		Level:         string(event.Level),
		Message:       event.Message,
	})
}

// WriteSpike writes one spike record
func (w *NDJSONWriter) WriteSpike(spike domain.Spike) error {
	return w.encoder.Encode(SpikeOutput{Type: "spike", SchemaVersion: SchemaVersion, Spike: spike})
}

// WritePattern writes one pattern group record
func (w *NDJSONWriter) WritePattern(pattern domain.PatternGroup) error {
	return w.encoder.Encode(PatternOutput{Type: "pattern", SchemaVersion: SchemaVersion, Pattern: pattern})
}

// WriteAnomaly writes one anomaly record
func (w *NDJSONWriter) WriteAnomaly(anomaly domain.Anomaly) error {
	return w.encoder.Encode(AnomalyOutput{Type: "anomaly", SchemaVersion: SchemaVersion, Anomaly: anomaly})
}

// WriteReport writes a full report as a single record
func (w *NDJSONWriter) WriteReport(report *domain.Report) error {
	return w.encoder.Encode(ReportOutput{Type: "report", SchemaVersion: SchemaVersion, Report: report})
}

// WriteError writes a structured failure record
func (w *NDJSONWriter) WriteError(code, message string) error {
	return w.encoder.Encode(ErrorOutput{Type: "error", SchemaVersion: SchemaVersion, Code: code, Message: message})
}

// WriteRaw writes any value as one NDJSON record
func (w *NDJSONWriter) WriteRaw(v any) error {
	return w.encoder.Encode(v)
}
