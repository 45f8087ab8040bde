package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/logtriage/logtriage/internal/domain"
)

// WriteEventsCSV exports log events with a timestamp,level,message header
func WriteEventsCSV(w io.Writer, events []domain.LogEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "level", "message"}); err != nil {
		return err
	}
	for _, e := range events {
		record := []string{e.Timestamp.Format(time.RFC3339), string(e.Level), e.Message}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSpikesCSV exports spikes with window bounds and counts
func WriteSpikesCSV(w io.Writer, spikes []domain.Spike) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"window_start", "window_end", "error_count"}); err != nil {
		return err
	}
	for _, s := range spikes {
		record := []string{
			s.WindowStart.Format(time.RFC3339),
			s.WindowEnd.Format(time.RFC3339),
			strconv.Itoa(s.ErrorCount),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePatternsCSV exports pattern groups in rank order
func WritePatternsCSV(w io.Writer, patterns []domain.PatternGroup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pattern", "count", "first_seen", "last_seen", "example"}); err != nil {
		return err
	}
	for _, p := range patterns {
		record := []string{
			p.NormalizedForm,
			strconv.Itoa(p.Count),
			p.FirstSeen.Format(time.RFC3339),
			p.LastSeen.Format(time.RFC3339),
			p.ExampleMessage,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
