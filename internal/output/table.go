package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/logtriage/logtriage/internal/domain"
)

// RenderReport writes a full text report: summary header, spike table,
// pattern table, anomaly table. Styling is applied only when color is set.
func RenderReport(w io.Writer, report *domain.Report, color bool) error {
	if err := renderSummary(w, report, color); err != nil {
		return err
	}
	if err := RenderSpikes(w, report.Spikes, color); err != nil {
		return err
	}
	if err := RenderPatterns(w, report.Patterns); err != nil {
		return err
	}
	return RenderAnomalies(w, report.Anomalies, color)
}

func renderSummary(w io.Writer, report *domain.Report, color bool) error {
	header := "Log Analysis"
	if color {
		header = Styles.Header.Render(header)
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
		return err
	}

	if !report.WindowStart.IsZero() {
		duration := report.WindowEnd.Sub(report.WindowStart)
		if _, err := fmt.Fprintf(w, "Time range: %s to %s (%s)\n",
			report.WindowStart.Format(time.RFC3339),
			report.WindowEnd.Format(time.RFC3339),
			duration.Round(time.Second)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Total entries: %d (dropped %d malformed)\n", report.TotalEvents, report.ParseDrops); err != nil {
		return err
	}

	for _, level := range []domain.LogLevel{domain.LogLevelDebug, domain.LogLevelInfo, domain.LogLevelWarn, domain.LogLevelError, domain.LogLevelFatal} {
		if count, ok := report.LevelCounts[level]; ok {
			name := string(level)
			if color {
				name = LevelStyle(level).Render(name)
			}
			if _, err := fmt.Fprintf(w, "  %-16s %d\n", name, count); err != nil {
				return err
			}
		}
	}
	for level, count := range report.LevelCounts {
		if !level.Known() {
			if _, err := fmt.Fprintf(w, "  %-16s %d\n", string(level), count); err != nil {
				return err
			}
		}
	}

	if report.ErrorsPerMin > 0 {
		if _, err := fmt.Fprintf(w, "Error rate: %.2f/min\n", report.ErrorsPerMin); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderSpikes writes the spike table
func RenderSpikes(w io.Writer, spikes []domain.Spike, color bool) error {
	title := fmt.Sprintf("Error spikes (%d)", len(spikes))
	if color {
		title = Styles.Header.Render(title)
	}
	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}
	if len(spikes) == 0 {
		_, err := fmt.Fprintln(w, "  none")
		return err
	}

	table := tablewriter.NewTable(w)
	table.Header("Window start", "Window end", "Errors", "Sample")
	for _, s := range spikes {
		sample := ""
		if len(s.SampleMessages) > 0 {
			sample = s.SampleMessages[0]
		}
		if err := table.Append([]string{
			s.WindowStart.Format(time.RFC3339),
			s.WindowEnd.Format(time.RFC3339),
			strconv.Itoa(s.ErrorCount),
			sample,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderPatterns writes the pattern table in rank order
func RenderPatterns(w io.Writer, patterns []domain.PatternGroup) error {
	if _, err := fmt.Fprintf(w, "\nRecurring patterns (%d)\n", len(patterns)); err != nil {
		return err
	}
	if len(patterns) == 0 {
		_, err := fmt.Fprintln(w, "  none")
		return err
	}

	table := tablewriter.NewTable(w)
	table.Header("Count", "Pattern", "First seen", "Last seen")
	for _, p := range patterns {
		if err := table.Append([]string{
			strconv.Itoa(p.Count),
			p.NormalizedForm,
			p.FirstSeen.Format(time.RFC3339),
			p.LastSeen.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderAnomalies writes the anomaly table
func RenderAnomalies(w io.Writer, anomalies []domain.Anomaly, color bool) error {
	if _, err := fmt.Fprintf(w, "\nAnomalies (%d)\n", len(anomalies)); err != nil {
		return err
	}
	if len(anomalies) == 0 {
		_, err := fmt.Fprintln(w, "  none")
		return err
	}

	table := tablewriter.NewTable(w)
	table.Header("Time", "Kind", "Severity", "Detail")
	for _, a := range anomalies {
		severity := a.Severity
		if color {
			severity = SeverityStyle(a.Severity).Render(severity)
		}
		if err := table.Append([]string{
			a.Time.Format(time.RFC3339),
			a.Kind,
			severity,
			anomalyDetail(a),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func anomalyDetail(a domain.Anomaly) string {
	switch a.Kind {
	case domain.AnomalyTimeGap:
		return fmt.Sprintf("silence of %s", a.Gap.Round(time.Second))
	case domain.AnomalyHighErrorRate:
		return fmt.Sprintf("error rate %.0f%% (expected %.0f%%)", a.Observed*100, a.Expected*100)
	default:
		return fmt.Sprintf("volume %.0f (expected %.1f)", a.Observed, a.Expected)
	}
}
