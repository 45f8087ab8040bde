package cli

import (
	"fmt"
	"time"

	"github.com/logtriage/logtriage/internal/analyze"
	"github.com/logtriage/logtriage/internal/domain"
	"github.com/logtriage/logtriage/internal/output"
)

// SummaryCmd summarizes level counts and the covered time range. With
// --start/--end it reports a two-pointer slice of that range instead.
type SummaryCmd struct {
	File  string `arg:"" required:"" help:"Log file to summarize"`
	Start string `help:"Range start (RFC3339, e.g. 2024-01-15T10:00:00Z)"`
	End   string `help:"Range end (RFC3339)"`
	AnalysisFlags
}

// Run executes the summary command
func (c *SummaryCmd) Run(globals *Globals) error {
	opts, err := c.options(globals)
	if err != nil {
		return err
	}
	parser, err := c.parser(globals)
	if err != nil {
		return err
	}
	levels, err := opts.LevelSet()
	if err != nil {
		return analysisError(globals, err)
	}

	events, drops, err := loadEvents(globals, c.File, parser)
	if err != nil {
		return err
	}

	if c.Start != "" || c.End != "" {
		return c.runRange(globals, events, levels)
	}

	report := buildSummary(events, drops, levels)
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteReport(report)
	}
	return output.RenderReport(globals.Stdout, report, output.ColorEnabled(globals.Stdout))
}

func (c *SummaryCmd) runRange(globals *Globals, events []domain.LogEvent, levels domain.LevelSet) error {
	start, end, err := c.rangeBounds(globals, events)
	if err != nil {
		return err
	}

	stats := analyze.RangeStats(events, start, end, levels)
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(struct {
			Type          string            `json:"type"`
			SchemaVersion int               `json:"schemaVersion"`
			Range         domain.RangeStats `json:"range"`
		}{"range", output.SchemaVersion, stats})
	}

	_, err = fmt.Fprintf(globals.Stdout, "Range %s to %s: %d entries, %d errors, %d warnings\n",
		stats.Start.Format(time.RFC3339), stats.End.Format(time.RFC3339),
		stats.Total, stats.Errors, stats.Warnings)
	return err
}

func (c *SummaryCmd) rangeBounds(globals *Globals, events []domain.LogEvent) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if c.Start != "" {
		if start, err = time.Parse(time.RFC3339, c.Start); err != nil {
			return start, end, outputError(globals, "INVALID_TIME", fmt.Sprintf("invalid --start: %s", err))
		}
	} else if len(events) > 0 {
		start = events[0].Timestamp
	}

	if c.End != "" {
		if end, err = time.Parse(time.RFC3339, c.End); err != nil {
			return start, end, outputError(globals, "INVALID_TIME", fmt.Sprintf("invalid --end: %s", err))
		}
	} else if len(events) > 0 {
		end = events[len(events)-1].Timestamp
	}

	return start, end, nil
}

// buildSummary assembles a report without running the detectors
func buildSummary(events []domain.LogEvent, drops int, levels domain.LevelSet) *domain.Report {
	report := &domain.Report{
		GeneratedAt: time.Now(),
		TotalEvents: len(events),
		ParseDrops:  drops,
		LevelCounts: make(map[domain.LogLevel]int),
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
	return report
}
