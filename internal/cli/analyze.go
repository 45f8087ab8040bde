package cli

import (
	"errors"

	"github.com/logtriage/logtriage/internal/analyze"
	"github.com/logtriage/logtriage/internal/output"
)

// AnalyzeCmd produces the full report for a log file
type AnalyzeCmd struct {
	File string `arg:"" required:"" help:"Log file to analyze"`
	AnalysisFlags
}

// Run executes the analyze command
func (c *AnalyzeCmd) Run(globals *Globals) error {
	opts, err := c.options(globals)
	if err != nil {
		return err
	}
	parser, err := c.parser(globals)
	if err != nil {
		return err
	}

	events, drops, err := loadEvents(globals, c.File, parser)
	if err != nil {
		return err
	}

	report, err := analyze.Run(events, drops, opts)
	if err != nil {
		return analysisError(globals, err)
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteReport(report)
	}
	return output.RenderReport(globals.Stdout, report, output.ColorEnabled(globals.Stdout))
}

// analysisError maps engine failures to structured CLI errors
func analysisError(globals *Globals, err error) error {
	var cfgErr *analyze.ConfigError
	if errors.As(err, &cfgErr) {
		return outputError(globals, "INVALID_CONFIG", err.Error())
	}
	var orderErr *analyze.OrderError
	if errors.As(err, &orderErr) {
		return outputError(globals, "ORDER_VIOLATION", err.Error())
	}
	return outputError(globals, "ANALYSIS_FAILED", err.Error())
}
