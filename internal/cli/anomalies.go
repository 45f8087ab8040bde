package cli

import (
	"github.com/logtriage/logtriage/internal/analyze"
	"github.com/logtriage/logtriage/internal/output"
)

// AnomaliesCmd flags statistical anomalies only
type AnomaliesCmd struct {
	File string `arg:"" required:"" help:"Log file to analyze"`
	AnalysisFlags
}

// Run executes the anomalies command
func (c *AnomaliesCmd) Run(globals *Globals) error {
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

	events, _, err := loadEvents(globals, c.File, parser)
	if err != nil {
		return err
	}

	anomalies, err := analyze.DetectAnomalies(events, analyze.AnomalyConfig{
		Bucket:      opts.Bucket,
		Sensitivity: opts.Sensitivity,
		MaxGap:      opts.MaxGap,
		ErrorLevels: levels,
	})
	if err != nil {
		return analysisError(globals, err)
	}

	if globals.Format == "ndjson" {
		writer := output.NewNDJSONWriter(globals.Stdout)
		for _, a := range anomalies {
			if err := writer.WriteAnomaly(a); err != nil {
				return err
			}
		}
		return nil
	}
	return output.RenderAnomalies(globals.Stdout, anomalies, output.ColorEnabled(globals.Stdout))
}
