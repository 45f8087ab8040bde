package cli

import (
	"github.com/logtriage/logtriage/internal/analyze"
	"github.com/logtriage/logtriage/internal/output"
)

// SpikesCmd detects error spikes only
type SpikesCmd struct {
	File string `arg:"" required:"" help:"Log file to analyze"`
	AnalysisFlags
}

// Run executes the spikes command
func (c *SpikesCmd) Run(globals *Globals) error {
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

	spikes, err := analyze.DetectSpikes(events, analyze.SpikeConfig{
		Window:      opts.Window,
		Threshold:   opts.Threshold,
		ErrorLevels: levels,
		Order:       opts.Order,
	})
	if err != nil {
		return analysisError(globals, err)
	}

	if globals.Format == "ndjson" {
		writer := output.NewNDJSONWriter(globals.Stdout)
		for _, s := range spikes {
			if err := writer.WriteSpike(s); err != nil {
				return err
			}
		}
		return nil
	}
	return output.RenderSpikes(globals.Stdout, spikes, output.ColorEnabled(globals.Stdout))
}
