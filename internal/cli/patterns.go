package cli

import (
	"github.com/logtriage/logtriage/internal/analyze"
	"github.com/logtriage/logtriage/internal/output"
)

// PatternsCmd ranks recurring error patterns only
type PatternsCmd struct {
	File string `arg:"" required:"" help:"Log file to analyze"`
	AnalysisFlags
}

// Run executes the patterns command
func (c *PatternsCmd) Run(globals *Globals) error {
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

	patterns := analyze.AnalyzePatterns(events, analyze.PatternConfig{
		ErrorLevels:    levels,
		Rules:          opts.Rules,
		MinOccurrences: opts.MinOccurrences,
	})

	if globals.Format == "ndjson" {
		writer := output.NewNDJSONWriter(globals.Stdout)
		for _, p := range patterns {
			if err := writer.WritePattern(p); err != nil {
				return err
			}
		}
		return nil
	}
	return output.RenderPatterns(globals.Stdout, patterns)
}
