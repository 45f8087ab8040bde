package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/logtriage/logtriage/internal/analyze"
	"github.com/logtriage/logtriage/internal/output"
)

// ExportCmd exports parsed events or derived results to a file. The
// format follows the output extension: .csv or .json/.ndjson.
type ExportCmd struct {
	File string `arg:"" required:"" help:"Log file to export"`
	Out  string `short:"o" required:"" help:"Output path (.csv, .json, or .ndjson)"`
	Kind string `default:"events" enum:"events,spikes,patterns" help:"What to export"`
	AnalysisFlags
}

// Run executes the export command
func (c *ExportCmd) Run(globals *Globals) error {
	ext := strings.ToLower(filepath.Ext(c.Out))
	if ext != ".csv" && ext != ".json" && ext != ".ndjson" {
		return outputError(globals, "INVALID_OUTPUT", fmt.Sprintf("unsupported output extension %q", ext))
	}

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

	out, err := os.Create(c.Out)
	if err != nil {
		return outputError(globals, "WRITE_ERROR", fmt.Sprintf("cannot create output: %s", err))
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			globals.Log.Debugw("failed to close output", "path", c.Out, "error", cerr)
		}
	}()

	switch c.Kind {
	case "spikes":
		spikes, err := analyze.DetectSpikes(events, analyze.SpikeConfig{
			Window:      opts.Window,
			Threshold:   opts.Threshold,
			ErrorLevels: levels,
			Order:       opts.Order,
		})
		if err != nil {
			return analysisError(globals, err)
		}
		if ext == ".csv" {
			return output.WriteSpikesCSV(out, spikes)
		}
		writer := output.NewNDJSONWriter(out)
		for _, s := range spikes {
			if err := writer.WriteSpike(s); err != nil {
				return err
			}
		}
		return nil

	case "patterns":
		patterns := analyze.AnalyzePatterns(events, analyze.PatternConfig{
			ErrorLevels:    levels,
			Rules:          opts.Rules,
			MinOccurrences: opts.MinOccurrences,
		})
		if ext == ".csv" {
			return output.WritePatternsCSV(out, patterns)
		}
		writer := output.NewNDJSONWriter(out)
		for _, p := range patterns {
			if err := writer.WritePattern(p); err != nil {
				return err
			}
		}
		return nil

	default:
		if ext == ".csv" {
			return output.WriteEventsCSV(out, events)
		}
		writer := output.NewNDJSONWriter(out)
		for i := range events {
			if err := writer.WriteEvent(&events[i]); err != nil {
				return err
			}
		}
		return nil
	}
}
