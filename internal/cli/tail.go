package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/logtriage/logtriage/internal/domain"
	"github.com/logtriage/logtriage/internal/output"
	"github.com/logtriage/logtriage/internal/stream"
)

// TailCmd follows a log file and streams parsed events until interrupted
type TailCmd struct {
	File            string `arg:"" required:"" help:"Log file to follow"`
	InputFormat     string `name:"input-format" default:"${config_input_format}" enum:"standard,apache,nginx,json,auto" help:"Log line format"`
	FromStart       bool   `help:"Read the whole file before following instead of seeking to the end"`
	Poll            bool   `help:"Poll for changes instead of using inotify"`
	SummaryInterval string `name:"summary-interval" help:"Emit a rolling level summary every interval (e.g. '30s')"`
}

// Run executes the tail command
func (c *TailCmd) Run(globals *Globals) error {
	flags := AnalysisFlags{InputFormat: c.InputFormat}
	parser, err := flags.parser(globals)
	if err != nil {
		return err
	}

	interval, err := parseDurationFlag(globals, "summary-interval", c.SummaryInterval)
	if err != nil {
		return err
	}

	tailer, err := stream.NewTailer(c.File, parser, stream.TailerOptions{
		FromStart: c.FromStart,
		Poll:      c.Poll,
	})
	if err != nil {
		return outputError(globals, "TAIL_FAILED", fmt.Sprintf("cannot follow file: %s", err))
	}
	defer func() {
		if serr := tailer.Stop(); serr != nil {
			globals.Log.Debugw("tailer stop", "error", serr)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if !globals.Quiet && globals.Format != "ndjson" {
		fmt.Fprintf(globals.Stderr, "Following %s (Ctrl+C to stop)\n", c.File)
	}

	clk := clock.New()
	var summaryCh <-chan time.Time
	if interval > 0 {
		ticker := clk.Ticker(interval)
		defer ticker.Stop()
		summaryCh = ticker.C
	}

	writer := output.NewNDJSONWriter(globals.Stdout)
	color := output.ColorEnabled(globals.Stdout)
	counts := make(map[domain.LogLevel]int)

	for {
		select {
		case event, ok := <-tailer.Events():
			if !ok {
				return nil
			}
			counts[event.Level]++
			if globals.Format == "ndjson" {
				if err := writer.WriteEvent(event); err != nil {
					return err
				}
				continue
			}
			if err := writeTailLine(globals, event, color); err != nil {
				return err
			}

		case <-summaryCh:
			if err := c.emitSummary(globals, writer, counts, tailer.Dropped()); err != nil {
				return err
			}
			counts = make(map[domain.LogLevel]int)

		case <-sigCh:
			if !globals.Quiet && globals.Format != "ndjson" {
				fmt.Fprintln(globals.Stderr, "Stopped.")
			}
			return nil
		}
	}
}

func writeTailLine(globals *Globals, event *domain.LogEvent, color bool) error {
	ts := event.Timestamp.Format("2006-01-02 15:04:05")
	level := string(event.Level)
	if color {
		ts = output.Styles.Timestamp.Render(ts)
		level = output.LevelStyle(event.Level).Render(level)
	}
	_, err := fmt.Fprintf(globals.Stdout, "%s %s %s\n", ts, level, event.Message)
	return err
}

func (c *TailCmd) emitSummary(globals *Globals, writer *output.NDJSONWriter, counts map[domain.LogLevel]int, dropped int64) error {
	if globals.Format == "ndjson" {
		out := struct {
			Type          string                  `json:"type"`
			SchemaVersion int                     `json:"schemaVersion"`
			Counts        map[domain.LogLevel]int `json:"counts"`
			Dropped       int64                   `json:"dropped"`
		}{"tail_summary", output.SchemaVersion, counts, dropped}
		return writer.WriteRaw(out)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	parts := make([]string, 0, 2)
	for _, level := range domain.DefaultErrorLevels().Levels() {
		parts = append(parts, fmt.Sprintf("%s=%d", level, counts[level]))
	}
	_, err := fmt.Fprintf(globals.Stderr, "-- %d entries since last summary (%s, dropped=%d)\n",
		total, strings.Join(parts, " "), dropped)
	return err
}
