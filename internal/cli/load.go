package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/logtriage/logtriage/internal/analyze"
	"github.com/logtriage/logtriage/internal/domain"
	"github.com/logtriage/logtriage/internal/parse"
	"github.com/logtriage/logtriage/internal/stream"
)

// AnalysisFlags is the shared configuration surface of the analysis
// commands. Defaults come from the config file via kong vars.
type AnalysisFlags struct {
	InputFormat string `name:"input-format" default:"${config_input_format}" enum:"standard,apache,nginx,json,auto" help:"Log line format"`

	Window      string   `default:"${config_window}" help:"Sliding window size (e.g. '5m', '30s')"`
	Threshold   int      `default:"${config_threshold}" help:"Error count that makes a window a spike"`
	ErrorLevels []string `name:"error-levels" help:"Levels counted as errors (default: ERROR,FATAL)"`
	Order       string   `default:"${config_order}" enum:"strict,lenient" help:"Policy for out-of-order timestamps"`

	MinCount int `name:"min-count" default:"${config_min_count}" help:"Hide patterns occurring fewer than this many times"`

	Bucket      string  `default:"${config_bucket}" help:"Anomaly aggregation bucket (e.g. '1m')"`
	Sensitivity float64 `default:"${config_sensitivity}" help:"Std deviations from mean before a bucket is anomalous"`
	MaxGap      string  `name:"max-gap" default:"${config_max_gap}" help:"Flag silences longer than this ('0' disables)"`

	NormalizeIPs     bool `name:"normalize-ips" default:"true" negatable:"" help:"Rewrite IP addresses to <ip>"`
	NormalizeUUIDs   bool `name:"normalize-uuids" default:"true" negatable:"" help:"Rewrite UUIDs to <uuid>"`
	NormalizeHexIDs  bool `name:"normalize-hex-ids" default:"true" negatable:"" help:"Rewrite hex IDs to <hex>"`
	NormalizeNumbers bool `name:"normalize-numbers" default:"true" negatable:"" help:"Rewrite digit runs to <n>"`
}

// options resolves the flags into validated analyzer options
func (f *AnalysisFlags) options(globals *Globals) (analyze.Options, error) {
	opts := analyze.DefaultOptions()

	var err error
	if opts.Window, err = parseDurationFlag(globals, "window", f.Window); err != nil {
		return opts, err
	}
	if opts.Bucket, err = parseDurationFlag(globals, "bucket", f.Bucket); err != nil {
		return opts, err
	}
	if opts.MaxGap, err = parseDurationFlag(globals, "max-gap", f.MaxGap); err != nil {
		return opts, err
	}

	order, err := analyze.ParseOrderPolicy(f.Order)
	if err != nil {
		return opts, outputError(globals, "INVALID_ORDER", err.Error())
	}

	opts.Threshold = f.Threshold
	opts.ErrorLevels = f.ErrorLevels
	opts.Order = order
	opts.MinOccurrences = f.MinCount
	opts.Sensitivity = f.Sensitivity
	opts.Rules = analyze.NormalizeRules{
		IPs:     f.NormalizeIPs,
		UUIDs:   f.NormalizeUUIDs,
		HexIDs:  f.NormalizeHexIDs,
		Numbers: f.NormalizeNumbers,
	}
	return opts, nil
}

func (f *AnalysisFlags) parser(globals *Globals) (*parse.Parser, error) {
	format, err := parse.ParseFormat(f.InputFormat)
	if err != nil {
		return nil, outputError(globals, "INVALID_FORMAT", err.Error())
	}
	return parse.NewParser(format), nil
}

func parseDurationFlag(globals *Globals, name, value string) (time.Duration, error) {
	if value == "0" || value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, outputError(globals, "INVALID_DURATION", fmt.Sprintf("invalid %s duration: %s", name, err))
	}
	return d, nil
}

// loadEvents reads and parses the whole file in one pass
func loadEvents(globals *Globals, path string, parser *parse.Parser) ([]domain.LogEvent, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, outputError(globals, "FILE_NOT_FOUND", fmt.Sprintf("cannot open file: %s", err))
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			globals.Log.Debugw("failed to close file", "path", path, "error", cerr)
		}
	}()

	s := stream.New(file, parser)
	events := s.Collect()
	if err := s.Err(); err != nil {
		return nil, 0, outputError(globals, "READ_ERROR", fmt.Sprintf("error reading file: %s", err))
	}

	globals.Log.Debugw("parsed input",
		"path", path,
		"lines", s.Lines(),
		"events", len(events),
		"dropped", s.Dropped(),
	)
	return events, s.Dropped(), nil
}
