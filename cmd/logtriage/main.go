package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/logtriage/logtriage/internal/cli"
	"github.com/logtriage/logtriage/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Config defaults seed the flag defaults; explicit flags win.
	vars := kong.Vars{
		"config_format":       cfg.Format,
		"config_input_format": cfg.Analysis.InputFormat,
		"config_window":       cfg.Analysis.Window,
		"config_threshold":    strconv.Itoa(cfg.Analysis.Threshold),
		"config_order":        cfg.Analysis.Order,
		"config_min_count":    strconv.Itoa(cfg.Analysis.MinCount),
		"config_bucket":       cfg.Analysis.Bucket,
		"config_sensitivity":  strconv.FormatFloat(cfg.Analysis.Sensitivity, 'f', -1, 64),
		"config_max_gap":      cfg.Analysis.MaxGap,
	}

	ctx := kong.Parse(&c,
		kong.Name("logtriage"),
		kong.Description("Triage a log file: error spikes, recurring patterns, anomalies.\n\nSTART HERE: logtriage analyze <file>"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobals(&c, cfg)
	if err := ctx.Run(globals); err != nil {
		os.Exit(1)
	}
}
