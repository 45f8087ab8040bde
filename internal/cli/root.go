// Package cli wires the commands around the analysis engine.
package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/logtriage/logtriage/internal/config"
	"github.com/logtriage/logtriage/internal/logging"
)

// CLI is the root command structure for logtriage
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Output format"`
	Quiet   bool   `short:"q" help:"Suppress non-result output"`
	Verbose bool   `short:"v" help:"Show debug output (drop counts, detection internals)"`

	// Commands
	Analyze   AnalyzeCmd   `cmd:"" default:"withargs" help:"Full report: summary, spikes, patterns, anomalies"`
	Spikes    SpikesCmd    `cmd:"" help:"Detect error spikes in a log file"`
	Patterns  PatternsCmd  `cmd:"" help:"Rank recurring error patterns in a log file"`
	Anomalies AnomaliesCmd `cmd:"" help:"Flag statistical anomalies in a log file"`
	Summary   SummaryCmd   `cmd:"" help:"Summarize level counts and time range"`
	Export    ExportCmd    `cmd:"" help:"Export parsed events or results to CSV/NDJSON"`
	Tail      TailCmd      `cmd:"" help:"Follow a log file and stream parsed events"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Log     *zap.SugaredLogger
}

// NewGlobals creates a Globals instance with config fallbacks applied
func NewGlobals(c *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}

	g := &Globals{
		Format:  c.Format,
		Quiet:   c.Quiet || cfg.Quiet,
		Verbose: c.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	g.Log = logging.New(g.Stderr, g.Verbose)
	if g.Quiet {
		g.Log = logging.Nop()
	}
	return g
}

// VersionCmd shows version information
type VersionCmd struct{}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		_, err := io.WriteString(globals.Stdout, `{"type":"version","version":"`+Version+`","commit":"`+Commit+`"}`+"\n")
		return err
	}
	_, err := io.WriteString(globals.Stdout, "logtriage version "+Version+" ("+Commit+")\n")
	return err
}
