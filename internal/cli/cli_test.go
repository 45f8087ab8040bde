package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logtriage/logtriage/internal/config"
	"github.com/logtriage/logtriage/internal/domain"
	"github.com/logtriage/logtriage/internal/logging"
	"github.com/logtriage/logtriage/internal/output"
)

func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	globals := &Globals{
		Format: format,
		Stdout: stdout,
		Stderr: stderr,
		Config: config.Default(),
		Log:    logging.Nop(),
	}
	return globals, stdout, stderr
}

// defaultFlags mirrors the defaults kong would inject from config vars
func defaultFlags() AnalysisFlags {
	return AnalysisFlags{
		InputFormat:      "standard",
		Window:           "5m",
		Threshold:        3,
		Order:            "strict",
		MinCount:         1,
		Bucket:           "1m",
		Sensitivity:      2.0,
		MaxGap:           "5m",
		NormalizeIPs:     true,
		NormalizeUUIDs:   true,
		NormalizeHexIDs:  true,
		NormalizeNumbers: true,
	}
}

func writeLogFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// burstLines is a minimal burst: three errors inside one window
func burstLines() []string {
	return []string{
		"2024-01-15 10:00:00 INFO service started",
		"2024-01-15 10:00:01 ERROR db timeout shard 1",
		"2024-01-15 10:00:02 ERROR db timeout shard 2",
		"2024-01-15 10:00:03 ERROR db timeout shard 3",
	}
}

func TestAnalyzeCmd_NDJSONReport(t *testing.T) {
	path := writeLogFile(t, burstLines()...)
	globals, stdout, _ := testGlobals("ndjson")

	cmd := &AnalyzeCmd{File: path, AnalysisFlags: defaultFlags()}
	require.NoError(t, cmd.Run(globals))

	var rec output.ReportOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))

	assert.Equal(t, "report", rec.Type)
	assert.Equal(t, output.SchemaVersion, rec.SchemaVersion)
	require.NotNil(t, rec.Report)
	assert.Equal(t, 4, rec.Report.TotalEvents)
	assert.Equal(t, 0, rec.Report.ParseDrops)

	require.Len(t, rec.Report.Spikes, 1)
	assert.Equal(t, 3, rec.Report.Spikes[0].ErrorCount)

	require.NotEmpty(t, rec.Report.Patterns)
	assert.Equal(t, "db timeout shard <n>", rec.Report.Patterns[0].NormalizedForm)
	assert.Equal(t, 3, rec.Report.Patterns[0].Count)
}

func TestAnalyzeCmd_TextReport(t *testing.T) {
	path := writeLogFile(t, burstLines()...)
	globals, stdout, _ := testGlobals("text")

	cmd := &AnalyzeCmd{File: path, AnalysisFlags: defaultFlags()}
	require.NoError(t, cmd.Run(globals))

	out := stdout.String()
	assert.Contains(t, out, "Total entries: 4 (dropped 0 malformed)")
	assert.Contains(t, out, "Error spikes (1)")
	assert.Contains(t, out, "db timeout shard <n>")
}

func TestAnalyzeCmd_FileNotFound(t *testing.T) {
	globals, stdout, _ := testGlobals("ndjson")

	cmd := &AnalyzeCmd{File: filepath.Join(t.TempDir(), "missing.log"), AnalysisFlags: defaultFlags()}
	require.Error(t, cmd.Run(globals))
	assert.Contains(t, stdout.String(), `"code":"FILE_NOT_FOUND"`)
}

func TestAnalyzeCmd_InvalidDuration(t *testing.T) {
	path := writeLogFile(t, burstLines()...)
	globals, _, stderr := testGlobals("text")

	flags := defaultFlags()
	flags.Window = "bogus"
	cmd := &AnalyzeCmd{File: path, AnalysisFlags: flags}
	require.Error(t, cmd.Run(globals))
	assert.Contains(t, stderr.String(), "Error [INVALID_DURATION]")
}

func TestAnalyzeCmd_OrderPolicy(t *testing.T) {
	lines := []string{
		"2024-01-15 10:00:05 INFO service started",
		"2024-01-15 10:00:01 ERROR clock went backwards",
	}
	path := writeLogFile(t, lines...)

	t.Run("strict rejects out-of-order input", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &AnalyzeCmd{File: path, AnalysisFlags: defaultFlags()}
		require.Error(t, cmd.Run(globals))
		assert.Contains(t, stdout.String(), `"code":"ORDER_VIOLATION"`)
	})

	t.Run("lenient skips out-of-order events", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		flags := defaultFlags()
		flags.Order = "lenient"
		cmd := &AnalyzeCmd{File: path, AnalysisFlags: flags}
		require.NoError(t, cmd.Run(globals))

		var rec output.ReportOutput
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
		assert.Empty(t, rec.Report.Spikes)
	})
}

func TestSpikesCmd(t *testing.T) {
	t.Run("burst emits one spike record", func(t *testing.T) {
		path := writeLogFile(t, burstLines()...)
		globals, stdout, _ := testGlobals("ndjson")

		cmd := &SpikesCmd{File: path, AnalysisFlags: defaultFlags()}
		require.NoError(t, cmd.Run(globals))

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		require.Len(t, lines, 1)

		var rec output.SpikeOutput
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
		assert.Equal(t, "spike", rec.Type)
		assert.Equal(t, 3, rec.Spike.ErrorCount)
		assert.Len(t, rec.Spike.SampleMessages, 3)
	})

	t.Run("spaced errors emit nothing", func(t *testing.T) {
		path := writeLogFile(t,
			"2024-01-15 10:00:00 ERROR db timeout",
			"2024-01-15 10:10:00 ERROR db timeout",
			"2024-01-15 10:20:00 ERROR db timeout",
		)
		globals, stdout, _ := testGlobals("ndjson")

		cmd := &SpikesCmd{File: path, AnalysisFlags: defaultFlags()}
		require.NoError(t, cmd.Run(globals))
		assert.Empty(t, stdout.String())
	})
}

func TestPatternsCmd(t *testing.T) {
	path := writeLogFile(t,
		"2024-01-15 10:00:00 INFO request served",
		"2024-01-15 10:00:01 ERROR user 42 not found",
		"2024-01-15 10:00:02 ERROR user 7 not found",
	)
	globals, stdout, _ := testGlobals("ndjson")

	cmd := &PatternsCmd{File: path, AnalysisFlags: defaultFlags()}
	require.NoError(t, cmd.Run(globals))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 1)

	var rec output.PatternOutput
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "pattern", rec.Type)
	assert.Equal(t, "user <n> not found", rec.Pattern.NormalizedForm)
	assert.Equal(t, 2, rec.Pattern.Count)
	assert.Equal(t, "user 42 not found", rec.Pattern.ExampleMessage)
}

func TestAnomaliesCmd(t *testing.T) {
	path := writeLogFile(t,
		"2024-01-15 10:00:00 INFO heartbeat",
		"2024-01-15 10:02:00 INFO heartbeat",
		"2024-01-15 10:04:00 INFO heartbeat",
		"2024-01-15 10:06:00 INFO heartbeat",
		"2024-01-15 10:08:00 INFO heartbeat",
		"2024-01-15 10:10:00 INFO heartbeat",
	)
	globals, stdout, _ := testGlobals("ndjson")

	flags := defaultFlags()
	flags.MaxGap = "1m"
	cmd := &AnomaliesCmd{File: path, AnalysisFlags: flags}
	require.NoError(t, cmd.Run(globals))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 5)

	var rec output.AnomalyOutput
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "anomaly", rec.Type)
	assert.Equal(t, domain.AnomalyTimeGap, rec.Anomaly.Kind)
	assert.Equal(t, domain.SeverityLow, rec.Anomaly.Severity)
}

func TestTailCmd_SummaryLine(t *testing.T) {
	globals, _, stderr := testGlobals("text")

	counts := map[domain.LogLevel]int{
		domain.LogLevelInfo:  3,
		domain.LogLevelError: 2,
	}
	cmd := &TailCmd{}
	writer := output.NewNDJSONWriter(globals.Stdout)
	require.NoError(t, cmd.emitSummary(globals, writer, counts, 1))

	line := stderr.String()
	assert.Contains(t, line, "5 entries since last summary")
	assert.Contains(t, line, "ERROR=2 FATAL=0")
	assert.Contains(t, line, "dropped=1")
}

func TestSummaryCmd_Range(t *testing.T) {
	path := writeLogFile(t, burstLines()...)
	globals, stdout, _ := testGlobals("ndjson")

	cmd := &SummaryCmd{
		File:          path,
		Start:         "2024-01-15T10:00:01Z",
		End:           "2024-01-15T10:00:03Z",
		AnalysisFlags: defaultFlags(),
	}
	require.NoError(t, cmd.Run(globals))

	var rec struct {
		Type  string `json:"type"`
		Range struct {
			Total    int `json:"total"`
			Errors   int `json:"errors"`
			Warnings int `json:"warnings"`
		} `json:"range"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
	assert.Equal(t, "range", rec.Type)
	assert.Equal(t, 3, rec.Range.Total)
	assert.Equal(t, 3, rec.Range.Errors)
	assert.Equal(t, 0, rec.Range.Warnings)
}

func TestSummaryCmd_InvalidStart(t *testing.T) {
	path := writeLogFile(t, burstLines()...)
	globals, stdout, _ := testGlobals("ndjson")

	cmd := &SummaryCmd{File: path, Start: "not-a-time", AnalysisFlags: defaultFlags()}
	require.Error(t, cmd.Run(globals))
	assert.Contains(t, stdout.String(), `"code":"INVALID_TIME"`)
}

func TestSummaryCmd_WholeFile(t *testing.T) {
	path := writeLogFile(t, burstLines()...)
	globals, stdout, _ := testGlobals("ndjson")

	cmd := &SummaryCmd{File: path, AnalysisFlags: defaultFlags()}
	require.NoError(t, cmd.Run(globals))

	var rec output.ReportOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
	assert.Equal(t, 4, rec.Report.TotalEvents)
	// summary skips the detectors
	assert.Empty(t, rec.Report.Spikes)
	assert.Empty(t, rec.Report.Patterns)
}

func TestExportCmd_EventsCSV(t *testing.T) {
	path := writeLogFile(t, burstLines()...)
	out := filepath.Join(t.TempDir(), "events.csv")
	globals, _, _ := testGlobals("text")

	cmd := &ExportCmd{File: path, Out: out, Kind: "events", AnalysisFlags: defaultFlags()}
	require.NoError(t, cmd.Run(globals))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"timestamp", "level", "message"}, rows[0])
	assert.Equal(t, []string{"2024-01-15T10:00:01Z", "ERROR", "db timeout shard 1"}, rows[2])
}

func TestExportCmd_SpikesNDJSON(t *testing.T) {
	path := writeLogFile(t, burstLines()...)
	out := filepath.Join(t.TempDir(), "spikes.ndjson")
	globals, _, _ := testGlobals("text")

	cmd := &ExportCmd{File: path, Out: out, Kind: "spikes", AnalysisFlags: defaultFlags()}
	require.NoError(t, cmd.Run(globals))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec output.SpikeOutput
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, 3, rec.Spike.ErrorCount)
}

func TestExportCmd_InvalidExtension(t *testing.T) {
	path := writeLogFile(t, burstLines()...)
	globals, _, stderr := testGlobals("text")

	cmd := &ExportCmd{File: path, Out: "out.txt", Kind: "events", AnalysisFlags: defaultFlags()}
	require.Error(t, cmd.Run(globals))
	assert.Contains(t, stderr.String(), "Error [INVALID_OUTPUT]")
}

func TestVersionCmd(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		require.NoError(t, (&VersionCmd{}).Run(globals))
		assert.Contains(t, stdout.String(), "logtriage version")
	})

	t.Run("ndjson", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&VersionCmd{}).Run(globals))

		var rec map[string]string
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
		assert.Equal(t, "version", rec["type"])
	})
}
