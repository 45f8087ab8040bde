package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/logtriage/logtriage/internal/domain"
)

// Styles holds the lipgloss styles for text output
var Styles = struct {
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	Fatal lipgloss.Style

	Timestamp lipgloss.Style
	Header    lipgloss.Style
	Label     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
}{
	Debug: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),                            // Gray
	Info:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),                             // Green
	Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),                 // Orange
	Error: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),                 // Red bold
	Fatal: lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true).Underline(true), // Magenta

	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	Danger:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

// LevelStyle returns the style for a log level
func LevelStyle(level domain.LogLevel) lipgloss.Style {
	switch level {
	case domain.LogLevelDebug:
		return Styles.Debug
	case domain.LogLevelInfo:
		return Styles.Info
	case domain.LogLevelWarn:
		return Styles.Warn
	case domain.LogLevelError:
		return Styles.Error
	case domain.LogLevelFatal:
		return Styles.Fatal
	default:
		return Styles.Info
	}
}

// SeverityStyle returns the style for an anomaly severity
func SeverityStyle(severity string) lipgloss.Style {
	switch severity {
	case domain.SeverityHigh:
		return Styles.Danger
	case domain.SeverityMedium:
		return Styles.Warning
	default:
		return Styles.Label
	}
}

// ColorEnabled reports whether w is an interactive terminal
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
