package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/logtriage/logtriage/internal/domain"
)

// Format selects the line shape the parser expects
type Format string

const (
	FormatStandard Format = "standard"
	FormatApache   Format = "apache"
	FormatNginx    Format = "nginx"
	FormatJSON     Format = "json"
	FormatAuto     Format = "auto"
)

// ParseFormat validates a format token
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatStandard:
		return FormatStandard, nil
	case FormatApache:
		return FormatApache, nil
	case FormatNginx:
		return FormatNginx, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatAuto:
		return FormatAuto, nil
	}
	return "", fmt.Errorf("unknown log format %q", s)
}

// Timestamp layouts accepted by the standard format, tried in order
var standardLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Parser converts raw log lines into structured LogEvents. Parse is a pure
// function of the input line; the Parser holds only its configured format.
type Parser struct {
	format Format
}

// NewParser creates a parser for the given format
func NewParser(format Format) *Parser {
	return &Parser{format: format}
}

// Parse converts one raw line into a LogEvent. A line whose timestamp
// cannot be parsed or whose level token is absent yields a *ParseError;
// the caller skips such lines and excludes them from every statistic.
func (p *Parser) Parse(line string) (*domain.LogEvent, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, failure(ReasonEmptyLine, line)
	}

	format := p.format
	if format == FormatAuto {
		format = DetectFormat(trimmed)
	}

	switch format {
	case FormatApache:
		return parseApache(trimmed)
	case FormatNginx:
		return parseNginx(trimmed)
	case FormatJSON:
		return parseJSON(trimmed)
	default:
		return parseStandard(trimmed)
	}
}

// parseStandard handles the `TIMESTAMP LEVEL MESSAGE` convention, e.g.
// `2024-01-15 10:23:45 ERROR connection refused`.
func parseStandard(line string) (*domain.LogEvent, error) {
	ts, rest, err := splitTimestamp(line)
	if err != nil {
		return nil, failure(ReasonMalformed, line)
	}

	levelTok, message, _ := strings.Cut(rest, " ")
	if levelTok == "" {
		return nil, failure(ReasonNoLevel, line)
	}

	return &domain.LogEvent{
		Timestamp: ts,
		Level:     domain.ParseLogLevel(levelTok),
		Message:   strings.TrimSpace(message),
		RawLine:   line,
	}, nil
}

// splitTimestamp peels a leading timestamp off the line. The canonical
// shape is `2006-01-02 15:04:05` (two space-separated tokens); RFC3339
// single-token timestamps are accepted as well.
func splitTimestamp(line string) (time.Time, string, error) {
	fields := strings.SplitN(line, " ", 3)

	// Two-token form: "2006-01-02 15:04:05 ..."
	if len(fields) >= 3 {
		if ts, err := time.Parse(standardLayouts[0], fields[0]+" "+fields[1]); err == nil {
			return ts, fields[2], nil
		}
	}

	// Single-token form: "2006-01-02T15:04:05Z ..."
	if len(fields) >= 2 {
		for _, layout := range standardLayouts[1:] {
			if ts, err := time.Parse(layout, fields[0]); err == nil {
				return ts, strings.Join(fields[1:], " "), nil
			}
		}
	}

	return time.Time{}, "", fmt.Errorf("no timestamp prefix")
}
