package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/logtriage/logtriage/internal/domain"
)

// Access-log request lines, shared by the apache and nginx shapes:
// 127.0.0.1 - - [15/Jan/2024:10:23:45 +0000] "GET /index.html HTTP/1.1" 200 1234
var accessLogRe = regexp.MustCompile(`^(\S+) \S+ \S+ \[([^\]]+)\] "(\S+) (\S+)[^"]*" (\d{3}) (\S+)`)

const accessTimeLayout = "02/Jan/2006:15:04:05"

// parseApache handles the Apache combined log format. HTTP status maps to a
// level: 5xx ERROR, 4xx WARN, everything else INFO.
func parseApache(line string) (*domain.LogEvent, error) {
	return parseAccessLog(line)
}

// parseNginx handles the default nginx access log format, which shares the
// apache request-line shape.
func parseNginx(line string) (*domain.LogEvent, error) {
	return parseAccessLog(line)
}

func parseAccessLog(line string) (*domain.LogEvent, error) {
	m := accessLogRe.FindStringSubmatch(line)
	if m == nil {
		return nil, failure(ReasonMalformed, line)
	}

	// Timestamp carries a timezone suffix: "15/Jan/2024:10:23:45 +0000"
	tsTok, _, _ := strings.Cut(m[2], " ")
	ts, err := time.Parse(accessTimeLayout, tsTok)
	if err != nil {
		return nil, failure(ReasonBadTimestamp, line)
	}

	status, err := strconv.Atoi(m[5])
	if err != nil {
		return nil, failure(ReasonMalformed, line)
	}

	return &domain.LogEvent{
		Timestamp: ts,
		Level:     statusLevel(status),
		Message:   fmt.Sprintf("%s %s - %d", m[3], m[4], status),
		RawLine:   line,
	}, nil
}

func statusLevel(status int) domain.LogLevel {
	switch {
	case status >= 500:
		return domain.LogLevelError
	case status >= 400:
		return domain.LogLevelWarn
	default:
		return domain.LogLevelInfo
	}
}

// parseJSON handles JSON-formatted lines, e.g.
// {"timestamp":"2024-01-15T10:23:45Z","level":"ERROR","message":"boom"}
func parseJSON(line string) (*domain.LogEvent, error) {
	if !gjson.Valid(line) {
		return nil, failure(ReasonMalformed, line)
	}

	tsField := gjson.Get(line, "timestamp")
	if !tsField.Exists() {
		tsField = gjson.Get(line, "time")
	}
	ts, err := parseJSONTimestamp(tsField.String())
	if err != nil {
		return nil, failure(ReasonBadTimestamp, line)
	}

	levelField := gjson.Get(line, "level")
	if !levelField.Exists() {
		return nil, failure(ReasonNoLevel, line)
	}

	msg := gjson.Get(line, "message")
	if !msg.Exists() {
		msg = gjson.Get(line, "msg")
	}

	return &domain.LogEvent{
		Timestamp: ts,
		Level:     domain.ParseLogLevel(levelField.String()),
		Message:   msg.String(),
		RawLine:   line,
	}, nil
}

func parseJSONTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
