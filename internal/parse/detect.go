package parse

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	accessShapeRe   = regexp.MustCompile(`^\S+ \S+ \S+ \[[^\]]+\] "`)
	standardShapeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}`)
)

// DetectFormat guesses the log format from a sample line. Used by the
// `auto` format; ambiguous lines fall back to the standard shape.
func DetectFormat(line string) Format {
	line = strings.TrimSpace(line)

	if strings.HasPrefix(line, "{") && gjson.Valid(line) {
		return FormatJSON
	}

	if accessShapeRe.MatchString(line) {
		// Nginx's default format appends the user agent in quotes; the
		// distinction does not change parsing, only labeling.
		if strings.Contains(line, `"Mozilla`) || strings.Contains(line, `"curl`) {
			return FormatNginx
		}
		return FormatApache
	}

	if standardShapeRe.MatchString(line) {
		return FormatStandard
	}

	return FormatStandard
}
