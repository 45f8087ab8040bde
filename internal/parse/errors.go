package parse

import "fmt"

// Parse failure reasons
const (
	ReasonMalformed    = "malformed line"
	ReasonEmptyLine    = "empty line"
	ReasonBadTimestamp = "unparseable timestamp"
	ReasonNoLevel      = "missing level"
)

// ParseError describes one unparseable line. It is recovered locally by
// skipping the line; it is never fatal.
type ParseError struct {
	Reason string
	Line   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %s", e.Reason)
}

func failure(reason, line string) *ParseError {
	return &ParseError{Reason: reason, Line: line}
}
