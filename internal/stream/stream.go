// Package stream turns a line-oriented source into a lazy sequence of
// structured log events.
package stream

import (
	"bufio"
	"io"
	"strings"

	"github.com/logtriage/logtriage/internal/domain"
	"github.com/logtriage/logtriage/internal/parse"
)

// Stream is a lazy, single-pass sequence of LogEvents read from a
// line-oriented source. Malformed lines are silently dropped and counted.
// Restart by constructing a new Stream over a re-opened source.
type Stream struct {
	scanner *bufio.Scanner
	parser  *parse.Parser

	lines   int // non-empty lines seen
	dropped int // non-empty lines that failed to parse
}

// New creates a Stream reading from r through the given parser
func New(r io.Reader, parser *parse.Parser) *Stream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Stream{scanner: scanner, parser: parser}
}

// Next returns the next parseable event, or false when the source is
// exhausted. One line is read at a time; the whole input is never buffered.
func (s *Stream) Next() (*domain.LogEvent, bool) {
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.lines++

		event, err := s.parser.Parse(line)
		if err != nil {
			s.dropped++
			continue
		}
		return event, true
	}
	return nil, false
}

// Collect drains the stream into a slice
func (s *Stream) Collect() []domain.LogEvent {
	var events []domain.LogEvent
	for {
		event, ok := s.Next()
		if !ok {
			break
		}
		events = append(events, *event)
	}
	return events
}

// Lines returns the number of non-empty lines seen so far
func (s *Stream) Lines() int { return s.lines }

// Dropped returns the number of lines skipped as malformed. Diagnostic
// only; dropped lines never reach any statistic.
func (s *Stream) Dropped() int { return s.dropped }

// Err returns the first underlying read error, if any
func (s *Stream) Err() error { return s.scanner.Err() }
