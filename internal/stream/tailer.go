package stream

import (
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nxadm/tail"

	"github.com/logtriage/logtriage/internal/domain"
	"github.com/logtriage/logtriage/internal/parse"
)

// TailerOptions controls follow-mode behavior
type TailerOptions struct {
	// FromStart reads the file from the beginning instead of seeking to
	// the end before following.
	FromStart bool
	// Poll falls back to polling when inotify is unavailable
	Poll bool
}

// Tailer follows a log file and streams parsed events, surviving rotation.
// Events arrive on Events(); Stop ends the follow and closes the channel.
type Tailer struct {
	events  chan *domain.LogEvent
	tailer  *tail.Tail
	parser  *parse.Parser
	dropped atomic.Int64

	stopOnce sync.Once
	done     chan struct{}
}

// NewTailer starts following path. The returned Tailer owns one goroutine
// that parses lines as they appear.
func NewTailer(path string, parser *parse.Parser, opts TailerOptions) (*Tailer, error) {
	cfg := tail.Config{
		Follow:    true,
		ReOpen:    true, // survive log rotation
		MustExist: true,
		Poll:      opts.Poll,
		Logger:    tail.DiscardingLogger,
	}
	if !opts.FromStart {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return nil, err
	}

	tl := &Tailer{
		events: make(chan *domain.LogEvent, 256),
		tailer: t,
		parser: parser,
		done:   make(chan struct{}),
	}
	go tl.run()
	return tl, nil
}

// Events returns the channel of parsed events. Closed after Stop or when
// the underlying tail ends.
func (t *Tailer) Events() <-chan *domain.LogEvent { return t.events }

// Dropped returns the number of lines lost so far: malformed lines plus
// events discarded because the consumer was not draining Events.
func (t *Tailer) Dropped() int64 { return t.dropped.Load() }

// Stop ends the follow, waits for the reader goroutine, and closes Events
func (t *Tailer) Stop() error {
	var err error
	t.stopOnce.Do(func() {
		err = t.tailer.Stop()
		<-t.done
	})
	return err
}

func (t *Tailer) run() {
	defer close(t.events)
	defer close(t.done)

	for line := range t.tailer.Lines {
		if line.Err != nil {
			continue
		}
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		event, err := t.parser.Parse(line.Text)
		if err != nil {
			t.dropped.Add(1)
			continue
		}
		// Never block on a lagging consumer: a full buffer would wedge
		// this goroutine on the send and Stop on waiting for it.
		select {
		case t.events <- event:
		default:
			t.dropped.Add(1)
		}
	}
}
