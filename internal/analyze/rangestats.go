package analyze

import (
	"time"

	"github.com/logtriage/logtriage/internal/domain"
)

// RangeStats summarizes the events inside the closed range [start, end]
// with a two-pointer scan. Events must be sorted by timestamp.
func RangeStats(events []domain.LogEvent, start, end time.Time, errorLevels domain.LevelSet) domain.RangeStats {
	if errorLevels == nil {
		errorLevels = domain.DefaultErrorLevels()
	}

	left := 0
	for left < len(events) && events[left].Timestamp.Before(start) {
		left++
	}
	right := left
	for right < len(events) && !events[right].Timestamp.After(end) {
		right++
	}

	stats := domain.RangeStats{Start: start, End: end, Total: right - left}
	for _, e := range events[left:right] {
		switch {
		case errorLevels.Contains(e.Level):
			stats.Errors++
		case e.Level == domain.LogLevelWarn:
			stats.Warnings++
		}
	}
	return stats
}
