package analyze

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/logtriage/logtriage/internal/domain"
)

func TestRangeStats(t *testing.T) {
	events := []domain.LogEvent{
		infoAt(base, "before"),
		errorAt(base.Add(1*time.Minute), "in"),
		{Timestamp: base.Add(2 * time.Minute), Level: domain.LogLevelWarn, Message: "in"},
		infoAt(base.Add(3*time.Minute), "in"),
		errorAt(base.Add(10*time.Minute), "after"),
	}

	stats := RangeStats(events, base.Add(time.Minute), base.Add(3*time.Minute), nil)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Warnings)
}

func TestRangeStats_InclusiveBounds(t *testing.T) {
	events := []domain.LogEvent{
		errorAt(base, "exact start"),
		errorAt(base.Add(time.Minute), "exact end"),
	}

	stats := RangeStats(events, base, base.Add(time.Minute), nil)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.Errors)
}

func TestRangeStats_EmptyRange(t *testing.T) {
	events := []domain.LogEvent{errorAt(base, "x")}

	stats := RangeStats(events, base.Add(time.Hour), base.Add(2*time.Hour), nil)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Errors)
}
