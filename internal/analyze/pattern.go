package analyze

import (
	"regexp"
	"sort"
	"strings"

	"github.com/logtriage/logtriage/internal/domain"
)

// Normalization placeholders
const (
	placeholderIP     = "<ip>"
	placeholderUUID   = "<uuid>"
	placeholderHex    = "<hex>"
	placeholderNumber = "<n>"
)

var (
	ipRe      = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	uuidRe    = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)
	hexRe     = regexp.MustCompile(`\b0[xX][0-9a-fA-F]+\b|\b[0-9a-fA-F]{8,}\b`)
	numberRe  = regexp.MustCompile(`\d+`)
	spacesRe  = regexp.MustCompile(`\s+`)
	allDigits = "0123456789"
)

// NormalizeRules toggles the individual rewrite rules. Rule order is fixed
// regardless of toggles: IPs, then UUIDs, then hex IDs, then digit runs,
// then whitespace collapsing. The structured rules run before the digit
// rule so a disabled or partial rewrite cannot shred their shapes.
type NormalizeRules struct {
	IPs     bool
	UUIDs   bool
	HexIDs  bool
	Numbers bool
}

// DefaultRules enables every rewrite rule
func DefaultRules() NormalizeRules {
	return NormalizeRules{IPs: true, UUIDs: true, HexIDs: true, Numbers: true}
}

// Normalize rewrites volatile tokens in a message to placeholders so that
// messages differing only in IDs, addresses, or numbers group together.
// Deterministic and idempotent: normalizing a normalized message is a
// fixed point.
func Normalize(msg string, rules NormalizeRules) string {
	if rules.IPs {
		msg = ipRe.ReplaceAllString(msg, placeholderIP)
	}
	if rules.UUIDs {
		msg = uuidRe.ReplaceAllString(msg, placeholderUUID)
	}
	if rules.HexIDs {
		msg = hexRe.ReplaceAllStringFunc(msg, func(m string) string {
			if strings.HasPrefix(m, "0x") || strings.HasPrefix(m, "0X") {
				return placeholderHex
			}
			// A bare run counts as a hex ID only when it mixes digits and
			// hex letters; pure digit runs belong to the number rule and
			// hex-letter words like "deadbeef" stay untouched.
			if strings.ContainsAny(m, allDigits) && strings.ContainsAny(m, "abcdefABCDEF") {
				return placeholderHex
			}
			return m
		})
	}
	if rules.Numbers {
		msg = numberRe.ReplaceAllString(msg, placeholderNumber)
	}
	msg = spacesRe.ReplaceAllString(msg, " ")
	return strings.TrimSpace(msg)
}

// PatternConfig configures the pattern analyzer
type PatternConfig struct {
	// ErrorLevels is the set of levels whose messages are grouped.
	// Defaults to {ERROR, FATAL} when nil.
	ErrorLevels domain.LevelSet
	// Rules selects which rewrite rules apply
	Rules NormalizeRules
	// MinOccurrences drops groups below this count. Values <= 1 keep
	// every group.
	MinOccurrences int
}

// PatternAnalyzer groups error messages by their normalized form and ranks
// the groups by frequency. Pure given the same input sequence: ranking is
// count descending with normalized form ascending as the tie-break.
type PatternAnalyzer struct {
	cfg    PatternConfig
	groups map[string]*domain.PatternGroup
}

// NewPatternAnalyzer builds an analyzer with a fresh accumulator
func NewPatternAnalyzer(cfg PatternConfig) *PatternAnalyzer {
	if cfg.ErrorLevels == nil {
		cfg.ErrorLevels = domain.DefaultErrorLevels()
	}
	return &PatternAnalyzer{
		cfg:    cfg,
		groups: make(map[string]*domain.PatternGroup),
	}
}

// Observe feeds one event to the analyzer. Non-error events are ignored.
func (a *PatternAnalyzer) Observe(event domain.LogEvent) {
	if !a.cfg.ErrorLevels.Contains(event.Level) {
		return
	}

	key := Normalize(event.Message, a.cfg.Rules)
	group, ok := a.groups[key]
	if !ok {
		a.groups[key] = &domain.PatternGroup{
			NormalizedForm: key,
			Count:          1,
			ExampleMessage: event.Message,
			FirstSeen:      event.Timestamp,
			LastSeen:       event.Timestamp,
		}
		return
	}

	group.Count++
	if event.Timestamp.Before(group.FirstSeen) {
		group.FirstSeen = event.Timestamp
	}
	if event.Timestamp.After(group.LastSeen) {
		group.LastSeen = event.Timestamp
	}
}

// Groups returns the accumulated pattern groups, ranked by count
// descending then normalized form ascending.
func (a *PatternAnalyzer) Groups() []domain.PatternGroup {
	out := make([]domain.PatternGroup, 0, len(a.groups))
	for _, g := range a.groups {
		if a.cfg.MinOccurrences > 1 && g.Count < a.cfg.MinOccurrences {
			continue
		}
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].NormalizedForm < out[j].NormalizedForm
	})
	return out
}

// AnalyzePatterns runs a pattern analyzer over a finished event sequence
func AnalyzePatterns(events []domain.LogEvent, cfg PatternConfig) []domain.PatternGroup {
	a := NewPatternAnalyzer(cfg)
	for _, e := range events {
		a.Observe(e)
	}
	return a.Groups()
}
