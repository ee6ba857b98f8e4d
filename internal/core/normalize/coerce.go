package normalize

import (
	"strconv"
	"strings"
	"time"
)

// modeAliases folds transport mode spellings into the canonical vocabulary
var modeAliases = map[string]string{
	"road":       "road",
	"truck":      "road",
	"rail":       "rail",
	"train":      "rail",
	"sea":        "sea",
	"ocean":      "sea",
	"maritime":   "sea",
	"air":        "air",
	"flight":     "air",
	"multimodal": "multimodal",
	"intermodal": "multimodal",
}

// priorityAliases folds priority spellings, including p1..p4 service codes
var priorityAliases = map[string]string{
	"critical": "critical",
	"urgent":   "critical",
	"high":     "high",
	"medium":   "medium",
	"med":      "medium",
	"normal":   "medium",
	"low":      "low",
	"p1":       "critical",
	"p2":       "high",
	"p3":       "medium",
	"p4":       "low",
}

var boolAliases = map[string]bool{
	"true":  true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"false": false,
	"0":     false,
	"no":    false,
	"n":     false,
}

// tzLayouts cover ISO 8601 inputs after Z has been rewritten to +00:00
var tzLayouts = []string{
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04-07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04-07:00",
}

// naiveLayouts cover timestamps without an offset, interpreted as UTC
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
}

// ToText trims value and reports ok=false for blank input
func ToText(value string) (string, bool) {
	t := strings.TrimSpace(value)
	return t, t != ""
}

// ToFloat parses value as a float after stripping thousands separators
// blank input is not an error and reports ok=false with present=false
func ToFloat(value string) (f float64, ok bool) {
	t, present := ToText(value)
	if !present {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", ""), 64)
	return f, err == nil
}

// ToTimestamp parses value as ISO 8601 first, then a short list of common
// date layouts, always returning a UTC instant
// naive timestamps are assumed UTC
func ToTimestamp(value string) (time.Time, bool) {
	t, present := ToText(value)
	if !present {
		return time.Time{}, false
	}
	iso := strings.ReplaceAll(t, "Z", "+00:00")
	for _, layout := range tzLayouts {
		if ts, err := time.Parse(layout, iso); err == nil {
			return ts.UTC(), true
		}
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.Parse(layout, t); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// ToMode folds value into the canonical transport mode vocabulary
func ToMode(value string) (string, bool) {
	t, present := ToText(value)
	if !present {
		return "", false
	}
	m, ok := modeAliases[strings.ToLower(t)]
	return m, ok
}

// ToPriority folds value into the canonical priority vocabulary
func ToPriority(value string) (string, bool) {
	t, present := ToText(value)
	if !present {
		return "", false
	}
	p, ok := priorityAliases[strings.ToLower(t)]
	return p, ok
}

// ToBool folds common truthy and falsy spellings into a boolean
func ToBool(value string) (bool, bool) {
	t, present := ToText(value)
	if !present {
		return false, false
	}
	b, ok := boolAliases[strings.ToLower(t)]
	return b, ok
}
