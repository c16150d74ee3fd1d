package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatClock renders seconds as MM:SS. Negative values render as 00:00 and
// minutes are not wrapped into hours.
func FormatClock(seconds int64) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ParseSeconds coerces a loosely typed JSON value into whole seconds.
// Fractions are truncated toward zero. It returns false, with 0, when v is
// not a number or a numeric string.
func ParseSeconds(v any) (int64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case json.Number:
		return parseNumeric(n.String())
	case string:
		return parseNumeric(n)
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func parseNumeric(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return fromFloat(f)
}

func fromFloat(f float64) (int64, bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case f >= math.MaxInt64:
		return math.MaxInt64, true
	case f <= math.MinInt64:
		return math.MinInt64, true
	default:
		return int64(f), true
	}
}
