package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var minuteSecondRe = regexp.MustCompile(`^(\d+)\s*m\s+(\d+(?:\.\d+)?)\s*s$`)

// ParseDurationSeconds converts a raw duration value to seconds.
//
// Accepted shapes: plain numbers (seconds), "<int>m <int>s" ("5m 3s" → 303),
// clock strings "MM:SS" or "H:MM:SS" ("0:21" → 21), and numeric strings.
// Anything else yields 0 and ok=false; parsing never fails the record.
// Negative inputs clamp to 0.
func ParseDurationSeconds(raw any) (float64, bool) {
	if raw == nil {
		return 0, true
	}
	if n, ok := asNumber(raw); ok {
		if n < 0 {
			return 0, true
		}
		return n, true
	}
	s, ok := raw.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, true
	}

	if m := minuteSecondRe.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.ParseFloat(m[1], 64)
		secs, _ := strconv.ParseFloat(m[2], 64)
		return mins*60 + secs, true
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) == 2 || len(parts) == 3 {
			total := 0.0
			for _, p := range parts {
				n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
				if err != nil || n < 0 {
					return 0, false
				}
				total = total*60 + n
			}
			return total, true
		}
		return 0, false
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n < 0 {
			return 0, true
		}
		return n, true
	}
	return 0, false
}

// ParseNumber converts a raw cost/latency value to a non-negative float.
// Currency prefixes and thousands separators in strings are tolerated.
// Unrecognized values yield 0 and ok=false.
func ParseNumber(raw any) (float64, bool) {
	if raw == nil {
		return 0, true
	}
	if n, ok := asNumber(raw); ok {
		if n < 0 {
			return 0, true
		}
		return n, true
	}
	s, ok := raw.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if n < 0 {
		return 0, true
	}
	return n, true
}

// ParseTimestamp parses the timestamp shapes tenant stores produce.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	default:
		return 0, false
	}
}

func toString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
