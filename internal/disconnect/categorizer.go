package disconnect

import "strings"

// Category buckets a disconnect reason for reporting.
type Category string

const (
	// CategoryEnded covers calls that ran to a normal end.
	CategoryEnded Category = "ended"
	// CategoryNotConnected covers calls that never reached the customer.
	CategoryNotConnected Category = "not_connected"
	// CategoryError covers provider/platform failures. It is also the
	// fallback for unknown reasons: anything unrecognized is worth
	// investigating, so it is surfaced as an error rather than hidden.
	CategoryError Category = "error"
)

var endedReasons = map[string]struct{}{
	"user_hangup":          {},
	"agent_hangup":         {},
	"call_transfer":        {},
	"call_completed":       {},
	"completed":            {},
	"inactivity":           {},
	"max_duration_reached": {},
}

var notConnectedReasons = map[string]struct{}{
	"dial_busy":               {},
	"dial_no_answer":          {},
	"dial_failed":             {},
	"busy":                    {},
	"no_answer":               {},
	"voicemail_reached":       {},
	"machine_detected":        {},
	"registered_call_timeout": {},
}

// Categorize maps a raw disconnect reason onto its category.
// Lookup is case-insensitive; unknown reasons categorize as CategoryError.
func Categorize(reason string) Category {
	key := strings.ToLower(strings.TrimSpace(reason))
	if _, ok := endedReasons[key]; ok {
		return CategoryEnded
	}
	if _, ok := notConnectedReasons[key]; ok {
		return CategoryNotConnected
	}
	return CategoryError
}
