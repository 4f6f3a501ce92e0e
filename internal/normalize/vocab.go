package normalize

import "strings"

// Vocabulary maps, per canonical category, raw string variants onto the
// internal enum vocabulary. Static and read-only at runtime; tenant
// overrides are merged over the base table at registry load.
type Vocabulary map[string]map[string]string

const (
	VocabStatus    = "status"
	VocabCallType  = "call_type"
	VocabSentiment = "sentiment"
)

// BaseVocabulary returns the process-wide default vocabulary. Callers must
// treat the result as read-only; MergeVocabulary copies before overlaying.
func BaseVocabulary() Vocabulary {
	return baseVocabulary
}

var baseVocabulary = Vocabulary{
	VocabStatus: {
		"successful":  string(StatusSuccessful),
		"success":     string(StatusSuccessful),
		"completed":   string(StatusSuccessful),
		"complete":    string(StatusSuccessful),
		"ended":       string(StatusSuccessful),
		"done":        string(StatusSuccessful),
		"answered":    string(StatusSuccessful),
		"failed":      string(StatusFailed),
		"failure":     string(StatusFailed),
		"error":       string(StatusFailed),
		"no_answer":   string(StatusFailed),
		"busy":        string(StatusFailed),
		"voicemail":   string(StatusVoicemail),
		"vm":          string(StatusVoicemail),
		"transferred": string(StatusTransferred),
		"transfer":    string(StatusTransferred),
		"forwarded":   string(StatusTransferred),
		"ongoing":     string(StatusOngoing),
		"in_progress": string(StatusOngoing),
		"in progress": string(StatusOngoing),
		"active":      string(StatusOngoing),
		"live":        string(StatusOngoing),
	},
	VocabCallType: {
		"inbound":  string(CallTypeInbound),
		"incoming": string(CallTypeInbound),
		"in":       string(CallTypeInbound),
		"received": string(CallTypeInbound),
		"web_call": string(CallTypeInbound),
		"outbound": string(CallTypeOutbound),
		"outgoing": string(CallTypeOutbound),
		"out":      string(CallTypeOutbound),
		"dialed":   string(CallTypeOutbound),
	},
	VocabSentiment: {
		"positive":     string(SentimentPositive),
		"good":         string(SentimentPositive),
		"happy":        string(SentimentPositive),
		"satisfied":    string(SentimentPositive),
		"negative":     string(SentimentNegative),
		"bad":          string(SentimentNegative),
		"angry":        string(SentimentNegative),
		"dissatisfied": string(SentimentNegative),
		"neutral":      string(SentimentNeutral),
		"ok":           string(SentimentNeutral),
		"mixed":        string(SentimentNeutral),
		"unknown":      string(SentimentNeutral),
	},
}

// MergeVocabulary overlays tenant-specific entries on the base vocabulary
// and returns a fresh table. Neither input is mutated.
func MergeVocabulary(base, override Vocabulary) Vocabulary {
	out := make(Vocabulary, len(base))
	for cat, entries := range base {
		m := make(map[string]string, len(entries))
		for k, v := range entries {
			m[k] = v
		}
		out[cat] = m
	}
	for cat, entries := range override {
		m, ok := out[cat]
		if !ok {
			m = make(map[string]string, len(entries))
			out[cat] = m
		}
		for k, v := range entries {
			m[k] = v
		}
	}
	return out
}

// NormalizeValue resolves one raw value against a category vocabulary.
//
// Resolution: nil → def; exact trimmed match; case-insensitive match;
// otherwise the trimmed raw string passes through verbatim (def when empty).
// Callers that need a closed enum clamp the result afterwards.
func NormalizeValue(raw any, vocab map[string]string, def string) string {
	if raw == nil {
		return def
	}
	s := strings.TrimSpace(toString(raw))
	if s == "" {
		return def
	}
	if v, ok := vocab[s]; ok {
		return v
	}
	lower := strings.ToLower(s)
	if v, ok := vocab[lower]; ok {
		return v
	}
	for k, v := range vocab {
		if strings.EqualFold(k, s) {
			return v
		}
	}
	return s
}

// NormalizeStatus maps a raw status value into the closed status enum.
// Anything unresolvable degrades to StatusFailed. This is the final safety
// net behind NormalizedCall's enum invariant.
func NormalizeStatus(raw any, vocab Vocabulary) Status {
	v := NormalizeValue(raw, vocab[VocabStatus], string(StatusFailed))
	switch Status(v) {
	case StatusSuccessful, StatusFailed, StatusVoicemail, StatusTransferred, StatusOngoing:
		return Status(v)
	default:
		return StatusFailed
	}
}

// NormalizeCallType maps a raw direction value into the closed call-type
// enum, degrading to CallTypeInbound.
func NormalizeCallType(raw any, vocab Vocabulary) CallType {
	v := NormalizeValue(raw, vocab[VocabCallType], string(CallTypeInbound))
	switch CallType(v) {
	case CallTypeInbound, CallTypeOutbound:
		return CallType(v)
	default:
		return CallTypeInbound
	}
}

// NormalizeSentiment maps a raw sentiment value into the closed sentiment
// enum. Unresolvable values degrade to SentimentNone (absent), so garbage
// never inflates sentiment denominators.
func NormalizeSentiment(raw any, vocab Vocabulary) Sentiment {
	v := NormalizeValue(raw, vocab[VocabSentiment], string(SentimentNone))
	switch Sentiment(v) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(v)
	default:
		return SentimentNone
	}
}
