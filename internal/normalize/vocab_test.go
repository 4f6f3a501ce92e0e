package normalize

import "testing"

func TestNormalizeValue_ResolutionOrder(t *testing.T) {
	vocab := map[string]string{"ended": "successful", "Weird": "failed"}

	if got := NormalizeValue(nil, vocab, "def"); got != "def" {
		t.Fatalf("nil should yield default, got %q", got)
	}
	if got := NormalizeValue("ended", vocab, "def"); got != "successful" {
		t.Fatalf("exact match failed, got %q", got)
	}
	if got := NormalizeValue("  Ended ", vocab, "def"); got != "successful" {
		t.Fatalf("case-insensitive trimmed match failed, got %q", got)
	}
	if got := NormalizeValue("mystery", vocab, "def"); got != "mystery" {
		t.Fatalf("out-of-vocabulary value should pass through, got %q", got)
	}
	if got := NormalizeValue("   ", vocab, "def"); got != "def" {
		t.Fatalf("blank should yield default, got %q", got)
	}
}

func TestNormalizeStatus_EnumClosure(t *testing.T) {
	vocab := BaseVocabulary()
	cases := map[any]Status{
		"Ended":       StatusSuccessful,
		"completed":   StatusSuccessful,
		"Error":       StatusFailed,
		"voicemail":   StatusVoicemail,
		"TRANSFER":    StatusTransferred,
		"in_progress": StatusOngoing,
		nil:           StatusFailed,
		"":            StatusFailed,
		"garbage":     StatusFailed,
		float64(42):   StatusFailed,
	}
	for raw, want := range cases {
		if got := NormalizeStatus(raw, vocab); got != want {
			t.Fatalf("status %v: expected %q, got %q", raw, want, got)
		}
	}
}

func TestNormalizeCallType_EnumClosure(t *testing.T) {
	vocab := BaseVocabulary()
	cases := map[any]CallType{
		"Outgoing": CallTypeOutbound,
		"inbound":  CallTypeInbound,
		"web_call": CallTypeInbound,
		nil:        CallTypeInbound,
		"garbage":  CallTypeInbound,
	}
	for raw, want := range cases {
		if got := NormalizeCallType(raw, vocab); got != want {
			t.Fatalf("call_type %v: expected %q, got %q", raw, want, got)
		}
	}
}

func TestNormalizeSentiment_UnknownDegradesToAbsent(t *testing.T) {
	vocab := BaseVocabulary()
	if got := NormalizeSentiment("Good", vocab); got != SentimentPositive {
		t.Fatalf("expected positive, got %q", got)
	}
	if got := NormalizeSentiment("garbage", vocab); got != SentimentNone {
		t.Fatalf("expected absent sentiment, got %q", got)
	}
	if got := NormalizeSentiment(nil, vocab); got != SentimentNone {
		t.Fatalf("expected absent sentiment for nil, got %q", got)
	}
}

func TestMergeVocabulary_OverridesWithoutMutatingBase(t *testing.T) {
	override := Vocabulary{VocabStatus: {"resolved": string(StatusSuccessful)}}
	merged := MergeVocabulary(baseVocabulary, override)

	if got := NormalizeStatus("resolved", merged); got != StatusSuccessful {
		t.Fatalf("override entry missing, got %q", got)
	}
	if _, ok := baseVocabulary[VocabStatus]["resolved"]; ok {
		t.Fatalf("base vocabulary was mutated")
	}
	if got := NormalizeStatus("ended", merged); got != StatusSuccessful {
		t.Fatalf("base entry lost after merge, got %q", got)
	}
}
