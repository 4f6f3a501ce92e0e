package normalize

import (
	"log/slog"
	"strings"
)

// Normalizer transforms raw tenant rows into NormalizedCall records.
//
// One Normalizer is built per tenant per batch: the field mapping is
// resolved once (against static overrides and a sample of the batch) and
// reused for every record. Normalization is a pure function of the inputs;
// the only side effect is diagnostic logging on parse failures.
type Normalizer struct {
	tenantID string
	mapping  FieldMapping
	vocab    Vocabulary
	log      *slog.Logger
}

// New builds a Normalizer for one batch. mappingOverride and vocabOverride
// come from the tenants registry and may be nil; sample is used for field
// autodetection when no override covers a field.
func New(tenantID string, mappingOverride FieldMapping, vocabOverride Vocabulary, sample []RawRecord, log *slog.Logger) *Normalizer {
	if log == nil {
		log = slog.Default()
	}
	return &Normalizer{
		tenantID: tenantID,
		mapping:  ResolveFieldMapping(mappingOverride, sample),
		vocab:    MergeVocabulary(baseVocabulary, vocabOverride),
		log:      log,
	}
}

// Mapping exposes the resolved field mapping for diagnostics.
func (n *Normalizer) Mapping() FieldMapping { return n.mapping }

// NormalizeAll maps every record independently. Safe on an empty batch.
func (n *Normalizer) NormalizeAll(raws []RawRecord) []NormalizedCall {
	out := make([]NormalizedCall, 0, len(raws))
	for _, r := range raws {
		out = append(out, n.Normalize(r))
	}
	return out
}

// Normalize maps one raw record onto the canonical shape.
//
// Per-field failures never abort the record: missing fields read as zero
// values, malformed numerics parse to 0 with a warning, unknown enum values
// clamp to their documented defaults.
func (n *Normalizer) Normalize(raw RawRecord) NormalizedCall {
	get := func(field string) any { return raw[n.mapping[field]] }

	c := NormalizedCall{
		Status:    NormalizeStatus(get(FieldStatus), n.vocab),
		CallType:  NormalizeCallType(get(FieldCallType), n.vocab),
		Sentiment: NormalizeSentiment(get(FieldSentiment), n.vocab),

		CustomerPhone:    strings.TrimSpace(toString(get(FieldCustomerPhone))),
		CountryCode:      strings.ToLower(strings.TrimSpace(toString(get(FieldCountryCode)))),
		StartedAt:        strings.TrimSpace(toString(get(FieldStartedAt))),
		EndedAt:          strings.TrimSpace(toString(get(FieldEndedAt))),
		DisconnectReason: strings.TrimSpace(toString(get(FieldDisconnectReason))),
		AgentID:          strings.TrimSpace(toString(get(FieldAgentID))),
		Channel:          strings.TrimSpace(toString(get(FieldChannel))),
		ProviderCallID:   strings.TrimSpace(toString(get(FieldProviderCallID))),

		Client: n.tenantID,
	}

	c.ID = strings.TrimSpace(toString(get(FieldID)))
	if c.ID == "" {
		// Some tenants only carry the provider call id.
		c.ID = c.ProviderCallID
	}

	c.DurationSeconds = n.parseNumeric(FieldDuration, get(FieldDuration), ParseDurationSeconds)
	c.Cost = n.parseNumeric(FieldCost, get(FieldCost), ParseNumber)
	c.ProviderCost = n.parseNumeric(FieldProviderCost, get(FieldProviderCost), ParseNumber)
	c.LatencyMS = n.parseNumeric(FieldLatency, get(FieldLatency), ParseNumber)

	c.Extra = n.extraFields(raw)
	return c
}

func (n *Normalizer) parseNumeric(field string, raw any, parse func(any) (float64, bool)) float64 {
	v, ok := parse(raw)
	if !ok {
		n.log.Warn("unparseable value, defaulting to 0",
			"tenant", n.tenantID, "field", field, "value", raw)
	}
	return v
}

// extraFields preserves raw columns that no canonical field consumed.
func (n *Normalizer) extraFields(raw RawRecord) map[string]any {
	mapped := make(map[string]struct{}, len(n.mapping))
	for _, src := range n.mapping {
		mapped[src] = struct{}{}
	}
	var extra map[string]any
	for k, v := range raw {
		if _, ok := mapped[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra
}
