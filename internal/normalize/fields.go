package normalize

// FieldMapping maps canonical field names to a tenant's actual column names.
// Built once per tenant per batch; immutable afterwards. Every canonical
// field resolves to exactly one source name, possibly a guessed default that
// is absent from the tenant's rows (absence surfaces as zero values later).
type FieldMapping map[string]string

// canonicalFields fixes the resolution order so mappings are deterministic.
var canonicalFields = []string{
	FieldID,
	FieldStatus,
	FieldCallType,
	FieldSentiment,
	FieldDuration,
	FieldCost,
	FieldProviderCost,
	FieldCustomerPhone,
	FieldCountryCode,
	FieldStartedAt,
	FieldEndedAt,
	FieldDisconnectReason,
	FieldAgentID,
	FieldChannel,
	FieldLatency,
	FieldProviderCallID,
}

// fieldCandidates lists, per canonical field, the raw column names seen
// across tenant schemas, in preference order. The first candidate doubles
// as the guessed default when autodetection finds nothing.
var fieldCandidates = map[string][]string{
	FieldID:               {"id", "call_id", "uuid", "record_id"},
	FieldStatus:           {"status", "call_status", "result", "call_result", "state"},
	FieldCallType:         {"call_type", "type", "direction", "call_direction"},
	FieldSentiment:        {"sentiment", "user_sentiment", "mood", "satisfaction"},
	FieldDuration:         {"duration", "call_duration", "duration_seconds", "length"},
	FieldCost:             {"cost", "call_cost", "price", "amount"},
	FieldProviderCost:     {"retell_cost", "provider_cost", "platform_cost"},
	FieldCustomerPhone:    {"customer_phone", "phone", "phone_number", "to_number", "caller"},
	FieldCountryCode:      {"country_code", "country", "region_code"},
	FieldStartedAt:        {"started_at", "start_time", "created_at", "timestamp", "call_started"},
	FieldEndedAt:          {"ended_at", "end_time", "finished_at", "call_ended"},
	FieldDisconnectReason: {"disconnect_reason", "disconnection_reason", "end_reason", "hangup_cause"},
	FieldAgentID:          {"agent_id", "agent", "assistant_id", "operator_id"},
	FieldChannel:          {"channel", "source", "medium"},
	FieldLatency:          {"latency", "response_latency", "latency_ms", "avg_latency"},
	FieldProviderCallID:   {"call_id_retell", "retell_call_id", "provider_call_id", "external_id"},
}

// ResolveFieldMapping builds the canonical→source mapping for one batch.
//
// Resolution order:
//  1. a static per-tenant override wins unchanged (override is the full or
//     partial mapping from the tenants registry; missing fields still go
//     through candidate resolution),
//  2. with sample records, the first candidate present as a key in the
//     first sample wins,
//  3. otherwise the first candidate is used as a guess.
//
// Missing fields never fail resolution; a guessed name simply reads as
// absent from the raw rows.
func ResolveFieldMapping(override FieldMapping, sample []RawRecord) FieldMapping {
	out := make(FieldMapping, len(canonicalFields))

	var probe RawRecord
	if len(sample) > 0 {
		probe = sample[0]
	}

	for _, field := range canonicalFields {
		if src, ok := override[field]; ok && src != "" {
			out[field] = src
			continue
		}
		candidates := fieldCandidates[field]
		out[field] = candidates[0]
		if probe == nil {
			continue
		}
		for _, cand := range candidates {
			if _, present := probe[cand]; present {
				out[field] = cand
				break
			}
		}
	}
	return out
}
