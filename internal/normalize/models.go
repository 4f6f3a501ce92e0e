package normalize

// RawRecord is one row as returned by a tenant's backing store.
// Field names vary per tenant; values are whatever the store driver decoded
// (string, float64, nil, ...). RawRecords exist only as normalizer input.
type RawRecord map[string]any

// Canonical field names. Every tenant schema is mapped onto this fixed set.
const (
	FieldID               = "id"
	FieldStatus           = "status"
	FieldCallType         = "call_type"
	FieldSentiment        = "sentiment"
	FieldDuration         = "duration"
	FieldCost             = "cost"
	FieldProviderCost     = "retell_cost"
	FieldCustomerPhone    = "customer_phone"
	FieldCountryCode      = "country_code"
	FieldStartedAt        = "started_at"
	FieldEndedAt          = "ended_at"
	FieldDisconnectReason = "disconnect_reason"
	FieldAgentID          = "agent_id"
	FieldChannel          = "channel"
	FieldLatency          = "latency"
	FieldProviderCallID   = "call_id_retell"
)

type Status string

const (
	StatusSuccessful  Status = "successful"
	StatusFailed      Status = "failed"
	StatusVoicemail   Status = "voicemail"
	StatusTransferred Status = "transferred"
	StatusOngoing     Status = "ongoing"
)

type CallType string

const (
	CallTypeInbound  CallType = "inbound"
	CallTypeOutbound CallType = "outbound"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"

	// SentimentNone marks a call that carried no sentiment signal.
	// Such calls are excluded from sentiment denominators downstream.
	SentimentNone Sentiment = ""
)

// NormalizedCall is the canonical, tenant-independent call record.
//
// Enum invariant: Status and CallType are always members of their fixed
// enumerations. Unknown raw values degrade to StatusFailed / CallTypeInbound,
// never to an arbitrary string. Sentiment is a member or SentimentNone.
//
// Records are built once per fetch cycle and never mutated afterwards.
type NormalizedCall struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	CallType  CallType  `json:"call_type"`
	Sentiment Sentiment `json:"sentiment,omitempty"`

	// DurationSeconds is the parsed call duration. Never negative.
	DurationSeconds float64 `json:"duration"`

	// Cost is the tenant-facing cost field from the store, when present.
	// ProviderCost is the provider-reported cost (retell_cost).
	Cost         float64 `json:"cost"`
	ProviderCost float64 `json:"retell_cost"`

	CustomerPhone string `json:"customer_phone"`
	CountryCode   string `json:"country_code,omitempty"`

	// StartedAt / EndedAt are ISO timestamp strings as stored, or empty.
	StartedAt string `json:"started_at,omitempty"`
	EndedAt   string `json:"ended_at,omitempty"`

	DisconnectReason string `json:"disconnect_reason,omitempty"`
	AgentID          string `json:"agent_id,omitempty"`
	Channel          string `json:"channel,omitempty"`

	// LatencyMS is the end-to-end response latency in milliseconds.
	LatencyMS float64 `json:"latency"`

	ProviderCallID string `json:"call_id_retell,omitempty"`

	// Client records which tenant the record was normalized for.
	Client string `json:"_client"`

	// Extra preserves raw fields that did not map onto a canonical field,
	// kept for traceability and legacy consumers.
	Extra map[string]any `json:"extra,omitempty"`
}
