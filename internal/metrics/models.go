package metrics

import "callvista/internal/disconnect"

// RangeMode selects the bucketing strategy for time series.
type RangeMode string

const (
	RangeToday RangeMode = "today" // hourly buckets 00:00–23:00
	RangeWeek  RangeMode = "week"  // weekday buckets Mon–Sun
	RangeMonth RangeMode = "month" // day-of-month buckets, empty days omitted
	RangeAll   RangeMode = "all"   // weekday buckets, like week
)

// Report is the dashboard-level metrics bundle. It is rebuilt wholesale on
// every recompute and never partially mutated.
type Report struct {
	TotalCalls int `json:"total_calls"`

	// Rates are integer percentages; 0 when there are no calls.
	PickupRate    int `json:"pickup_rate"`
	SuccessRate   int `json:"success_rate"`
	TransferRate  int `json:"transfer_rate"`
	VoicemailRate int `json:"voicemail_rate"`

	Failed FailedMetrics `json:"failed"`

	CallVolume      []BucketPoint `json:"call_volume"`
	CallDuration    []BucketPoint `json:"call_duration"`
	Latency         []BucketPoint `json:"latency"`
	InboundOutbound []InOutPoint  `json:"inbound_outbound"`

	Sentiment      SentimentDistribution `json:"sentiment"`
	SentimentTrend []SentimentPoint      `json:"sentiment_trend"`

	SuccessByHour SuccessByHour `json:"success_by_hour"`

	AgentPerformance AgentPerformance `json:"agent_performance"`

	Disconnection DisconnectionReport `json:"disconnection"`
}

type FailedMetrics struct {
	TotalFailed int `json:"total_failed"`
}

// BucketPoint is one time bucket of a single-valued series.
type BucketPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// InOutPoint is one time bucket of the inbound/outbound split.
type InOutPoint struct {
	Label    string `json:"label"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// SentimentDistribution holds integer percentages over sentiment-bearing
// calls only; calls without sentiment are excluded from the denominator.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
	Total    int `json:"total"`
}

// SentimentPoint is one weekday bucket of the sentiment trend. Days with no
// sentiment-bearing calls report all-zero.
type SentimentPoint struct {
	Label    string `json:"label"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

// HourSuccess is the success rate of one non-empty hour of day.
type HourSuccess struct {
	Hour        string `json:"hour"`
	Total       int    `json:"total"`
	Successful  int    `json:"successful"`
	SuccessRate int    `json:"success_rate"`
}

// SuccessByHour is always hour-of-day granularity regardless of RangeMode.
// Hours with zero calls are filtered out of Hours.
type SuccessByHour struct {
	Hours       []HourSuccess `json:"hours"`
	BestHour    string        `json:"best_hour"`
	WorstHour   string        `json:"worst_hour"`
	OverallRate int           `json:"overall_rate"`
}

// Agent performance metric row names, in pivot order.
const (
	MetricSuccessRate  = "success_rate"
	MetricTransferRate = "transfer_rate"
	MetricAvgDuration  = "avg_duration_min"
	MetricSatisfaction = "satisfaction"
	MetricCallsPerHour = "calls_per_hour"
)

// AgentPerformance is pivoted for chart consumption: one row per metric,
// one value column per agent.
type AgentPerformance struct {
	Agents []string         `json:"agents"`
	Rows   []AgentMetricRow `json:"rows"`
}

type AgentMetricRow struct {
	Metric string    `json:"metric"`
	Values []float64 `json:"values"`
}

// ReasonCount is one disconnect reason with its share of reason-bearing calls.
type ReasonCount struct {
	Reason     string              `json:"reason"`
	Count      int                 `json:"count"`
	Percentage float64             `json:"percentage"`
	Category   disconnect.Category `json:"category"`
}

type CategoryCount struct {
	Category   disconnect.Category `json:"category"`
	Count      int                 `json:"count"`
	Percentage float64             `json:"percentage"`
}

// DisconnectionReport covers only calls that carry a disconnect reason.
type DisconnectionReport struct {
	TotalWithReason int             `json:"total_with_reason"`
	Reasons         []ReasonCount   `json:"reasons"`
	ByCategory      []CategoryCount `json:"by_category"`
}
