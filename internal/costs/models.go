package costs

// WildcardCountry is the per-tenant fallback entry used when a call's
// country has no explicit rate.
const WildcardCountry = "*"

// DefaultCostPerMinute applies when a tenant table has neither the call's
// country nor a wildcard entry.
const DefaultCostPerMinute = 0.05

// CountryCost is one per-tenant, per-country rate entry. Static
// configuration, read-only at runtime.
type CountryCost struct {
	Code          string  `json:"code" yaml:"code"`
	Name          string  `json:"name" yaml:"name"`
	CostPerMinute float64 `json:"cost_per_minute" yaml:"cost_per_minute"`
	Currency      string  `json:"currency" yaml:"currency"`
	Flag          string  `json:"flag" yaml:"flag"`
}

// TenantRates is the cost configuration the engine needs for one tenant.
//
// ZeroCost marks the designated zero-cost tenant: its aggregate total is
// forced to 0 regardless of per-call components. The override is an explicit
// tenant-keyed flag, never inferred from table contents.
type TenantRates struct {
	Countries map[string]CountryCost `yaml:"countries"`
	ZeroCost  bool                   `yaml:"zero_cost"`
}

// Report is the cost section of the dashboard, aggregated over one call set.
// All monetary values are rounded only at final assembly.
type Report struct {
	TotalCost float64 `json:"total_cost"`

	// Split between provider-reported cost and minute-derived call cost.
	ProviderCost float64 `json:"provider_cost"`
	MinuteCost   float64 `json:"call_cost"`
	ProviderPct  float64 `json:"provider_pct"`
	MinutePct    float64 `json:"call_pct"`

	ByCountry  []CountryBreakdown  `json:"by_country"`
	ByCallType []CallTypeBreakdown `json:"by_call_type"`
	ByAgent    []AgentBreakdown    `json:"by_agent"`
	ByDay      []DayBreakdown      `json:"by_day"`
}

type CountryBreakdown struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Flag     string  `json:"flag,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Cost     float64 `json:"cost"`
	Calls    int     `json:"calls"`
	AvgCost  float64 `json:"avg_cost"`
	Pct      float64 `json:"pct"`
}

type CallTypeBreakdown struct {
	CallType string  `json:"call_type"`
	Cost     float64 `json:"cost"`
	Calls    int     `json:"calls"`
}

type AgentBreakdown struct {
	AgentID string  `json:"agent_id"`
	Cost    float64 `json:"cost"`
	Calls   int     `json:"calls"`
	AvgCost float64 `json:"avg_cost"`
}

type DayBreakdown struct {
	Day     string  `json:"day"`
	Cost    float64 `json:"cost"`
	Minutes float64 `json:"minutes"`
}
