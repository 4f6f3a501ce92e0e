package tenants

import (
	"callvista/internal/costs"
	"callvista/internal/normalize"
)

// DefaultTenantID is the built-in fallback tenant. Unknown tenant ids
// resolve to its configuration.
const DefaultTenantID = "latamtel"

// BuiltIn returns the baked-in tenant set. A deployment can extend or
// replace entries via the tenants YAML file; the built-ins keep the service
// runnable with no file at all.
func BuiltIn() []Config {
	return []Config{
		{
			ID:   "latamtel",
			Name: "LatamTel",
			FieldMapping: normalize.FieldMapping{
				normalize.FieldID:               "id",
				normalize.FieldStatus:           "status",
				normalize.FieldCallType:         "call_type",
				normalize.FieldSentiment:        "sentiment",
				normalize.FieldDuration:         "duration",
				normalize.FieldCost:             "cost",
				normalize.FieldProviderCost:     "retell_cost",
				normalize.FieldCustomerPhone:    "customer_phone",
				normalize.FieldCountryCode:      "country_code",
				normalize.FieldStartedAt:        "started_at",
				normalize.FieldEndedAt:          "ended_at",
				normalize.FieldDisconnectReason: "disconnect_reason",
				normalize.FieldAgentID:          "agent_id",
				normalize.FieldChannel:          "channel",
				normalize.FieldLatency:          "latency",
				normalize.FieldProviderCallID:   "call_id_retell",
			},
			Rates: costs.TenantRates{
				Countries: map[string]costs.CountryCost{
					"cl": {Code: "cl", Name: "Chile", CostPerMinute: 0.04, Currency: "USD", Flag: "🇨🇱"},
					"ar": {Code: "ar", Name: "Argentina", CostPerMinute: 0.06, Currency: "USD", Flag: "🇦🇷"},
					"pe": {Code: "pe", Name: "Peru", CostPerMinute: 0.055, Currency: "USD", Flag: "🇵🇪"},
					"mx": {Code: "mx", Name: "Mexico", CostPerMinute: 0.045, Currency: "USD", Flag: "🇲🇽"},
					costs.WildcardCountry: {Code: costs.WildcardCountry, Name: "Other", CostPerMinute: 0.05, Currency: "USD"},
				},
			},
		},
		{
			ID:   "nimbusdesk",
			Name: "NimbusDesk",
			FieldMapping: normalize.FieldMapping{
				normalize.FieldStatus:   "call_result",
				normalize.FieldCallType: "direction",
				normalize.FieldDuration: "call_duration",
				normalize.FieldAgentID:  "assistant_id",
			},
			Vocabulary: normalize.Vocabulary{
				normalize.VocabStatus: {
					"resolved":  string(normalize.StatusSuccessful),
					"abandoned": string(normalize.StatusFailed),
				},
			},
			Rates: costs.TenantRates{
				Countries: map[string]costs.CountryCost{
					"us": {Code: "us", Name: "United States", CostPerMinute: 0.02, Currency: "USD", Flag: "🇺🇸"},
					"ca": {Code: "ca", Name: "Canada", CostPerMinute: 0.025, Currency: "USD", Flag: "🇨🇦"},
					costs.WildcardCountry: {Code: costs.WildcardCountry, Name: "Other", CostPerMinute: 0.05, Currency: "USD"},
				},
			},
		},
		{
			// Internal pilot workspace: calls are not billed. All rates are
			// configured at zero AND ZeroCost short-circuits the aggregate
			// total, so either code path reports 0.
			ID:   "pilotdesk",
			Name: "PilotDesk",
			Rates: costs.TenantRates{
				ZeroCost: true,
				Countries: map[string]costs.CountryCost{
					"cl": {Code: "cl", Name: "Chile", CostPerMinute: 0, Currency: "USD", Flag: "🇨🇱"},
					costs.WildcardCountry: {Code: costs.WildcardCountry, Name: "Other", CostPerMinute: 0, Currency: "USD"},
				},
			},
		},
	}
}
