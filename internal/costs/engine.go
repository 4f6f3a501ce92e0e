package costs

import (
	"math"
	"sort"
	"strings"
	"time"

	"callvista/internal/normalize"
)

// moneyDecimals is applied once, at final report assembly. Intermediate
// accumulation stays unrounded to avoid compounding error.
const moneyDecimals = 4

// Allocate computes the cost report for one tenant's call set.
//
// Per call: minute cost = duration-in-minutes × the tenant's per-country
// rate (wildcard entry when the country is unmapped, DefaultCostPerMinute
// when even the wildcard is absent); total = provider-reported cost +
// minute cost. Every ratio guards its denominator: zero totals yield zero
// percentages, never NaN.
func Allocate(calls []normalize.NormalizedCall, rates TenantRates) Report {
	type countryAcc struct {
		cost  float64
		calls int
	}
	type agentAcc struct {
		cost  float64
		calls int
	}
	type dayAcc struct {
		cost    float64
		minutes float64
	}

	byCountry := map[string]*countryAcc{}
	byAgent := map[string]*agentAcc{}
	byDay := map[string]*dayAcc{}
	byType := map[normalize.CallType]*agentAcc{}

	var providerTotal, minuteTotal float64

	for _, c := range calls {
		minutes := c.DurationSeconds / 60
		minuteCost := minutes * ratePerMinute(rates, c.CountryCode)
		total := c.ProviderCost + minuteCost

		providerTotal += c.ProviderCost
		minuteTotal += minuteCost

		code := c.CountryCode
		if code == "" {
			code = WildcardCountry
		}
		ca := byCountry[code]
		if ca == nil {
			ca = &countryAcc{}
			byCountry[code] = ca
		}
		ca.cost += total
		ca.calls++

		ta := byType[c.CallType]
		if ta == nil {
			ta = &agentAcc{}
			byType[c.CallType] = ta
		}
		ta.cost += total
		ta.calls++

		if c.AgentID != "" {
			aa := byAgent[c.AgentID]
			if aa == nil {
				aa = &agentAcc{}
				byAgent[c.AgentID] = aa
			}
			aa.cost += total
			aa.calls++
		}

		if t, ok := normalize.ParseTimestamp(c.StartedAt); ok {
			day := t.Weekday().String()
			da := byDay[day]
			if da == nil {
				da = &dayAcc{}
				byDay[day] = da
			}
			da.cost += total
			da.minutes += minutes
		}
	}

	grand := providerTotal + minuteTotal

	out := Report{
		TotalCost:    round(grand, moneyDecimals),
		ProviderCost: round(providerTotal, moneyDecimals),
		MinuteCost:   round(minuteTotal, moneyDecimals),
		ProviderPct:  round(safePct(providerTotal, grand), 2),
		MinutePct:    round(safePct(minuteTotal, grand), 2),
	}

	for code, acc := range byCountry {
		entry := countryEntry(rates, code)
		out.ByCountry = append(out.ByCountry, CountryBreakdown{
			Code:     code,
			Name:     entry.Name,
			Flag:     entry.Flag,
			Currency: entry.Currency,
			Cost:     round(acc.cost, moneyDecimals),
			Calls:    acc.calls,
			AvgCost:  round(safeDiv(acc.cost, float64(acc.calls)), moneyDecimals),
			Pct:      round(safePct(acc.cost, grand), 2),
		})
	}
	sort.Slice(out.ByCountry, func(i, j int) bool {
		if out.ByCountry[i].Cost != out.ByCountry[j].Cost {
			return out.ByCountry[i].Cost > out.ByCountry[j].Cost
		}
		return out.ByCountry[i].Code < out.ByCountry[j].Code
	})

	for _, ct := range []normalize.CallType{normalize.CallTypeInbound, normalize.CallTypeOutbound} {
		acc := byType[ct]
		if acc == nil {
			acc = &agentAcc{}
		}
		out.ByCallType = append(out.ByCallType, CallTypeBreakdown{
			CallType: string(ct),
			Cost:     round(acc.cost, moneyDecimals),
			Calls:    acc.calls,
		})
	}

	for id, acc := range byAgent {
		out.ByAgent = append(out.ByAgent, AgentBreakdown{
			AgentID: id,
			Cost:    round(acc.cost, moneyDecimals),
			Calls:   acc.calls,
			AvgCost: round(safeDiv(acc.cost, float64(acc.calls)), moneyDecimals),
		})
	}
	sort.Slice(out.ByAgent, func(i, j int) bool {
		if out.ByAgent[i].Cost != out.ByAgent[j].Cost {
			return out.ByAgent[i].Cost > out.ByAgent[j].Cost
		}
		return out.ByAgent[i].AgentID < out.ByAgent[j].AgentID
	})

	for _, day := range weekdayOrder {
		acc := byDay[day]
		if acc == nil {
			continue
		}
		out.ByDay = append(out.ByDay, DayBreakdown{
			Day:     day,
			Cost:    round(acc.cost, moneyDecimals),
			Minutes: round(acc.minutes, 2),
		})
	}

	if rates.ZeroCost {
		// Tenant-keyed override: the zero-cost tenant's grand total is
		// forced to 0 even if a component cost slipped through.
		out.TotalCost = 0
	}
	return out
}

var weekdayOrder = []string{
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
	time.Sunday.String(),
}

// ratePerMinute resolves the per-minute rate for a country code, falling
// back to the wildcard entry and then to DefaultCostPerMinute.
func ratePerMinute(rates TenantRates, country string) float64 {
	if e, ok := rates.Countries[strings.ToLower(country)]; ok {
		return e.CostPerMinute
	}
	if e, ok := rates.Countries[WildcardCountry]; ok {
		return e.CostPerMinute
	}
	return DefaultCostPerMinute
}

func countryEntry(rates TenantRates, code string) CountryCost {
	if e, ok := rates.Countries[code]; ok {
		return e
	}
	if e, ok := rates.Countries[WildcardCountry]; ok {
		return e
	}
	return CountryCost{Code: code}
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func safePct(part, total float64) float64 {
	return safeDiv(part, total) * 100
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
