package dashboard

import (
	"context"
	"time"

	"callvista/internal/costs"
	"callvista/internal/metrics"
	"callvista/internal/normalize"
)

// Filters is the dashboard filter set. Empty fields mean "no filter".
type Filters struct {
	Agent     string `json:"agent,omitempty" form:"agent"`
	TimeRange string `json:"time_range,omitempty" form:"time_range"`
	CallType  string `json:"call_type,omitempty" form:"call_type"`
	Status    string `json:"status,omitempty" form:"status"`
	Channel   string `json:"channel,omitempty" form:"channel"`
	Country   string `json:"country,omitempty" form:"country"`
}

// RangeMode maps the filter's time range onto a bucketing mode,
// defaulting to week.
func (f Filters) RangeMode() metrics.RangeMode {
	switch f.TimeRange {
	case string(metrics.RangeToday):
		return metrics.RangeToday
	case string(metrics.RangeMonth):
		return metrics.RangeMonth
	case string(metrics.RangeAll):
		return metrics.RangeAll
	default:
		return metrics.RangeWeek
	}
}

// WindowStart computes the inclusive lower time bound the filter implies,
// relative to now. The "all" range has no bound.
func (f Filters) WindowStart(now time.Time) (time.Time, bool) {
	now = now.UTC()
	switch f.RangeMode() {
	case metrics.RangeToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	case metrics.RangeWeek:
		return now.AddDate(0, 0, -7), true
	case metrics.RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}

// Agent is one agent row from the backing store.
type Agent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Repository abstracts the per-tenant backing store.
//
// Fetch returns the raw call rows plus the tenant's agent roster. Failures
// (including timeouts) surface as errors, never as sentinel values; the
// caller short-circuits the cycle to an empty report.
type Repository interface {
	Fetch(ctx context.Context, tenantID string, f Filters) ([]normalize.RawRecord, []Agent, error)
}

// Report is the assembled dashboard output for one recompute cycle.
// Consumed read-only by presentation code; rebuilt wholesale per cycle.
type Report struct {
	ReportID    string    `json:"report_id"`
	TenantID    string    `json:"tenant_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Filters     Filters   `json:"filters"`

	Metrics metrics.Report `json:"metrics"`
	Costs   costs.Report   `json:"costs"`
	Agents  []Agent        `json:"agents"`
}
