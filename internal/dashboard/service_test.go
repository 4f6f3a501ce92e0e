package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"callvista/internal/normalize"
	"callvista/internal/tenants"
)

// fixedNow keeps window arithmetic deterministic: a Wednesday noon.
var fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func testRegistry(t *testing.T) *tenants.Registry {
	t.Helper()
	reg, err := tenants.NewRegistry(tenants.DefaultTenantID, tenants.BuiltIn())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func testService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc := NewService(repo, testRegistry(t), nil, nil)
	svc.clock = func() time.Time { return fixedNow }
	svc.fetchMaxElapsed = 10 * time.Millisecond
	return svc
}

func TestRecompute_FullCycle(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Calls["latamtel"] = []normalize.RawRecord{
		{
			"id": "c-1", "status": "Ended", "call_type": "outbound",
			"duration": "2m 30s", "retell_cost": 0.10, "country_code": "cl",
			"started_at": "2024-05-13T10:00:00Z", "agent_id": "a1",
		},
	}
	repo.Agents["latamtel"] = []Agent{{ID: "a1", Name: "Ana"}}

	report, err := testService(t, repo).Recompute(context.Background(), "latamtel", Filters{}, Options{})
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if report.ReportID == "" || report.TenantID != "latamtel" {
		t.Fatalf("report identity: %+v", report)
	}
	if !report.GeneratedAt.Equal(fixedNow) {
		t.Fatalf("generated_at: %v", report.GeneratedAt)
	}
	if report.Metrics.TotalCalls != 1 || report.Metrics.SuccessRate != 100 {
		t.Fatalf("metrics: %+v", report.Metrics)
	}
	// 2.5 min at the Chilean 0.04 rate plus the 0.10 provider cost.
	if report.Costs.TotalCost != 0.20 {
		t.Fatalf("total cost: %v", report.Costs.TotalCost)
	}
	if len(report.Metrics.AgentPerformance.Agents) != 1 || report.Metrics.AgentPerformance.Agents[0] != "Ana" {
		t.Fatalf("agent labels: %v", report.Metrics.AgentPerformance.Agents)
	}
}

func TestRecompute_FetchFailureYieldsEmptyReport(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Err = errors.New("connection refused")

	report, err := testService(t, repo).Recompute(context.Background(), "latamtel", Filters{}, Options{})
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if report.Metrics.TotalCalls != 0 {
		t.Fatalf("expected empty metrics, got %+v", report.Metrics)
	}
	if len(report.Metrics.CallVolume) != 7 {
		t.Fatalf("expected zero-filled week buckets, got %d", len(report.Metrics.CallVolume))
	}
	if report.Costs.TotalCost != 0 {
		t.Fatalf("expected zero costs, got %v", report.Costs.TotalCost)
	}
	if report.Agents == nil {
		t.Fatalf("expected non-nil agent list")
	}
}

func TestRecompute_UnknownTenantUsesDefaultConfiguration(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Calls["ghost"] = []normalize.RawRecord{
		{"id": "c-1", "status": "ended", "duration": 60, "country_code": "cl", "started_at": "2024-05-13T10:00:00Z"},
	}

	report, err := testService(t, repo).Recompute(context.Background(), "ghost", Filters{}, Options{})
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if report.TenantID != "ghost" {
		t.Fatalf("tenant id should be preserved, got %q", report.TenantID)
	}
	// Default tenant rates apply: 1 min at 0.04.
	if report.Costs.TotalCost != 0.04 {
		t.Fatalf("expected default-rate cost, got %v", report.Costs.TotalCost)
	}
}

func TestApplyFilters(t *testing.T) {
	svc := testService(t, NewMemoryRepo())
	calls := []normalize.NormalizedCall{
		{ID: "keep", AgentID: "a1", Status: normalize.StatusSuccessful, CallType: normalize.CallTypeInbound, CountryCode: "cl", StartedAt: "2024-05-13T10:00:00Z"},
		{ID: "wrong-agent", AgentID: "a2", Status: normalize.StatusSuccessful, CallType: normalize.CallTypeInbound, CountryCode: "cl", StartedAt: "2024-05-13T10:00:00Z"},
		{ID: "wrong-status", AgentID: "a1", Status: normalize.StatusFailed, CallType: normalize.CallTypeInbound, CountryCode: "cl", StartedAt: "2024-05-13T10:00:00Z"},
		{ID: "too-old", AgentID: "a1", Status: normalize.StatusSuccessful, CallType: normalize.CallTypeInbound, CountryCode: "cl", StartedAt: "2024-04-01T10:00:00Z"},
	}

	out := svc.applyFilters(calls, Filters{Agent: "a1", Status: "Successful", Country: "CL"})
	if len(out) != 1 || out[0].ID != "keep" {
		t.Fatalf("unexpected filter result: %+v", out)
	}
}

func TestApplyFilters_AllRangeHasNoWindow(t *testing.T) {
	svc := testService(t, NewMemoryRepo())
	calls := []normalize.NormalizedCall{
		{ID: "ancient", Status: normalize.StatusSuccessful, StartedAt: "2020-01-01T00:00:00Z"},
	}
	out := svc.applyFilters(calls, Filters{TimeRange: "all"})
	if len(out) != 1 {
		t.Fatalf("all range should keep ancient calls, got %+v", out)
	}
}

func TestFilters_WindowStart(t *testing.T) {
	if from, ok := (Filters{TimeRange: "today"}).WindowStart(fixedNow); !ok || from != time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("today window: %v %v", from, ok)
	}
	if from, ok := (Filters{}).WindowStart(fixedNow); !ok || from != fixedNow.AddDate(0, 0, -7) {
		t.Fatalf("week window: %v %v", from, ok)
	}
	if from, ok := (Filters{TimeRange: "month"}).WindowStart(fixedNow); !ok || from != time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("month window: %v %v", from, ok)
	}
	if _, ok := (Filters{TimeRange: "all"}).WindowStart(fixedNow); ok {
		t.Fatalf("all range should have no window")
	}
}
