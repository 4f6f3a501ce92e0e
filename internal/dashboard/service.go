package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"callvista/internal/costs"
	"callvista/internal/metrics"
	"callvista/internal/normalize"
	"callvista/internal/tenants"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

var ErrFetchFailed = errors.New("dashboard: backing store fetch failed")

// Service runs the pipeline: fetch → normalize → aggregate → one Report.
//
// Per-record problems (mapping gaps, parse failures, unknown vocabulary
// values) are recovered inside normalization with documented defaults and
// never abort a cycle. Only the store fetch is fatal: a failed fetch yields
// a well-formed empty report plus the error, never a partial report.
type Service struct {
	repo  Repository
	reg   *tenants.Registry
	cache *Cache // optional; nil disables caching
	log   *slog.Logger
	clock func() time.Time

	// fetchMaxElapsed bounds fetch retries.
	fetchMaxElapsed time.Duration
}

func NewService(repo Repository, reg *tenants.Registry, cache *Cache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:            repo,
		reg:             reg,
		cache:           cache,
		log:             log,
		clock:           time.Now,
		fetchMaxElapsed: 10 * time.Second,
	}
}

// Options tweaks one recompute cycle.
type Options struct {
	// Refresh bypasses the report cache.
	Refresh bool
}

// Recompute performs one full cycle for a tenant and filter set.
//
// On fetch failure the returned report is the empty shape (all rates zero,
// buckets zero-filled) and the error is non-nil so the caller can surface
// a user-visible indicator.
func (s *Service) Recompute(ctx context.Context, tenantID string, f Filters, opts Options) (Report, error) {
	if s.repo == nil {
		return s.emptyReport(tenantID, f), errors.New("dashboard: repository not configured")
	}
	cfg := s.reg.Resolve(tenantID)
	if !s.reg.Known(tenantID) {
		s.log.Warn("unknown tenant, using default configuration", "tenant", tenantID, "default", cfg.ID)
	}

	if s.cache != nil && !opts.Refresh {
		if cached, ok := s.cache.Get(ctx, tenantID, f); ok {
			return cached, nil
		}
	}

	raws, agents, err := s.fetch(ctx, tenantID, f)
	if err != nil {
		s.log.Error("fetch failed, returning empty report", "tenant", tenantID, "err", err)
		return s.emptyReport(tenantID, f), fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	norm := normalize.New(tenantID, cfg.FieldMapping, cfg.Vocabulary, raws, s.log)
	calls := s.applyFilters(norm.NormalizeAll(raws), f)

	agentNames := make(map[string]string, len(agents))
	for _, a := range agents {
		agentNames[a.ID] = a.Name
	}

	report := Report{
		ReportID:    uuid.NewString(),
		TenantID:    tenantID,
		GeneratedAt: s.clock().UTC(),
		Filters:     f,
		Metrics:     metrics.Aggregate(calls, f.RangeMode(), agentNames),
		Costs:       costs.Allocate(calls, cfg.Rates),
		Agents:      agents,
	}

	if s.cache != nil {
		s.cache.Set(ctx, tenantID, f, report)
	}
	return report, nil
}

// fetch calls the store with bounded exponential retry. Context
// cancellation stops retrying immediately.
func (s *Service) fetch(ctx context.Context, tenantID string, f Filters) ([]normalize.RawRecord, []Agent, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = s.fetchMaxElapsed

	var raws []normalize.RawRecord
	var agents []Agent
	op := func() error {
		var err error
		raws, agents, err = s.repo.Fetch(ctx, tenantID, f)
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, nil, err
	}
	return raws, agents, nil
}

// applyFilters drops normalized calls the filter set excludes. Filtering
// happens after normalization so tenant schema quirks cannot silently drop
// records at the store layer.
func (s *Service) applyFilters(calls []normalize.NormalizedCall, f Filters) []normalize.NormalizedCall {
	from, hasWindow := f.WindowStart(s.clock())

	out := make([]normalize.NormalizedCall, 0, len(calls))
	for _, c := range calls {
		if f.Agent != "" && c.AgentID != f.Agent {
			continue
		}
		if f.CallType != "" && !strings.EqualFold(string(c.CallType), f.CallType) {
			continue
		}
		if f.Status != "" && !strings.EqualFold(string(c.Status), f.Status) {
			continue
		}
		if f.Channel != "" && !strings.EqualFold(c.Channel, f.Channel) {
			continue
		}
		if f.Country != "" && !strings.EqualFold(c.CountryCode, f.Country) {
			continue
		}
		if hasWindow {
			t, ok := normalize.ParseTimestamp(c.StartedAt)
			if !ok || t.Before(from) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func (s *Service) emptyReport(tenantID string, f Filters) Report {
	cfg := s.reg.Resolve(tenantID)
	return Report{
		ReportID:    uuid.NewString(),
		TenantID:    tenantID,
		GeneratedAt: s.clock().UTC(),
		Filters:     f,
		Metrics:     metrics.Empty(f.RangeMode()),
		Costs:       costs.Allocate(nil, cfg.Rates),
		Agents:      []Agent{},
	}
}
