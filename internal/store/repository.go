package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"callvista/internal/dashboard"
	"callvista/internal/normalize"
	"callvista/internal/tenants"

	"github.com/jackc/pgx/v5"
)

// fetchLimit bounds one fetch cycle. The pipeline operates on a bounded,
// already-fetched batch; it is not a streaming system.
const fetchLimit = 10000

// Repository fetches raw call rows from each tenant's Postgres store.
// Rows surface as open maps because tenant schemas are heterogeneous;
// normalization owns all shape decisions.
type Repository struct {
	pools *Pools
	reg   *tenants.Registry
	log   *slog.Logger
}

func NewRepository(pools *Pools, reg *tenants.Registry, log *slog.Logger) *Repository {
	if log == nil {
		log = slog.Default()
	}
	return &Repository{pools: pools, reg: reg, log: log}
}

var _ dashboard.Repository = (*Repository)(nil)

func (r *Repository) Fetch(ctx context.Context, tenantID string, f dashboard.Filters) ([]normalize.RawRecord, []dashboard.Agent, error) {
	cfg := r.reg.Resolve(tenantID)
	pool, err := r.pools.Get(ctx, cfg.ID, cfg.Store.DSN)
	if err != nil {
		return nil, nil, err
	}

	raws, err := r.fetchCalls(ctx, pool, cfg, f)
	if err != nil {
		return nil, nil, fmt.Errorf("store: fetch calls for tenant %s: %w", tenantID, err)
	}

	agents, err := r.fetchAgents(ctx, pool, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("store: fetch agents for tenant %s: %w", tenantID, err)
	}
	return raws, agents, nil
}

// fetchCalls pulls raw rows. The time window is pushed down only when the
// tenant's static mapping names a started_at column; all other filters are
// applied post-normalization so schema quirks cannot drop records here.
func (r *Repository) fetchCalls(ctx context.Context, pool queryer, cfg tenants.Config, f dashboard.Filters) ([]normalize.RawRecord, error) {
	table := pgx.Identifier{cfg.Store.CallsTable}.Sanitize()

	q := fmt.Sprintf("SELECT * FROM %s", table)
	var args []any
	if col, ok := cfg.FieldMapping[normalize.FieldStartedAt]; ok && col != "" {
		if from, bounded := f.WindowStart(time.Now()); bounded {
			q += fmt.Sprintf(" WHERE %s >= $1", pgx.Identifier{col}.Sanitize())
			args = append(args, from)
		}
	}
	q += fmt.Sprintf(" LIMIT %d", fetchLimit)

	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}

	out := make([]normalize.RawRecord, len(maps))
	for i, m := range maps {
		out[i] = normalize.RawRecord(m)
	}
	return out, nil
}

func (r *Repository) fetchAgents(ctx context.Context, pool queryer, cfg tenants.Config) ([]dashboard.Agent, error) {
	table := pgx.Identifier{cfg.Store.AgentsTable}.Sanitize()

	rows, err := pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, fetchLimit))
	if err != nil {
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}

	out := make([]dashboard.Agent, 0, len(maps))
	for _, m := range maps {
		a := dashboard.Agent{
			ID:    stringField(m, "id", "agent_id"),
			Name:  stringField(m, "name", "full_name", "display_name"),
			Email: stringField(m, "email"),
		}
		if a.ID == "" {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
