package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pools is the per-tenant connection pool registry: read-mostly, one pool
// inserted per tenant key, never replaced. Constructed once at startup
// wiring and safe for concurrent lookup.
type Pools struct {
	mu    sync.RWMutex
	pools map[string]*pgxpool.Pool
}

func NewPools() *Pools {
	return &Pools{pools: map[string]*pgxpool.Pool{}}
}

// Get returns the tenant's pool, opening it on first use. Concurrent first
// calls for the same tenant are serialized; exactly one pool survives.
func (p *Pools) Get(ctx context.Context, tenantID, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store: tenant %s has no store dsn", tenantID)
	}

	p.mu.RLock()
	pool, ok := p.pools[tenantID]
	p.mu.RUnlock()
	if ok {
		return pool, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok := p.pools[tenantID]; ok {
		return pool, nil
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: parse dsn for tenant %s: %w", tenantID, err)
	}
	pool, err = pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: open pool for tenant %s: %w", tenantID, err)
	}
	p.pools[tenantID] = pool
	return pool, nil
}

// Close releases every pool. Call once at shutdown.
func (p *Pools) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pool := range p.pools {
		pool.Close()
	}
	p.pools = map[string]*pgxpool.Pool{}
}
