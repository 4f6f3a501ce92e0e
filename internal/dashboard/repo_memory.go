package dashboard

import (
	"context"
	"sync"

	"callvista/internal/normalize"
)

// MemoryRepo is a simple in-memory backing store for tests and early
// development. Rows are keyed by tenant id, mirroring store isolation.
type MemoryRepo struct {
	mu sync.Mutex

	Calls  map[string][]normalize.RawRecord
	Agents map[string][]Agent

	// Err, when set, is returned by every Fetch (fetch-failure scenarios).
	Err error
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		Calls:  map[string][]normalize.RawRecord{},
		Agents: map[string][]Agent{},
	}
}

func (r *MemoryRepo) Fetch(ctx context.Context, tenantID string, f Filters) ([]normalize.RawRecord, []Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, nil, r.Err
	}
	return r.Calls[tenantID], r.Agents[tenantID], nil
}
