package registry

import (
	"context"
	"sort"
	"sync"
)

// WalletRegistry is the monitored-wallet set watched by the orchestrator.
// It is injected at construction so multiple orchestrators can run in
// isolation. Entries never expire; growth and shrinkage are explicit.
type WalletRegistry interface {
	Add(ctx context.Context, wallet string) error
	Remove(ctx context.Context, wallet string) error
	Contains(ctx context.Context, wallet string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

// InMemoryRegistry is the process-local registry used when Redis is not
// configured, and by tests.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	wallets map[string]struct{}
}

var _ WalletRegistry = (*InMemoryRegistry)(nil)

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{wallets: make(map[string]struct{})}
}

func (r *InMemoryRegistry) Add(_ context.Context, wallet string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[wallet] = struct{}{}
	return nil
}

func (r *InMemoryRegistry) Remove(_ context.Context, wallet string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wallets, wallet)
	return nil
}

func (r *InMemoryRegistry) Contains(_ context.Context, wallet string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.wallets[wallet]
	return ok, nil
}

func (r *InMemoryRegistry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wallets := make([]string, 0, len(r.wallets))
	for wallet := range r.wallets {
		wallets = append(wallets, wallet)
	}
	sort.Strings(wallets)
	return wallets, nil
}
