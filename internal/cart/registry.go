package cart

import (
	"context"
	"sync"

	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/storage"
)

// Registry hands out one Store per terminal, hydrating it on first use.
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*Store
	backend storage.Store
	keys    storage.Keys
	logg    *logger.Logger
}

func NewRegistry(backend storage.Store, keys storage.Keys, logg *logger.Logger) *Registry {
	return &Registry{
		stores:  make(map[string]*Store),
		backend: backend,
		keys:    keys,
		logg:    logg,
	}
}

// For returns the terminal's cart store. The snapshot is read outside the
// registry lock.
func (r *Registry) For(ctx context.Context, terminalID string) *Store {
	r.mu.Lock()
	s, ok := r.stores[terminalID]
	if !ok {
		s = newStore(r.backend, r.keys.Cart(terminalID), r.logg)
		r.stores[terminalID] = s
	}
	r.mu.Unlock()

	s.mu.Lock()
	s.hydrate(r.logg.WithTerminalID(ctx, terminalID))
	s.mu.Unlock()
	return s
}
