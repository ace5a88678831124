// Package tables caches the table a terminal is serving and resolves which
// table an order goes to.
package tables

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/storage"
)

// Table is the cached active table.
type Table struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Source tells where a resolved table id came from.
type Source string

const (
	SourceParam    Source = "param"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Cache stores the active table per terminal.
type Cache struct {
	backend storage.Store
	keys    storage.Keys
}

func NewCache(backend storage.Store, keys storage.Keys) *Cache {
	return &Cache{backend: backend, keys: keys}
}

// Get returns the cached table, or nil when none is set.
func (c *Cache) Get(ctx context.Context, terminalID string) (*Table, error) {
	var table Table
	err := storage.GetJSON(ctx, c.backend, c.keys.ActiveTable(terminalID), &table)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read active table")
	}
	if strings.TrimSpace(table.ID) == "" {
		return nil, nil
	}
	return &table, nil
}

// Set caches table as the terminal's active table.
func (c *Cache) Set(ctx context.Context, terminalID string, table Table) (*Table, error) {
	table.ID = strings.TrimSpace(table.ID)
	table.Name = strings.TrimSpace(table.Name)
	if table.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table id is required")
	}
	if err := storage.SetJSON(ctx, c.backend, c.keys.ActiveTable(terminalID), table); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store active table")
	}
	return &table, nil
}

func (c *Cache) Clear(ctx context.Context, terminalID string) error {
	if err := c.backend.Delete(ctx, c.keys.ActiveTable(terminalID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear active table")
	}
	return nil
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	TableID string
	Name    string
	Source  Source
}

// Resolver picks the table for an order: explicit parameter, then the cached
// active table, then the configured fallback.
type Resolver struct {
	cache    *Cache
	fallback string
	logg     *logger.Logger
}

func NewResolver(cache *Cache, fallback string, logg *logger.Logger) *Resolver {
	return &Resolver{cache: cache, fallback: strings.TrimSpace(fallback), logg: logg}
}

// Resolve never fails; unreadable cache entries fall through to the fallback.
func (r *Resolver) Resolve(ctx context.Context, terminalID, explicit string) Resolution {
	if id := strings.TrimSpace(explicit); id != "" {
		return Resolution{TableID: id, Source: SourceParam}
	}

	cached, err := r.cache.Get(ctx, terminalID)
	if err != nil {
		r.logg.Warn(ctx, "active table cache unreadable, using fallback: "+err.Error())
	}
	if cached != nil {
		return Resolution{TableID: cached.ID, Name: cached.Name, Source: SourceCache}
	}
	return Resolution{TableID: r.fallback, Source: SourceFallback}
}
