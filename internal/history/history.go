// Package history keeps a short, newest-first list of orders placed at each
// terminal so the screen can show them without asking the backend.
package history

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultLimit = 10

// Record is the abbreviated local copy of a placed order.
type Record struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	PlacedAt  time.Time       `json:"placed_at"`
	TableID   string          `json:"table_id,omitempty"`
	TableName string          `json:"table_name,omitempty"`
	Channel   string          `json:"channel"`
	Items     []ItemSummary   `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

type ItemSummary struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Service appends to and lists the bounded history.
type Service interface {
	Record(ctx context.Context, terminalID string, rec Record) error
	List(ctx context.Context, terminalID string) ([]Record, error)
}

type service struct {
	backend storage.Store
	keys    storage.Keys
	limit   int
	logg    *logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService builds the history service. A limit below one uses DefaultLimit.
func NewService(backend storage.Store, keys storage.Keys, limit int, logg *logger.Logger) (Service, error) {
	if backend == nil {
		return nil, errors.New("storage backend required")
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return &service{
		backend: backend,
		keys:    keys,
		limit:   limit,
		logg:    logg,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// Record prepends rec and evicts the oldest entries beyond the limit.
func (s *service) Record(ctx context.Context, terminalID string, rec Record) error {
	lock := s.lockFor(terminalID)
	lock.Lock()
	defer lock.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.PlacedAt.IsZero() {
		rec.PlacedAt = time.Now().UTC()
	}

	list := s.load(ctx, terminalID)
	next := make([]Record, 0, s.limit)
	next = append(next, rec)
	for _, existing := range list {
		if len(next) == s.limit {
			break
		}
		next = append(next, existing)
	}

	if err := storage.SetJSON(ctx, s.backend, s.keys.RecentOrders(terminalID), next); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store recent orders")
	}
	return nil
}

// List returns the terminal's history, newest first.
func (s *service) List(ctx context.Context, terminalID string) ([]Record, error) {
	lock := s.lockFor(terminalID)
	lock.Lock()
	defer lock.Unlock()

	return s.load(ctx, terminalID), nil
}

// load reads the stored list; anything unreadable counts as empty.
func (s *service) load(ctx context.Context, terminalID string) []Record {
	var list []Record
	err := storage.GetJSON(ctx, s.backend, s.keys.RecentOrders(terminalID), &list)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logg.Warn(ctx, "recent orders unreadable, resetting: "+err.Error())
		}
		return []Record{}
	}
	if len(list) > s.limit {
		list = list[:s.limit]
	}
	return list
}

func (s *service) lockFor(terminalID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[terminalID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[terminalID] = lock
	}
	return lock
}
