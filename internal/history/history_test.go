package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/storage"
	"github.com/shopspring/decimal"
)

func newService(t *testing.T, backend storage.Store, limit int) Service {
	t.Helper()
	svc, err := NewService(backend, storage.Keys{Namespace: "pos"}, limit, logger.Discard())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRecordKeepsNewestFirstAndEvictsOldest(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, storage.NewMemory(), 0)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 11; i++ {
		err := svc.Record(ctx, "front", Record{
			OrderID:  fmt.Sprintf("ord-%d", i),
			PlacedAt: base.Add(time.Duration(i) * time.Minute),
			Total:    decimal.NewFromInt(int64(i)),
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	list, err := svc.List(ctx, "front")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != DefaultLimit {
		t.Fatalf("expected %d entries, got %d", DefaultLimit, len(list))
	}
	if list[0].OrderID != "ord-11" {
		t.Fatalf("expected newest first, got %s", list[0].OrderID)
	}
	if list[len(list)-1].OrderID != "ord-2" {
		t.Fatalf("expected ord-1 evicted, oldest kept is %s", list[len(list)-1].OrderID)
	}
	if list[0].ID == "" {
		t.Fatalf("expected generated record id")
	}
}

func TestRecordFillsTimestamp(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, storage.NewMemory(), 3)
	if err := svc.Record(ctx, "front", Record{OrderID: "ord-1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	list, _ := svc.List(ctx, "front")
	if list[0].PlacedAt.IsZero() {
		t.Fatalf("expected placed_at to be set")
	}
}

func TestCorruptHistoryResets(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	keys := storage.Keys{Namespace: "pos"}
	if err := backend.Set(ctx, keys.RecentOrders("front"), []byte(`{"not":"a list"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := newService(t, backend, 10)
	list, err := svc.List(ctx, "front")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list on corrupt data, got %v, %v", list, err)
	}

	if err := svc.Record(ctx, "front", Record{OrderID: "ord-1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	list, _ = svc.List(ctx, "front")
	if len(list) != 1 || list[0].OrderID != "ord-1" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestTerminalsHaveSeparateHistories(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, storage.NewMemory(), 10)
	_ = svc.Record(ctx, "front", Record{OrderID: "ord-1"})

	list, _ := svc.List(ctx, "bar")
	if len(list) != 0 {
		t.Fatalf("expected empty history for other terminal")
	}
}

func TestConcurrentRecordsAreNotLost(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, storage.NewMemory(), 50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = svc.Record(ctx, "front", Record{OrderID: fmt.Sprintf("ord-%d", i)})
		}(i)
	}
	wg.Wait()

	list, _ := svc.List(ctx, "front")
	if len(list) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(list))
	}
}

type brokenBackend struct {
	storage.Store
}

func (brokenBackend) Get(context.Context, string) ([]byte, error) {
	return nil, storage.ErrNotFound
}

func (brokenBackend) Set(context.Context, string, []byte) error {
	return errors.New("read-only")
}

func TestRecordReportsWriteFailure(t *testing.T) {
	svc := newService(t, brokenBackend{}, 10)
	err := svc.Record(context.Background(), "front", Record{OrderID: "ord-1"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestNewServiceRequiresBackend(t *testing.T) {
	if _, err := NewService(nil, storage.Keys{}, 10, logger.Discard()); err == nil {
		t.Fatalf("expected error")
	}
}
