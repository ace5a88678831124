// Package checkout turns a terminal's cart into a placed order on the
// restaurant backend.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/tablepos/internal/cart"
	"github.com/angelmondragon/tablepos/internal/history"
	"github.com/angelmondragon/tablepos/internal/tables"
	"github.com/angelmondragon/tablepos/pkg/events"
	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/metrics"
	"github.com/angelmondragon/tablepos/pkg/posapi"
	"github.com/shopspring/decimal"
)

const (
	ChannelDineIn   = "dine_in"
	ChannelTakeaway = "takeaway"

	resultCompleted = "completed"
	resultRejected  = "rejected"
	resultFailed    = "failed"
)

type cartRegistry interface {
	For(ctx context.Context, terminalID string) *cart.Store
}

type orderBackend interface {
	CreateOrder(ctx context.Context, req posapi.CreateOrderRequest) (*posapi.Order, error)
	AddOrderItem(ctx context.Context, orderID string, req posapi.AddOrderItemRequest) (*posapi.OrderItem, error)
	UpdateTableStatus(ctx context.Context, tableID, status string) error
}

type tableResolver interface {
	Resolve(ctx context.Context, terminalID, explicit string) tables.Resolution
}

// Input holds the per-checkout choices made on the screen.
type Input struct {
	TableID string
	Channel string
}

// Confirmation is returned once the order is placed.
type Confirmation struct {
	OrderID          string          `json:"order_id"`
	TableID          string          `json:"table_id,omitempty"`
	TableName        string          `json:"table_name,omitempty"`
	TableSource      tables.Source   `json:"table_source,omitempty"`
	Channel          string          `json:"channel"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ItemCount        int             `json:"item_count"`
	PlacedAt         time.Time       `json:"placed_at"`
	ConfirmationPath string          `json:"confirmation_path"`
	Warnings         []Warning       `json:"warnings"`
}

// Service executes checkout orchestration.
type Service interface {
	Checkout(ctx context.Context, terminalID string, input Input) (*Confirmation, error)
}

// Deps wires the collaborators of the checkout service.
type Deps struct {
	Carts     cartRegistry
	Backend   orderBackend
	Tables    tableResolver
	History   history.Service
	Publisher events.Publisher
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger

	DefaultChannel string
	Now            func() time.Time
}

type service struct {
	carts          cartRegistry
	backend        orderBackend
	tables         tableResolver
	history        history.Service
	publisher      events.Publisher
	metrics        *metrics.CheckoutMetrics
	logg           *logger.Logger
	defaultChannel string
	now            func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService builds a checkout service backed by the provided stack.
func NewService(deps Deps) (Service, error) {
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart registry required")
	}
	if deps.Backend == nil {
		return nil, fmt.Errorf("order backend required")
	}
	if deps.Tables == nil {
		return nil, fmt.Errorf("table resolver required")
	}
	if deps.History == nil {
		return nil, fmt.Errorf("history service required")
	}
	if deps.Publisher == nil {
		deps.Publisher = events.Noop{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	channel, err := normalizeChannel(deps.DefaultChannel, ChannelDineIn)
	if err != nil {
		return nil, err
	}
	return &service{
		carts:          deps.Carts,
		backend:        deps.Backend,
		tables:         deps.Tables,
		history:        deps.History,
		publisher:      deps.Publisher,
		metrics:        deps.Metrics,
		logg:           deps.Logger,
		defaultChannel: channel,
		now:            deps.Now,
		inflight:       make(map[string]struct{}),
	}, nil
}

func (s *service) Checkout(ctx context.Context, terminalID string, input Input) (*Confirmation, error) {
	channel, err := normalizeChannel(input.Channel, s.defaultChannel)
	if err != nil {
		s.metrics.IncResult(resultRejected)
		return nil, err
	}
	input.Channel = channel

	ctx = s.logg.WithTerminalID(ctx, terminalID)
	release, ok := s.acquire(terminalID)
	if !ok {
		s.metrics.IncResult(resultRejected)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer release()

	r := &attempt{
		terminalID: terminalID,
		input:      input,
		store:      s.carts.For(ctx, terminalID),
	}

	rn := runner{metrics: s.metrics, logg: s.logg}
	if err := rn.execute(ctx, r, s.steps()); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			s.metrics.IncResult(resultRejected)
		} else {
			s.metrics.IncResult(resultFailed)
		}
		return nil, err
	}
	s.metrics.IncResult(resultCompleted)

	warnings := r.warnings
	if warnings == nil {
		warnings = []Warning{}
	}
	return &Confirmation{
		OrderID:          r.order.ID,
		TableID:          r.table.TableID,
		TableName:        r.table.Name,
		TableSource:      r.table.Source,
		Channel:          channel,
		Subtotal:         r.subtotal,
		ItemCount:        r.itemCount,
		PlacedAt:         r.placedAt,
		ConfirmationPath: "/orders/" + r.order.ID + "/confirmation",
		Warnings:         warnings,
	}, nil
}

func (s *service) steps() []step {
	dineInOnly := func(r *attempt) bool { return r.input.Channel != ChannelDineIn }

	return []step{
		{name: StepResolveTable, policy: PolicyFatal, skip: dineInOnly, run: s.resolveTable},
		{name: StepValidate, policy: PolicyFatal, run: s.validate},
		{name: StepCreateOrder, policy: PolicyFatal, run: s.createOrder},
		{name: StepAttachItems, policy: PolicyFatal, run: s.attachItems},
		{name: StepMarkTable, policy: PolicyAdvisory, skip: dineInOnly, run: s.markTableOccupied},
		{name: StepRecordHistory, policy: PolicyAdvisory, run: s.recordHistory},
		{name: StepPublish, policy: PolicyAdvisory, run: s.publish},
		{name: StepClearCart, policy: PolicyFatal, run: s.clearCart},
	}
}

func (s *service) resolveTable(ctx context.Context, r *attempt) error {
	r.table = s.tables.Resolve(ctx, r.terminalID, r.input.TableID)
	return nil
}

// validate drops lines without a product id. No network call happens before it passes.
func (s *service) validate(ctx context.Context, r *attempt) error {
	r.state = r.store.State()
	if r.state.IsEmpty() {
		return errCartEmpty
	}

	for _, item := range r.state.Items() {
		if strings.TrimSpace(item.ProductID) == "" {
			s.logg.Warn(ctx, "dropping cart line without product id: "+item.Name)
			continue
		}
		r.items = append(r.items, item)
		r.subtotal = r.subtotal.Add(item.LineTotal())
		r.itemCount += item.Quantity
	}
	if len(r.items) == 0 {
		return errNoResolvable
	}
	return nil
}

func (s *service) createOrder(ctx context.Context, r *attempt) error {
	order, err := s.backend.CreateOrder(ctx, posapi.CreateOrderRequest{
		TableID: r.table.TableID,
		Channel: r.input.Channel,
	})
	if err != nil {
		return upstreamError(err, msgOrderCreation, map[string]any{"table_id": r.table.TableID})
	}
	r.order = order
	r.placedAt = s.now().UTC()
	return nil
}

// attachItems posts one line at a time. A failure leaves the order partially populated.
func (s *service) attachItems(ctx context.Context, r *attempt) error {
	ctx = s.logg.WithOrderID(ctx, r.order.ID)
	for i, item := range r.items {
		_, err := s.backend.AddOrderItem(ctx, r.order.ID, posapi.AddOrderItemRequest{
			ProductID:   strings.TrimSpace(item.ProductID),
			Quantity:    item.Quantity,
			Note:        item.Note,
			ModifierIDs: item.ModifierIDs(),
		})
		if err != nil {
			return upstreamError(err, msgItemAttachment, map[string]any{
				"order_id":       r.order.ID,
				"product_id":     item.ProductID,
				"attached_items": i,
			})
		}
	}
	return nil
}

func (s *service) markTableOccupied(ctx context.Context, r *attempt) error {
	if strings.TrimSpace(r.table.TableID) == "" {
		return errors.New("no table to mark occupied")
	}
	return s.backend.UpdateTableStatus(ctx, r.table.TableID, posapi.TableStatusOccupied)
}

func (s *service) recordHistory(ctx context.Context, r *attempt) error {
	summary := make([]history.ItemSummary, 0, len(r.items))
	for _, item := range r.items {
		summary = append(summary, history.ItemSummary{Name: item.Name, Quantity: item.Quantity})
	}
	return s.history.Record(ctx, r.terminalID, history.Record{
		OrderID:   r.order.ID,
		PlacedAt:  r.placedAt,
		TableID:   r.table.TableID,
		TableName: r.table.Name,
		Channel:   r.input.Channel,
		Items:     summary,
		ItemCount: r.itemCount,
		Total:     r.subtotal,
	})
}

func (s *service) publish(ctx context.Context, r *attempt) error {
	lines := make([]events.OrderLine, 0, len(r.items))
	for _, item := range r.items {
		lines = append(lines, events.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Note:      item.Note,
		})
	}
	return s.publisher.PublishOrderPlaced(ctx, events.OrderPlaced{
		OrderID:    r.order.ID,
		TerminalID: r.terminalID,
		TableID:    r.table.TableID,
		Channel:    r.input.Channel,
		ItemCount:  r.itemCount,
		Subtotal:   r.subtotal,
		PlacedAt:   r.placedAt,
		Items:      lines,
	})
}

// clearCart removes what this attempt read. Lines added meanwhile stay in the cart.
func (s *service) clearCart(ctx context.Context, r *attempt) error {
	r.store.Settle(ctx, r.state)
	return nil
}

// acquire marks a terminal as checking out. A terminal runs one checkout at a time.
func (s *service) acquire(terminalID string) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[terminalID]; busy {
		return nil, false
	}
	s.inflight[terminalID] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, terminalID)
		s.mu.Unlock()
	}, true
}

func normalizeChannel(channel, fallback string) (string, error) {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" {
		channel = fallback
	}
	switch channel {
	case ChannelDineIn, ChannelTakeaway:
		return channel, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "channel must be dine_in or takeaway")
}
