package checkout

import (
	"context"
	"time"

	"github.com/angelmondragon/tablepos/internal/cart"
	"github.com/angelmondragon/tablepos/internal/tables"
	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/metrics"
	"github.com/angelmondragon/tablepos/pkg/posapi"
	"github.com/shopspring/decimal"
)

// Policy decides what a step failure does to the checkout.
type Policy string

const (
	// PolicyFatal aborts the checkout and returns the error.
	PolicyFatal Policy = "fatal"
	// PolicyAdvisory logs the failure, records a warning and continues.
	PolicyAdvisory Policy = "advisory"
)

const (
	StepResolveTable  = "resolve_table"
	StepValidate      = "validate"
	StepCreateOrder   = "create_order"
	StepAttachItems   = "attach_items"
	StepMarkTable     = "mark_table_occupied"
	StepRecordHistory = "record_history"
	StepPublish       = "publish_order_placed"
	StepClearCart     = "clear_cart"
)

// Warning reports an advisory step that failed.
type Warning struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

type step struct {
	name   string
	policy Policy
	skip   func(r *attempt) bool
	run    func(ctx context.Context, r *attempt) error
}

// attempt carries state between the steps of one checkout.
type attempt struct {
	terminalID string
	input      Input
	store      *cart.Store
	state      cart.State
	items      []cart.LineItem
	subtotal   decimal.Decimal
	itemCount  int
	table      tables.Resolution
	order      *posapi.Order
	placedAt   time.Time
	warnings   []Warning
}

type runner struct {
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
}

// execute runs steps in order. The first fatal failure stops the run.
func (rn runner) execute(ctx context.Context, r *attempt, steps []step) error {
	for _, st := range steps {
		if st.skip != nil && st.skip(r) {
			continue
		}

		started := time.Now()
		err := st.run(ctx, r)
		rn.metrics.ObserveStep(st.name, time.Since(started))
		if err == nil {
			continue
		}

		rn.metrics.IncStepFailure(st.name, string(st.policy))
		stepCtx := rn.logg.WithFields(ctx, map[string]any{"step": st.name, "policy": string(st.policy)})

		if st.policy == PolicyFatal {
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				rn.logg.Error(stepCtx, "checkout step failed", err)
			}
			return err
		}

		rn.logg.Warn(stepCtx, "advisory checkout step failed: "+err.Error())
		r.warnings = append(r.warnings, Warning{Step: st.name, Message: warningMessage(st.name)})
	}
	return nil
}

func warningMessage(step string) string {
	switch step {
	case StepMarkTable:
		return "table status could not be updated"
	case StepRecordHistory:
		return "order was not saved to recent orders"
	case StepPublish:
		return "kitchen was not notified"
	}
	return "a non-critical step failed"
}
