package payments

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/angelmondragon/tablepos/pkg/errors"
	"github.com/angelmondragon/tablepos/pkg/logger"
	"github.com/angelmondragon/tablepos/pkg/metrics"
	"github.com/angelmondragon/tablepos/pkg/posapi"
)

const outcomeTimeout = "timeout"

// Poller re-fetches a payment until it settles or the timeout elapses.
type Poller struct {
	svc      Service
	interval time.Duration
	timeout  time.Duration
	metrics  *metrics.PaymentMetrics
	logg     *logger.Logger
}

func NewPoller(svc Service, interval, timeout time.Duration, m *metrics.PaymentMetrics, logg *logger.Logger) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Poller{svc: svc, interval: interval, timeout: timeout, metrics: m, logg: logg}
}

// Await returns the payment once it reaches a terminal status. Lookup errors
// are logged and retried on the next tick.
func (p *Poller) Await(ctx context.Context, paymentID string) (*posapi.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var last *posapi.Payment
	for {
		payment, err := p.svc.Get(ctx, paymentID)
		switch {
		case err == nil:
			last = payment
			if IsTerminal(payment.Status) {
				p.metrics.IncPollOutcome(payment.Status)
				return payment, nil
			}
			p.logg.Debug(ctx, "payment "+paymentID+" still "+payment.Status)
		case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
			return nil, err
		case ctx.Err() == nil:
			p.logg.Warn(ctx, "payment status poll failed: "+err.Error())
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				p.metrics.IncPollOutcome(outcomeTimeout)
				return last, pkgerrors.New(pkgerrors.CodeConflict, "payment did not settle before the timeout").
					WithDetails(map[string]any{"payment_id": paymentID})
			}
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}
