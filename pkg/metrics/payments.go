package metrics

import "github.com/prometheus/client_golang/prometheus"

// PaymentMetrics counts how payment status polling ends.
type PaymentMetrics struct {
	polls *prometheus.CounterVec
}

func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	polls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_poll_outcome",
		Help: "Payment status polls by final outcome.",
	}, []string{"outcome"})
	reg.MustRegister(polls)
	return &PaymentMetrics{polls: polls}
}

// IncPollOutcome counts one finished poll; outcome is a terminal status or "timeout".
func (p *PaymentMetrics) IncPollOutcome(outcome string) {
	if p == nil || p.polls == nil {
		return
	}
	p.polls.WithLabelValues(normalizeLabel(outcome)).Inc()
}
