package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records per-step timings and outcomes of checkouts.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	failure  *prometheus.CounterVec
	result   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_step_duration_seconds",
		Help:    "Duration of checkout steps in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_step_failure",
		Help: "Failed checkout steps by policy.",
	}, []string{"step", "policy"})
	result := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_result",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	reg.MustRegister(duration, failure, result)
	return &CheckoutMetrics{
		duration: duration,
		failure:  failure,
		result:   result,
	}
}

// ObserveStep records the duration of a single step.
func (c *CheckoutMetrics) ObserveStep(step string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(step)).Observe(duration.Seconds())
}

// IncStepFailure counts a failed step under its policy (fatal or advisory).
func (c *CheckoutMetrics) IncStepFailure(step, policy string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(step), normalizeLabel(policy)).Inc()
}

// IncResult counts a finished checkout (completed, rejected, failed).
func (c *CheckoutMetrics) IncResult(result string) {
	if c == nil || c.result == nil {
		return
	}
	c.result.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
