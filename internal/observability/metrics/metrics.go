package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "grassaxe"
	subsystem = "wizard"
)

// WizardMetrics exposes counters/histograms for the booking wizard.
type WizardMetrics struct {
	transitions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	storeErrors        *prometheus.CounterVec
	completions        *prometheus.CounterVec
	notifications      *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
}

func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	m := &WizardMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "step_transitions_total",
			Help:      "Step navigation attempts by action, origin step and outcome",
		}, []string{"action", "from", "result"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "validation_failures_total",
			Help:      "Failed checks per step and field or region",
		}, []string{"step", "check"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "draft_store_errors_total",
			Help:      "Draft store failures that were swallowed",
		}, []string{"op"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_completed_total",
			Help:      "Bookings confirmed by payment method",
		}, []string{"payment_method"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "confirmation_emails_total",
			Help:      "Confirmation email attempts by outcome",
		}, []string{"status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of wizard API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitions, m.validationFailures, m.storeErrors, m.completions, m.notifications, m.requestLatency)
	return m
}

func (m *WizardMetrics) ObserveTransition(action string, from int, moved bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if moved {
		result = "moved"
	}
	m.transitions.WithLabelValues(action, strconv.Itoa(from), result).Inc()
}

func (m *WizardMetrics) ObserveValidationFailure(step int, check string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(strconv.Itoa(step), check).Inc()
}

func (m *WizardMetrics) ObserveStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *WizardMetrics) ObserveCompletion(paymentMethod string) {
	if m == nil {
		return
	}
	if paymentMethod == "" {
		paymentMethod = "unknown"
	}
	m.completions.WithLabelValues(paymentMethod).Inc()
}

func (m *WizardMetrics) ObserveNotification(err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.notifications.WithLabelValues(status).Inc()
}

func (m *WizardMetrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requestLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
