package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWizardMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWizardMetrics(reg)

	m.ObserveTransition("next", 1, true)
	m.ObserveTransition("next", 1, false)
	m.ObserveTransition("next", 1, false)
	m.ObserveValidationFailure(3, "customer-email")
	m.ObserveStoreError("load")
	m.ObserveCompletion("")
	m.ObserveNotification(errors.New("smtp down"))
	m.ObserveRequest("POST", "/wizard/sessions/{id}/next", 200, 0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("next", "1", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("next", "1", "moved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues("3", "customer-email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("load")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completions.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestLatency))
}

func TestWizardMetricsDefaultRegistry(t *testing.T) {
	m := NewWizardMetrics(nil)
	t.Cleanup(func() {
		prometheus.DefaultRegisterer.Unregister(m.transitions)
		prometheus.DefaultRegisterer.Unregister(m.validationFailures)
		prometheus.DefaultRegisterer.Unregister(m.storeErrors)
		prometheus.DefaultRegisterer.Unregister(m.completions)
		prometheus.DefaultRegisterer.Unregister(m.notifications)
		prometheus.DefaultRegisterer.Unregister(m.requestLatency)
	})
	m.ObserveNotification(nil)
}

func TestWizardMetricsNilSafe(t *testing.T) {
	var m *WizardMetrics
	m.ObserveTransition("back", 2, true)
	m.ObserveValidationFailure(1, "propertySize")
	m.ObserveStoreError("save")
	m.ObserveCompletion("paypal")
	m.ObserveNotification(nil)
	m.ObserveRequest("GET", "/health", 200, 0.001)
}
