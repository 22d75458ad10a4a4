package metrics

import "github.com/prometheus/client_golang/prometheus"

// Skip reasons recorded when reminders are not created for an appointment.
const (
	SkipPatientMissing = "patient_missing"
	SkipLookupFailed   = "patient_lookup_failed"
	SkipInvalidTime    = "invalid_time"
	SkipWriteFailed    = "write_failed"
)

// ReminderMetrics exposes counters for the reminder lifecycle.
type ReminderMetrics struct {
	scheduledTotal *prometheus.CounterVec
	skippedTotal   *prometheus.CounterVec
	sentTotal      prometheus.Counter
	orphaned       prometheus.Gauge
}

func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	m := &ReminderMetrics{
		scheduledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podologia",
			Subsystem: "reminders",
			Name:      "scheduled_total",
			Help:      "Reminders persisted, by notification type",
		}, []string{"notification_type"}),
		skippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "podologia",
			Subsystem: "reminders",
			Name:      "scheduling_skipped_total",
			Help:      "Appointments whose reminders were not (fully) created",
		}, []string{"reason"}),
		sentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "podologia",
			Subsystem: "reminders",
			Name:      "marked_sent_total",
			Help:      "Mark-as-sent calls that matched a reminder",
		}),
		orphaned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "podologia",
			Subsystem: "reminders",
			Name:      "incomplete_appointments",
			Help:      "Appointments owning fewer than two reminders at the last reconciliation sweep",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.scheduledTotal, m.skippedTotal, m.sentTotal, m.orphaned)
	return m
}

func (m *ReminderMetrics) ObserveScheduled(notificationType string) {
	if m == nil {
		return
	}
	m.scheduledTotal.WithLabelValues(notificationType).Inc()
}

func (m *ReminderMetrics) ObserveSkipped(reason string) {
	if m == nil {
		return
	}
	m.skippedTotal.WithLabelValues(reason).Inc()
}

func (m *ReminderMetrics) ObserveMarkedSent() {
	if m == nil {
		return
	}
	m.sentTotal.Inc()
}

func (m *ReminderMetrics) SetIncompleteAppointments(n int) {
	if m == nil {
		return
	}
	m.orphaned.Set(float64(n))
}
