package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulerMetrics exposes counters/histograms for the booking flow.
type SchedulerMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	slotChecksTotal *prometheus.CounterVec
	storeFailures   *prometheus.CounterVec
	bookingLatency  prometheus.Histogram
}

func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "scheduler",
			Name:      "bookings_total",
			Help:      "Total booking attempts by result",
		}, []string{"result"}),
		slotChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "scheduler",
			Name:      "slot_checks_total",
			Help:      "Total slot availability checks by result",
		}, []string{"result"}),
		storeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "scheduler",
			Name:      "store_failures_total",
			Help:      "Record store failures by operation",
		}, []string{"operation"}),
		bookingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinica",
			Subsystem: "scheduler",
			Name:      "booking_latency_seconds",
			Help:      "Latency of the schedule operation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.slotChecksTotal, m.storeFailures, m.bookingLatency)
	return m
}

func (m *SchedulerMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

func (m *SchedulerMetrics) ObserveSlotCheck(result string) {
	if m == nil {
		return
	}
	m.slotChecksTotal.WithLabelValues(result).Inc()
}

func (m *SchedulerMetrics) ObserveStoreFailure(operation string) {
	if m == nil {
		return
	}
	m.storeFailures.WithLabelValues(operation).Inc()
}

func (m *SchedulerMetrics) ObserveBookingLatency(seconds float64) {
	if m == nil {
		return
	}
	m.bookingLatency.Observe(seconds)
}
