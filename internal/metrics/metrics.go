package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"wardrobe-rental-backend/internal/service"
)

var _ service.Metrics = (*Metrics)(nil)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	bookingWrites         *prometheus.CounterVec
	statsRecomputeFailure prometheus.Counter
	availabilityConflicts *prometheus.CounterVec
	remindersSent         *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		bookingWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_writes_total",
			Help:      "Booking writes by operation.",
		}, []string{"op"}),
		statsRecomputeFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customer_stats_recompute_failures_total",
			Help:      "Customer stats recomputations that failed after a booking write.",
		}),
		availabilityConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_conflicts_total",
			Help:      "Booking writes rejected because an item was already booked.",
		}, []string{"item_id"}),
		remindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Reminder e-mails by kind and result.",
		}, []string{"kind", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job runs by job and result.",
		}, []string{"job", "result"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Scheduled job duration.",
			Buckets:   []float64{.1, .5, 1, 5, 15, 60, 300},
		}, []string{"job"}),
	}

	reg.MustRegister(
		m.bookingWrites,
		m.statsRecomputeFailure,
		m.availabilityConflicts,
		m.remindersSent,
		m.httpRequests,
		m.httpDuration,
		m.jobRuns,
		m.jobDuration,
	)
	return m
}

func (m *Metrics) BookingWritten(op string) {
	m.bookingWrites.WithLabelValues(op).Inc()
}

func (m *Metrics) StatsRecomputeFailed() {
	m.statsRecomputeFailure.Inc()
}

func (m *Metrics) AvailabilityConflict(itemID string) {
	m.availabilityConflicts.WithLabelValues(itemID).Inc()
}

func (m *Metrics) ReminderSent(kind string, err error) {
	m.remindersSent.WithLabelValues(kind, result(err)).Inc()
}

// ObserveHTTP records one served request. route is the mux path template.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveJob records one scheduled job run.
func (m *Metrics) ObserveJob(job string, elapsed time.Duration, err error) {
	m.jobRuns.WithLabelValues(job, result(err)).Inc()
	m.jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
