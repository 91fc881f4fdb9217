// Package metrics provides Prometheus metrics for the herofan service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Battle metrics
	battlesResolved    *prometheus.CounterVec
	battlesInvalid     prometheus.Counter
	battleTies         prometheus.Counter
	battleMargin       prometheus.Histogram
	revealDelay        prometheus.Histogram
	arenaSessions      prometheus.Gauge
	arenaTransitions   *prometheus.CounterVec
	arenaStaleReveals  prometheus.Counter
	breakdownAttribute *prometheus.CounterVec

	// Newsletter pipeline
	signupsAccepted   prometheus.Counter
	signupsDuplicate  prometheus.Counter
	signupsRejected   *prometheus.CounterVec
	subscribersTotal  prometheus.Gauge
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueued     prometheus.Counter
	queueDequeued     prometheus.Counter
	queueEnqueueError *prometheus.CounterVec
	workerCount       prometheus.Gauge
	workerErrors      *prometheus.CounterVec
	workerLatency     prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "herofan",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

// initializeMetrics creates all collectors.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.battlesResolved = m.counterVec("battles_resolved_total", "Battles resolved, by winning hero", "winner")
	m.battlesInvalid = m.counter("battles_invalid_total", "Resolutions rejected because a profile was invalid")
	m.battleTies = m.counter("battle_scaled_ties_total", "Resolutions decided by the tie-break on equal scaled totals")
	m.battleMargin = m.histogram("battle_margin_ratio", "Scaled winning margin relative to the loser's scaled total",
		[]float64{0.01, 0.02, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5})
	m.revealDelay = m.histogram("arena_reveal_delay_milliseconds", "Observed delay between battle start and reveal", m.histogramBuckets)
	m.arenaSessions = m.gauge("arena_sessions", "Open arena sessions")
	m.arenaTransitions = m.counterVec("arena_transitions_total", "Arena state transitions by resulting state", "state")
	m.arenaStaleReveals = m.counter("arena_stale_reveals_total", "Reveals dropped because the session moved on")
	m.breakdownAttribute = m.counterVec("battle_attribute_results_total", "Per-attribute results relative to the winner", "attribute", "result")

	m.signupsAccepted = m.counter("newsletter_signups_accepted_total", "Newsletter signups accepted for processing")
	m.signupsDuplicate = m.counter("newsletter_signups_duplicate_total", "Newsletter signups for an address already seen")
	m.signupsRejected = m.counterVec("newsletter_signups_rejected_total", "Newsletter signups rejected", "reason")
	m.subscribersTotal = m.gauge("newsletter_subscribers", "Stored newsletter subscribers")
	m.queueSize = m.gauge("newsletter_queue_size", "Signup jobs waiting in the queue")
	m.queueCapacity = m.gauge("newsletter_queue_capacity", "Signup queue capacity")
	m.queueEnqueued = m.counter("newsletter_queue_enqueued_total", "Signup jobs enqueued")
	m.queueDequeued = m.counter("newsletter_queue_dequeued_total", "Signup jobs dequeued")
	m.queueEnqueueError = m.counterVec("newsletter_queue_enqueue_errors_total", "Signup enqueue failures", "reason")
	m.workerCount = m.gauge("newsletter_workers", "Signup workers running")
	m.workerErrors = m.counterVec("newsletter_worker_errors_total", "Signup worker failures", "stage")
	m.workerLatency = m.histogram("newsletter_worker_latency_milliseconds", "Time to process one signup job", m.histogramBuckets)

	m.httpRequests = promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Goroutines alive")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds", m.histogramBuckets)
}

// RecordBattle records a resolved battle.
func RecordBattle(winner string, margin float64, tieBreak bool) {
	globalManager.battlesResolved.WithLabelValues(winner).Inc()
	globalManager.battleMargin.Observe(margin)
	if tieBreak {
		globalManager.battleTies.Inc()
	}
}

// RecordBattleAttribute records one winner-relative attribute comparison.
func RecordBattleAttribute(attribute, result string) {
	globalManager.breakdownAttribute.WithLabelValues(attribute, result).Inc()
}

// RecordInvalidProfile counts a resolution rejected by validation.
func RecordInvalidProfile() { globalManager.battlesInvalid.Inc() }

// RecordRevealDelay records how long a reveal took to fire.
func RecordRevealDelay(ms float64) { globalManager.revealDelay.Observe(ms) }

// ArenaOpened increments the open session gauge.
func ArenaOpened() { globalManager.arenaSessions.Inc() }

// ArenaClosed decrements the open session gauge.
func ArenaClosed() { globalManager.arenaSessions.Dec() }

// RecordArenaTransition counts a transition into state.
func RecordArenaTransition(state string) {
	globalManager.arenaTransitions.WithLabelValues(state).Inc()
}

// RecordStaleReveal counts a reveal dropped for an outdated round.
func RecordStaleReveal() { globalManager.arenaStaleReveals.Inc() }

// RecordSignupAccepted counts an accepted newsletter signup.
func RecordSignupAccepted() { globalManager.signupsAccepted.Inc() }

// RecordSignupDuplicate counts a duplicate newsletter signup.
func RecordSignupDuplicate() { globalManager.signupsDuplicate.Inc() }

// RecordSignupRejected counts a rejected signup by reason.
func RecordSignupRejected(reason string) {
	globalManager.signupsRejected.WithLabelValues(reason).Inc()
}

// UpdateSubscribers sets the stored subscriber count.
func UpdateSubscribers(n int) { globalManager.subscribersTotal.Set(float64(n)) }

// UpdateQueueSize sets the current signup queue length.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the signup queue capacity.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// RecordQueueEnqueue counts an enqueued signup job.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDequeue counts a dequeued signup job.
func RecordQueueDequeue() { globalManager.queueDequeued.Inc() }

// RecordQueueEnqueueError counts a failed enqueue by reason.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueError.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the number of running signup workers.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordWorkerError counts a worker failure at stage.
func RecordWorkerError(stage string) {
	globalManager.workerErrors.WithLabelValues(stage).Inc()
}

// RecordWorkerLatency records signup processing latency in milliseconds.
func RecordWorkerLatency(ms float64) { globalManager.workerLatency.Observe(ms) }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutineCount.Set(float64(n)) }

// RecordSystemGCPauseTime records an average GC pause in milliseconds.
func RecordSystemGCPauseTime(ms float64) { globalManager.systemGCPauseTime.Observe(ms) }

// GetRegistry returns the registry that holds the service metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
