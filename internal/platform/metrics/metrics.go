package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "exchange_office"

// Collector holds the application's Prometheus metrics.
// A nil *Collector is valid and records nothing, which keeps tests free of registries.
type Collector struct {
	transactionsRecorded *prometheus.CounterVec
	transactionMKD       *prometheus.CounterVec
	recordLatency        *prometheus.HistogramVec
	serialCollisions     prometheus.Counter

	rateUpdates prometheus.Counter

	printJobs    *prometheus.CounterVec
	printLatency prometheus.Histogram
	circuitState *prometheus.GaugeVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// CircuitState mirrors the breaker states exported on the circuit_state gauge.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// NewCollector creates the collector without registering it.
func NewCollector() *Collector {
	return &Collector{
		transactionsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_recorded_total",
				Help:      "Total number of record attempts per transaction type and outcome",
			},
			[]string{"type", "status"},
		),
		transactionMKD: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_mkd_total",
				Help:      "Sum of MKD totals of recorded transactions per type",
			},
			[]string{"type"},
		),
		recordLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "record_duration_seconds",
				Help:      "Latency of pricing and persisting a transaction",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"type"},
		),
		serialCollisions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "serial_key_collisions_total",
				Help:      "Serial keys rejected by the uniqueness constraint",
			},
		),
		rateUpdates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_updates_total",
				Help:      "Total number of currency rates written",
			},
		),
		printJobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "print_jobs_total",
				Help:      "Print dispatches per driver and outcome",
			},
			[]string{"driver", "status"},
		),
		printLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "print_duration_seconds",
				Help:      "Latency of rendering and dispatching an invoice",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
		),
		circuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_state",
				Help:      "Current circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"name"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests per route and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency per route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Register registers all metrics with the given registerer.
func (c *Collector) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		c.transactionsRecorded,
		c.transactionMKD,
		c.recordLatency,
		c.serialCollisions,
		c.rateUpdates,
		c.printJobs,
		c.printLatency,
		c.circuitState,
		c.httpRequests,
		c.httpLatency,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordTransaction records one record attempt.
func (c *Collector) RecordTransaction(txType string, totalMKD float64, success bool, duration time.Duration) {
	if c == nil {
		return
	}
	c.transactionsRecorded.WithLabelValues(txType, status(success)).Inc()
	c.recordLatency.WithLabelValues(txType).Observe(duration.Seconds())
	if success {
		c.transactionMKD.WithLabelValues(txType).Add(totalMKD)
	}
}

// RecordSerialCollision records a serial key that had to be regenerated.
func (c *Collector) RecordSerialCollision() {
	if c == nil {
		return
	}
	c.serialCollisions.Inc()
}

// RecordRateUpdates records n rates written in one update.
func (c *Collector) RecordRateUpdates(n int) {
	if c == nil {
		return
	}
	c.rateUpdates.Add(float64(n))
}

// RecordPrint records one print dispatch.
func (c *Collector) RecordPrint(driver string, success bool, duration time.Duration) {
	if c == nil {
		return
	}
	c.printJobs.WithLabelValues(driver, status(success)).Inc()
	c.printLatency.Observe(duration.Seconds())
}

// RecordCircuitState records the current state of a named breaker.
func (c *Collector) RecordCircuitState(name string, state CircuitState) {
	if c == nil {
		return
	}
	c.circuitState.WithLabelValues(name).Set(float64(state))
}

// RecordHTTP records one served request.
func (c *Collector) RecordHTTP(method, route string, statusCode int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

