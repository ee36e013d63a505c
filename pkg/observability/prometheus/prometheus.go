// Package prometheus implements the observability hooks with Prometheus
// counters and histograms.
//
//	reg := prom.NewRegistry()
//	m := prometheus.New(reg)
//	m.Install()
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prometheus

import (
	"context"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/journey/pkg/observability"
)

const namespace = "journey"

// Metrics holds the collectors behind every hook interface.
type Metrics struct {
	generations     *prom.CounterVec
	generateSeconds *prom.HistogramVec
	parseFailures   prom.Counter
	repairs         *prom.CounterVec
	repairNodes     *prom.CounterVec
	layoutSeconds   *prom.HistogramVec
	cacheEvents     *prom.CounterVec
	cacheBytes      *prom.CounterVec
	httpRequests    *prom.CounterVec
	httpSeconds     *prom.HistogramVec
	storeOps        *prom.CounterVec
	storeSeconds    *prom.HistogramVec
}

// New creates the collectors and registers them with reg.
// It panics if any collector is already registered, like prom.MustRegister.
func New(reg prom.Registerer) *Metrics {
	m := &Metrics{
		generations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generator calls by model and outcome.",
		}, []string{"model", "outcome"}),
		generateSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Generator call latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"model"}),
		parseFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Candidates that could not be parsed.",
		}),
		repairs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "repairs_total",
			Help:      "Repair passes by mode.",
		}, []string{"mode"}),
		repairNodes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "repair_nodes_total",
			Help:      "Nodes added or removed by repair.",
		}, []string{"change"}),
		layoutSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Positioning pass latency.",
			Buckets:   prom.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"algorithm"}),
		cacheEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes.",
		}, []string{"key_type", "event"}),
		cacheBytes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_client_requests_total",
			Help:      "Outbound HTTP requests by host and status.",
		}, []string{"host", "status"}),
		httpSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_client_duration_seconds",
			Help:      "Outbound HTTP latency.",
			Buckets:   prom.DefBuckets,
		}, []string{"host"}),
		storeOps: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Store operations by backend, operation and outcome.",
		}, []string{"backend", "op", "outcome"}),
		storeSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "store_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prom.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"backend", "op"}),
	}
	reg.MustRegister(
		m.generations, m.generateSeconds, m.parseFailures,
		m.repairs, m.repairNodes, m.layoutSeconds,
		m.cacheEvents, m.cacheBytes,
		m.httpRequests, m.httpSeconds,
		m.storeOps, m.storeSeconds,
	)
	return m
}

// Install registers m as every global observability hook.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
	observability.SetStoreHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Pipeline hooks

func (m *Metrics) OnGenerateStart(context.Context, string) {}

func (m *Metrics) OnGenerateComplete(_ context.Context, model string, d time.Duration, err error) {
	m.generations.WithLabelValues(model, outcome(err)).Inc()
	m.generateSeconds.WithLabelValues(model).Observe(d.Seconds())
}

func (m *Metrics) OnParseFailed(context.Context) {
	m.parseFailures.Inc()
}

func (m *Metrics) OnRepair(_ context.Context, mode string, added, removed int) {
	m.repairs.WithLabelValues(mode).Inc()
	m.repairNodes.WithLabelValues("added").Add(float64(added))
	m.repairNodes.WithLabelValues("removed").Add(float64(removed))
}

func (m *Metrics) OnLayout(_ context.Context, algorithm string, _ int, d time.Duration) {
	m.layoutSeconds.WithLabelValues(algorithm).Observe(d.Seconds())
}

// Cache hooks

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// HTTP hooks

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.httpSeconds.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpRequests.WithLabelValues(host, "error").Inc()
}

// Store hooks

func (m *Metrics) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	m.storeOps.WithLabelValues(backend, op, outcome(err)).Inc()
	m.storeSeconds.WithLabelValues(backend, op).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
	_ observability.StoreHooks    = (*Metrics)(nil)
)
