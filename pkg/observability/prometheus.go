package observability

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics exposes measurements for scraping. Collectors are created
// on first use; the label set of a metric is fixed by its first observation.
type PrometheusMetrics struct {
	namespace string
	registry  *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
	labels     map[string][]string
}

// NewPrometheusMetrics creates metrics registered on a private registry
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &PrometheusMetrics{
		namespace:  sanitizeMetricName(namespace),
		registry:   registry,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		labels:     make(map[string][]string),
	}
}

// Registry returns the underlying registry
func (p *PrometheusMetrics) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the exposition format
func (p *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// IncrementCounter adds one to a named counter
func (p *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      sanitizeMetricName(name) + "_total",
			Help:      "Count of " + name,
		}, p.labelNames(name, tags))
		p.registry.MustRegister(vec)
		p.counters[name] = vec
	}
	vec.With(p.labelValues(name, tags)).Inc()
}

// RecordDuration observes a duration in seconds
func (p *PrometheusMetrics) RecordDuration(name string, d time.Duration, tags map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      sanitizeMetricName(name) + "_seconds",
			Help:      "Duration of " + name,
			Buckets:   prometheus.DefBuckets,
		}, p.labelNames(name, tags))
		p.registry.MustRegister(vec)
		p.histograms[name] = vec
	}
	vec.With(p.labelValues(name, tags)).Observe(d.Seconds())
}

// RecordValue sets a gauge
func (p *PrometheusMetrics) RecordValue(name string, value float64, tags map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      sanitizeMetricName(name),
			Help:      "Last value of " + name,
		}, p.labelNames(name, tags))
		p.registry.MustRegister(vec)
		p.gauges[name] = vec
	}
	vec.With(p.labelValues(name, tags)).Set(value)
}

// labelNames fixes the label set of name on first use. Caller holds mu.
func (p *PrometheusMetrics) labelNames(name string, tags map[string]string) []string {
	if names, ok := p.labels[name]; ok {
		return names
	}
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, sanitizeMetricName(k))
	}
	sort.Strings(names)
	p.labels[name] = names
	return names
}

// labelValues maps tags onto the fixed label set, dropping unknown keys and
// leaving missing ones empty. Caller holds mu.
func (p *PrometheusMetrics) labelValues(name string, tags map[string]string) prometheus.Labels {
	names := p.labels[name]
	out := make(prometheus.Labels, len(names))
	for _, n := range names {
		out[n] = ""
	}
	for k, v := range tags {
		k = sanitizeMetricName(k)
		if _, ok := out[k]; ok {
			out[k] = v
		}
	}
	return out
}

func sanitizeMetricName(s string) string {
	var b strings.Builder
	for i, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
