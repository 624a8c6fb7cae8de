package observability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatch accepts at most this many datums per PutMetricData call
const maxDatumsPerPut = 20

// CloudWatchAPI is the part of the CloudWatch client Metrics uses
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics buffers measurements and ships them to CloudWatch
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	pending []types.MetricDatum
}

// NewMetrics creates a new metrics instance
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		now:       time.Now,
	}
}

// IncrementCounter adds one to a named counter
func (m *Metrics) IncrementCounter(name string, tags map[string]string) {
	m.add(name, 1, types.StandardUnitCount, tags)
}

// RecordDuration records how long an operation took, in milliseconds
func (m *Metrics) RecordDuration(name string, d time.Duration, tags map[string]string) {
	m.add(name, float64(d.Milliseconds()), types.StandardUnitMilliseconds, tags)
}

// RecordValue records a gauge-style value
func (m *Metrics) RecordValue(name string, value float64, tags map[string]string) {
	m.add(name, value, types.StandardUnitNone, tags)
}

func (m *Metrics) add(name string, value float64, unit types.StandardUnit, tags map[string]string) {
	if m.client == nil {
		return
	}
	datum := types.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: dimensions(tags),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(m.now()),
	}

	m.mu.Lock()
	m.pending = append(m.pending, datum)
	full := len(m.pending) >= maxDatumsPerPut
	m.mu.Unlock()

	if full {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		m.Flush(ctx)
	}
}

// Flush sends everything buffered so far
func (m *Metrics) Flush(ctx context.Context) {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for len(batch) > 0 {
		n := len(batch)
		if n > maxDatumsPerPut {
			n = maxDatumsPerPut
		}
		if _, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: batch[:n],
		}); err != nil {
			// Metrics never fail the operation being measured
			m.logger.Warn("Failed to send metrics", zap.Error(err), zap.Int("dropped", n))
		}
		batch = batch[n:]
	}
}

// Run flushes on every tick until ctx is done, then flushes once more
func (m *Metrics) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Flush(ctx)
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			m.Flush(final)
			cancel()
			return
		}
	}
}

// Pending reports how many datums wait for the next flush
func (m *Metrics) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func dimensions(tags map[string]string) []types.Dimension {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]types.Dimension, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Dimension{Name: aws.String(k), Value: aws.String(tags[k])})
	}
	return out
}

// NoopMetrics discards every measurement
type NoopMetrics struct{}

func (NoopMetrics) IncrementCounter(string, map[string]string)               {}
func (NoopMetrics) RecordDuration(string, time.Duration, map[string]string) {}
func (NoopMetrics) RecordValue(string, float64, map[string]string)          {}
