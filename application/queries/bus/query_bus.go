package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryBus dispatches queries to their handlers
type QueryBus struct {
	handlers map[reflect.Type]QueryHandler
	mu       sync.RWMutex
}

// NewQueryBus creates a new query bus
func NewQueryBus() *QueryBus {
	return &QueryBus{
		handlers: make(map[reflect.Type]QueryHandler),
	}
}

// Register registers a handler for a query type
func (b *QueryBus) Register(queryType Query, handler QueryHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(queryType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}

	b.handlers[t] = handler
	return nil
}

// Ask dispatches a query to its handler and returns the result
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	// Validate query
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query validation failed: %w", err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no handler registered for query type %T", query)
	}

	return handler.Handle(ctx, query)
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Cacheable is implemented by queries whose result depends only on the query
// itself. Other queries pass through the caching middleware untouched.
type Cacheable interface {
	CacheKey() string
}

// CachingMiddleware adds caching to query handlers
type CachingMiddleware struct {
	cache  Cache
	ttl    int // TTL in seconds
	logger *zap.Logger
}

// NewCachingMiddleware creates a new caching middleware. A nil logger
// discards cache failures.
func NewCachingMiddleware(cache Cache, ttl int, logger *zap.Logger) *CachingMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingMiddleware{
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Wrap wraps a query handler with caching
func (m *CachingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		cacheable, ok := query.(Cacheable)
		if !ok {
			return next.Handle(ctx, query)
		}
		cacheKey := fmt.Sprintf("%T:%s", query, cacheable.CacheKey())

		// Check cache
		if cached, found := m.cache.Get(ctx, cacheKey); found {
			return cached, nil
		}

		// Execute query
		result, err := next.Handle(ctx, query)
		if err != nil {
			return nil, err
		}

		// Store in cache
		if err := m.cache.Set(ctx, cacheKey, result, m.ttl); err != nil {
			m.logger.Debug("failed to cache query result",
				zap.String("key", cacheKey),
				zap.Error(err))
		}

		return result, nil
	})
}

// Cache interface for caching
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
}

// MetricsMiddleware adds metrics to query handlers
type MetricsMiddleware struct {
	metrics Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

// Wrap wraps a query handler with metrics
func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		tags := map[string]string{"query": reflect.TypeOf(query).Name()}
		start := time.Now()
		defer func() {
			m.metrics.RecordDuration("query_duration", time.Since(start), tags)
		}()

		result, err := next.Handle(ctx, query)
		if err != nil {
			m.metrics.IncrementCounter("query_errors", tags)
			return nil, err
		}

		m.metrics.IncrementCounter("query_success", tags)
		return result, nil
	})
}

// Metrics interface
type Metrics interface {
	IncrementCounter(name string, tags map[string]string)
	RecordDuration(name string, d time.Duration, tags map[string]string)
}
