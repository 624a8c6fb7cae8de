package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type catalogQuery struct {
	Kind string
}

func (q catalogQuery) Validate() error {
	if q.Kind == "" {
		return errors.New("kind is required")
	}
	return nil
}

func (q catalogQuery) CacheKey() string { return q.Kind }

type liveQuery struct{}

func (liveQuery) Validate() error { return nil }

type mapCache struct {
	items map[string]interface{}
}

func (c *mapCache) Get(ctx context.Context, key string) (interface{}, bool) {
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.items[key] = value
	return nil
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) IncrementCounter(name string, tags map[string]string) {
	m.Called(name, tags)
}

func (m *mockMetrics) RecordDuration(name string, d time.Duration, tags map[string]string) {
	m.Called(name, d, tags)
}

func counting(calls *int) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		*calls++
		return *calls, nil
	})
}

func TestQueryBus_Ask(t *testing.T) {
	b := NewQueryBus()
	calls := 0
	require.NoError(t, b.Register(catalogQuery{}, counting(&calls)))

	result, err := b.Ask(context.Background(), catalogQuery{Kind: "languages"})

	require.NoError(t, err)
	assert.Equal(t, 1, result)
	assert.Error(t, b.Register(catalogQuery{}, counting(&calls)))

	_, err = b.Ask(context.Background(), catalogQuery{})
	assert.ErrorContains(t, err, "query validation failed")

	_, err = b.Ask(context.Background(), liveQuery{})
	assert.ErrorContains(t, err, "no handler registered")
}

func TestCachingMiddleware(t *testing.T) {
	cache := &mapCache{items: map[string]interface{}{}}
	mw := NewCachingMiddleware(cache, 60, nil)

	t.Run("cacheable queries hit the cache", func(t *testing.T) {
		calls := 0
		handler := mw.Wrap(counting(&calls))

		first, err := handler.Handle(context.Background(), catalogQuery{Kind: "palette"})
		require.NoError(t, err)
		second, err := handler.Handle(context.Background(), catalogQuery{Kind: "palette"})
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Equal(t, first, second)
		assert.Contains(t, cache.items, "bus.catalogQuery:palette")
	})

	t.Run("other queries pass through", func(t *testing.T) {
		calls := 0
		handler := mw.Wrap(counting(&calls))

		_, _ = handler.Handle(context.Background(), liveQuery{})
		_, _ = handler.Handle(context.Background(), liveQuery{})

		assert.Equal(t, 2, calls)
	})
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := new(mockMetrics)
	tags := map[string]string{"query": "liveQuery"}
	metrics.On("RecordDuration", "query_duration", mock.Anything, tags).Return().Twice()
	metrics.On("IncrementCounter", "query_success", tags).Return().Once()
	metrics.On("IncrementCounter", "query_errors", tags).Return().Once()

	fail := true
	handler := NewMetricsMiddleware(metrics).Wrap(QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		if fail {
			return nil, errors.New("down")
		}
		return "ok", nil
	}))

	_, err := handler.Handle(context.Background(), liveQuery{})
	assert.Error(t, err)
	fail = false
	result, err := handler.Handle(context.Background(), liveQuery{})
	assert.NoError(t, err)
	assert.Equal(t, "ok", result)

	metrics.AssertExpectations(t)
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) (interface{}, bool) { return nil, false }

func (failingCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	return errors.New("cache full")
}

func TestCachingMiddleware_SetFailureIsLogged(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	calls := 0
	handler := NewCachingMiddleware(failingCache{}, 60, zap.New(core)).Wrap(counting(&calls))

	// Act
	result, err := handler.Handle(context.Background(), catalogQuery{Kind: "palette"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result)
	entries := logs.FilterMessage("failed to cache query result").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "bus.catalogQuery:palette", entries[0].ContextMap()["key"])
	assert.Equal(t, "cache full", entries[0].ContextMap()["error"])
}
