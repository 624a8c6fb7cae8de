package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Counter(t *testing.T) {
	p := NewPrometheusMetrics("App Builder")

	p.IncrementCounter("command", map[string]string{"type": "AddElement", "status": "ok"})
	p.IncrementCounter("command", map[string]string{"type": "AddElement", "status": "ok"})
	p.IncrementCounter("command", map[string]string{"type": "MoveNode", "extra": "dropped"})

	vec := p.counters["command"]
	assert.Equal(t, 2.0, testutil.ToFloat64(vec.WithLabelValues("ok", "AddElement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("", "MoveNode")))
	assert.Equal(t, []string{"status", "type"}, p.labels["command"])
}

func TestPrometheusMetrics_GaugeAndHistogram(t *testing.T) {
	p := NewPrometheusMetrics("appbuilder")

	p.RecordValue("open-sessions", 3, nil)
	p.RecordValue("open-sessions", 5, nil)
	p.RecordDuration("persist", 250*time.Millisecond, map[string]string{"driver": "sqlite"})

	assert.Equal(t, 5.0, testutil.ToFloat64(p.gauges["open-sessions"].WithLabelValues()))
	assert.Equal(t, 1, testutil.CollectAndCount(p.histograms["persist"]))
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	p := NewPrometheusMetrics("appbuilder")
	p.IncrementCounter("document.saved", nil)
	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "appbuilder_document_saved_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestSanitizeMetricName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"command", "command"},
		{"Command.Duration", "command_duration"},
		{"9lives", "_9lives"},
		{"a-b c", "a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeMetricName(tt.input))
		})
	}
}
