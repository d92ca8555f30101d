package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveRender("api", 3)
	m.ObserveRender("api", 1)
	m.ObserveCache("hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Renders.WithLabelValues("api")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "folio_render_total"))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveRender("cli", 1)
	m.ObserveCache("miss")
}
