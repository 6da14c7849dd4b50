package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/lmnop/uniswap-v2-periphery/internal/metrics"
)

func TestObserve(t *testing.T) {
	m := metrics.New()
	m.ObserveCall("swap", nil)
	m.ObserveCall("swap", nil)
	m.ObserveCall("swap", errors.New("boom"))
	m.ObserveRequest("/v1/amounts-out", 200)
	m.ObserveHops(2)

	require.Equal(t, 2.0, testutil.ToFloat64(m.RouterCalls.WithLabelValues("swap", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RouterCalls.WithLabelValues("swap", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/v1/amounts-out", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, "router_calls_total"))
	require.True(t, strings.Contains(body, "router_path_hops_bucket"))
}

func TestNilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.ObserveCall("swap", nil)
	m.ObserveHops(3)
	m.ObserveRequest("/", 500)
}
