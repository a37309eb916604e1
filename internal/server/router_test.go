package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"web3-core/internal/chain/chaintest"
	"web3-core/internal/handler"
	"web3-core/internal/handler/response"
	"web3-core/pkg/errno"
	"web3-core/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	healthy bool
}

func (p probe) Healthy() bool     { return p.healthy }
func (p probe) Height() uint64    { return 42 }
func (p probe) Published() uint64 { return 7 }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		connected  bool
		probe      handler.Probe
		wantStatus int
		wantCode   int
	}{
		{"up", true, probe{healthy: true}, http.StatusOK, errno.OK.Code},
		{"no watcher", true, nil, http.StatusOK, errno.OK.Code},
		{"node down", false, probe{healthy: true}, http.StatusServiceUnavailable, errno.ErrUnavailable.Code},
		{"watcher stalled", true, probe{healthy: false}, http.StatusServiceUnavailable, errno.ErrUnavailable.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := chaintest.New()
			client.Connected = tt.connected
			r := NewHTTPRouter(handler.NewHealthHandler("web3-watch", client, tt.probe), prometheus.NewRegistry())

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)

			data := resp.Data.(map[string]any)
			assert.Equal(t, "web3-watch", data["service"])
			if tt.probe != nil {
				assert.Equal(t, float64(42), data["height"])
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := monitor.NewPrometheusRecorder(reg)
	rec.IncCounter(monitor.EventBlockObserved, nil)

	r := NewHTTPRouter(handler.NewHealthHandler("web3-watch", chaintest.New(), nil), reg)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `web3_events_total{function="",type="block_observed"} 1`)
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",path="/health",status="200"} 1`))
}

func TestAppRun(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	r := NewHTTPRouter(handler.NewHealthHandler("web3-watch", chaintest.New(), nil), prometheus.NewRegistry())
	app := New(Config{Addr: addr}, r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
