package server

import (
	"web3-core/internal/handler"
	"web3-core/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPRouter 注册 /health 和 /metrics，HTTP 指标与业务指标共用 reg
func NewHTTPRouter(health *handler.HealthHandler, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(monitor.NewHTTPMetrics(reg).Middleware())

	r.GET("/health", health.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	return r
}
