package handler

import (
	"context"
	"net/http"
	"time"

	"web3-core/internal/chain"
	"web3-core/internal/handler/response"
	"web3-core/pkg/errno"

	"github.com/gin-gonic/gin"
)

// Probe 由 watcher.Watcher 实现
type Probe interface {
	Healthy() bool
	Height() uint64
	Published() uint64
}

type HealthHandler struct {
	client  chain.Client
	probe   Probe
	service string
}

func NewHealthHandler(service string, client chain.Client, probe Probe) *HealthHandler {
	return &HealthHandler{client: client, probe: probe, service: service}
}

// HealthCheck 节点可达且 watcher 在持续轮询时返回 200，否则返回 503
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	node := h.client != nil && h.client.IsConnected(ctx)
	watching := h.probe == nil || h.probe.Healthy()

	data := gin.H{
		"service": h.service,
		"node":    node,
		"watcher": watching,
	}
	if h.probe != nil {
		data["height"] = h.probe.Height()
		data["published"] = h.probe.Published()
	}

	if !node || !watching {
		data["status"] = "DOWN"
		response.ErrorWithStatus(c, http.StatusServiceUnavailable, errno.ErrUnavailable, data)
		return
	}
	data["status"] = "UP"
	response.Success(c, data)
}
