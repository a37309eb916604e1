package monitor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncCounter(EventTxBroadcast, Function("transfer"))
	rec.IncCounter(EventTxBroadcast, Function("transfer"))
	rec.IncCounter(EventTxTimedOut, nil)
	rec.ObserveLatency(OperationReceiptWait, 2*time.Second, Function("transfer"))

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.events.WithLabelValues(EventTxBroadcast, "transfer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.events.WithLabelValues(EventTxTimedOut, "")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.latency))
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.IncCounter(EventTxConfirmed, nil)
	rec.ObserveLatency(OperationContractRead, time.Second, nil)
}
