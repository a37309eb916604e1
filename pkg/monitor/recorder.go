package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 事件名称
const (
	EventTxBroadcast      = "tx_broadcast"
	EventBroadcastFailed  = "tx_broadcast_failed"
	EventTxConfirmed      = "tx_confirmed"
	EventTxReverted       = "tx_reverted"
	EventTxTimedOut       = "tx_timed_out"
	EventReadFailed       = "contract_read_failed"
	EventBlockObserved    = "block_observed"
	EventPublishFailed    = "event_publish_failed"
	OperationReceiptWait  = "receipt_wait"
	OperationContractRead = "contract_read"
)

// LabelFunction 合约函数名标签，非合约操作为空
const LabelFunction = "function"

// Recorder 业务埋点接口，核心组件只依赖该接口
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// NoopRecorder 默认实现，不记录任何指标
type NoopRecorder struct{}

func (NoopRecorder) IncCounter(string, map[string]string)                    {}
func (NoopRecorder) ObserveLatency(string, time.Duration, map[string]string) {}

// PrometheusRecorder 将事件写入 Prometheus
type PrometheusRecorder struct {
	events  *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewPrometheusRecorder 在 reg 上注册指标；reg 为 nil 时使用默认 Registerer
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "web3",
			Name:      "events_total",
			Help:      "Transaction lifecycle and watcher event counters",
		}, []string{"type", LabelFunction}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "web3",
			Name:      "latency_seconds",
			Help:      "Latency of contract reads and receipt waits",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 15, 30, 60, 120},
		}, []string{"operation", LabelFunction}),
	}
}

func (p *PrometheusRecorder) IncCounter(name string, labels map[string]string) {
	p.events.With(prometheus.Labels{
		"type":        name,
		LabelFunction: labels[LabelFunction],
	}).Inc()
}

func (p *PrometheusRecorder) ObserveLatency(name string, d time.Duration, labels map[string]string) {
	p.latency.With(prometheus.Labels{
		"operation":   name,
		LabelFunction: labels[LabelFunction],
	}).Observe(d.Seconds())
}

// Function 构造只含函数名的标签
func Function(name string) map[string]string {
	return map[string]string{LabelFunction: name}
}
