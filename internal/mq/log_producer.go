package mq

import (
	"context"

	"web3-core/pkg/logger"

	"go.uber.org/zap"
)

// LogProducer 只把消息写入日志，用于本地调试
type LogProducer struct {
	log *zap.Logger
}

func NewLogProducer(l *zap.Logger) *LogProducer {
	if l == nil {
		l = logger.Named("events")
	}
	return &LogProducer{log: l}
}

func (p *LogProducer) Publish(_ context.Context, topic string, key string, payload []byte) error {
	p.log.Info("Event", zap.String("topic", topic), zap.String("key", key), zap.ByteString("payload", payload))
	return nil
}

func (p *LogProducer) Close() error { return nil }
