package mq

import "context"

// Producer 生产者接口
type Producer interface {
	// Publish 发送消息
	// key: 分区键 (例如区块号), 传空字符串则随机分区
	Publish(ctx context.Context, topic string, key string, payload []byte) error

	// Close 释放底层连接
	Close() error
}

// 支持的 Producer 类型 (watch.mq_type)
const (
	TypeLog   = "log"
	TypeRedis = "redis"
	TypeKafka = "kafka"
)
