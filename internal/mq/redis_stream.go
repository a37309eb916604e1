package mq

import (
	"context"
	"fmt"

	"web3-core/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisProducer 实现 Producer 接口，消息写入 Redis Stream
type RedisProducer struct {
	client redis.UniversalClient
	maxLen int64
	log    *zap.Logger
}

// DefaultStreamMaxLen 每个 Stream 保留的近似最大条数
const DefaultStreamMaxLen = 100_000

func NewRedisProducer(client redis.UniversalClient) *RedisProducer {
	return &RedisProducer{
		client: client,
		maxLen: DefaultStreamMaxLen,
		log:    logger.Named("redis_mq"),
	}
}

// Publish XADD <topic> MAXLEN ~ n * key <key> payload <payload>
func (p *RedisProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"key":     key,
			"payload": payload,
		},
	}).Err()

	if err != nil {
		p.log.Error("Publish error", zap.String("topic", topic), zap.Error(err))
		return fmt.Errorf("redis xadd error: %w", err)
	}
	return nil
}

func (p *RedisProducer) Close() error {
	return p.client.Close()
}
