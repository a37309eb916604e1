package mq

import (
	"fmt"

	"web3-core/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewProducer 根据 watch.mq_type 创建 Producer
func NewProducer(cfg *config.Config) (Producer, error) {
	switch cfg.Watch.MQType {
	case "", TypeLog:
		return NewLogProducer(nil), nil
	case TypeRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisProducer(rdb), nil
	case TypeKafka:
		return NewKafkaProducer(cfg.Kafka.Brokers, cfg.Watch.Topic), nil
	default:
		return nil, fmt.Errorf("不支持的 mq_type: %s", cfg.Watch.MQType)
	}
}
