// Package watcher 轮询新区块并将 BlockEvent 发布到消息队列
package watcher

import (
	"context"
	"encoding/json"
	"math/big"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"web3-core/internal/chain"
	"web3-core/internal/mq"
	"web3-core/pkg/logger"
	"web3-core/pkg/monitor"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const (
	DefaultInterval = 2 * time.Second
	DefaultWorkers  = 2
	DefaultTopic    = "web3_blocks"

	// handleAttempts 单个区块的最大处理次数，耗尽后丢弃
	handleAttempts = 3
	retryBackoff   = 200 * time.Millisecond
)

type Config struct {
	Interval time.Duration
	Workers  int
	Topic    string
	// Address 非空时同时抓取该合约在每个区块的日志
	Address *common.Address
	// StartBlock 为空时从当前最新区块开始
	StartBlock *uint64
}

type Option func(*Watcher)

func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

func WithRecorder(r monitor.Recorder) Option {
	return func(w *Watcher) { w.metrics = r }
}

// Watcher 设计沿用 Fetcher + Worker Pool:
// 1. fetcher 单协程，按顺序拉取区块
// 2. workers 并行抓取日志并发布事件
//
// 投递语义为 at-most-once: 发布失败时 worker 重试 handleAttempts 次，
// 仍失败则记录错误并丢弃该区块，fetcher 不会回退重新拉取。
type Watcher struct {
	client   chain.Client
	producer mq.Producer
	cfg      Config
	log      *zap.Logger
	metrics  monitor.Recorder

	blocks chan *types.Block
	wg     sync.WaitGroup

	next      uint64
	height    atomic.Uint64 // 最近一次推送的区块号
	published atomic.Uint64
	lastPoll  atomic.Int64 // unix 纳秒，最近一次成功访问节点
}

func New(client chain.Client, producer mq.Producer, cfg Config, opts ...Option) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	w := &Watcher{
		client:   client,
		producer: producer,
		cfg:      cfg,
		log:      logger.Named("watcher"),
		metrics:  monitor.NoopRecorder{},
		blocks:   make(chan *types.Block, cfg.Workers*2),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start 启动 fetcher 和 workers，ctx 结束后全部退出
func (w *Watcher) Start(ctx context.Context) {
	w.log.Info("Watcher starting", zap.Int("workers", w.cfg.Workers), zap.Duration("interval", w.cfg.Interval))

	for i := 0; i < w.cfg.Workers; i++ {
		w.wg.Add(1)
		go w.worker(ctx, i)
	}

	w.wg.Add(1)
	go w.fetcher(ctx)
}

// Wait 阻塞直到所有协程退出
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// Height 最近一次推送到处理队列的区块号
func (w *Watcher) Height() uint64 {
	return w.height.Load()
}

// Published 成功发布的事件数
func (w *Watcher) Published() uint64 {
	return w.published.Load()
}

// Healthy 在 3 个轮询周期内访问过节点即视为健康
func (w *Watcher) Healthy() bool {
	last := w.lastPoll.Load()
	if last == 0 {
		return false
	}
	return time.Since(time.Unix(0, last)) <= 3*w.cfg.Interval+time.Second
}

func (w *Watcher) fetcher(ctx context.Context) {
	defer w.wg.Done()
	// fetcher 退出时关闭 channel，通知 workers 退出
	defer close(w.blocks)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	started := false
	for {
		if err := w.poll(ctx, &started); err != nil && ctx.Err() == nil {
			w.log.Warn("Poll failed", zap.Uint64("next", w.next), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			w.log.Info("Fetcher stopped", zap.Uint64("height", w.Height()))
			return
		case <-ticker.C:
		}
	}
}

// poll 推送 [next, head] 之间的所有区块，出错时下个周期从断点继续
func (w *Watcher) poll(ctx context.Context, started *bool) error {
	head, err := w.client.LatestBlock(ctx)
	if err != nil {
		return err
	}
	w.lastPoll.Store(time.Now().UnixNano())

	if !*started {
		w.next = head
		if w.cfg.StartBlock != nil {
			w.next = *w.cfg.StartBlock
		}
		*started = true
	}

	for ; w.next <= head; w.next++ {
		block, err := w.client.GetBlock(ctx, new(big.Int).SetUint64(w.next))
		if err != nil {
			return err
		}
		// workers 处理不过来时这里会阻塞，形成背压
		select {
		case w.blocks <- block:
			w.height.Store(block.NumberU64())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (w *Watcher) worker(ctx context.Context, id int) {
	defer w.wg.Done()

	for block := range w.blocks {
		if err := w.handleWithRetry(ctx, block); err != nil && ctx.Err() == nil {
			w.metrics.IncCounter(monitor.EventPublishFailed, nil)
			w.log.Error("Handle block failed, dropped", zap.Int("worker", id), zap.Uint64("block", block.NumberU64()), zap.Error(err))
		}
	}
}

func (w *Watcher) handleWithRetry(ctx context.Context, block *types.Block) error {
	var err error
	for attempt := 1; attempt <= handleAttempts; attempt++ {
		if err = w.handle(ctx, block); err == nil {
			return nil
		}
		if attempt == handleAttempts {
			break
		}
		w.log.Warn("Handle block failed, retrying",
			zap.Uint64("block", block.NumberU64()), zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return err
}

func (w *Watcher) handle(ctx context.Context, block *types.Block) error {
	var logs []types.Log
	if w.cfg.Address != nil {
		var err error
		logs, err = w.client.GetLogs(ctx, ethereum.FilterQuery{
			FromBlock: block.Number(),
			ToBlock:   block.Number(),
			Addresses: []common.Address{*w.cfg.Address},
		})
		if err != nil {
			return err
		}
	}

	payload, err := json.Marshal(newBlockEvent(block, logs))
	if err != nil {
		return err
	}
	key := strconv.FormatUint(block.NumberU64(), 10)
	if err := w.producer.Publish(ctx, w.cfg.Topic, key, payload); err != nil {
		return err
	}

	w.published.Add(1)
	w.metrics.IncCounter(monitor.EventBlockObserved, nil)
	w.log.Debug("Block published", zap.Uint64("block", block.NumberU64()), zap.Int("logs", len(logs)))
	return nil
}
