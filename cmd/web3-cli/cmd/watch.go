package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"web3-core/internal/handler"
	"web3-core/internal/mq"
	"web3-core/internal/server"
	"web3-core/internal/wallet"
	"web3-core/internal/watcher"
	"web3-core/pkg/logger"
	"web3-core/pkg/monitor"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "监听新区块并发布事件",
	Long: `按 watch.interval 轮询最新区块，每个新区块发布一条 BlockEvent 到消息队列
(watch.mq_type: log / redis / kafka)，并在 metrics.addr 上提供 /health 和 /metrics。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("address"); addr != "" {
			cfg.Watch.Address = addr
		}
		if mqType, _ := cmd.Flags().GetString("mq"); mqType != "" {
			cfg.Watch.MQType = mqType
		}

		wcfg := watcher.Config{
			Interval: cfg.Watch.Interval,
			Workers:  cfg.Watch.Workers,
			Topic:    cfg.Watch.Topic,
		}
		if cfg.Watch.Address != "" {
			addr, err := wallet.ParseAddress(cfg.Watch.Address)
			if err != nil {
				return err
			}
			watched := common.Address(addr)
			wcfg.Address = &watched
		}
		if cmd.Flags().Changed("from-block") {
			start, _ := cmd.Flags().GetUint64("from-block")
			wcfg.StartBlock = &start
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := dial(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		producer, err := mq.NewProducer(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error("关闭消息队列失败", zap.Error(err))
			}
		}()
		logger.Info("消息队列已就绪", zap.String("type", cfg.Watch.MQType), zap.String("topic", wcfg.Topic))

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder := monitor.NewPrometheusRecorder(reg)

		w := watcher.New(client, producer, wcfg,
			watcher.WithLogger(logger.Named("watcher")),
			watcher.WithRecorder(recorder),
		)
		w.Start(ctx)

		app := server.New(server.Config{Addr: cfg.Metrics.Addr},
			server.NewHTTPRouter(handler.NewHealthHandler("web3-watch", client, w), reg))
		runErr := app.Run(ctx)

		// HTTP 服务异常退出时同样停止 watcher
		stop()
		w.Wait()
		logger.Info("Watcher 已退出", zap.Uint64("height", w.Height()), zap.Uint64("published", w.Published()))
		if runErr != nil {
			return fmt.Errorf("HTTP 服务异常退出: %w", runErr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("address", "", "同时抓取该合约的日志，覆盖 watch.address")
	watchCmd.Flags().String("mq", "", "消息队列类型 log / redis / kafka，覆盖 watch.mq_type")
	watchCmd.Flags().Uint64("from-block", 0, "起始区块 (默认从最新区块开始)")
}
