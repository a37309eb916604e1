package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Tx        TxConfig        `mapstructure:"tx"`
	Contracts ContractsConfig `mapstructure:"contracts"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ChainConfig struct {
	RpcUrl      string        `mapstructure:"rpc_url"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type TxConfig struct {
	GasLimit       uint64        `mapstructure:"gas_limit"`
	ReceiptTimeout time.Duration `mapstructure:"receipt_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	WaitForReceipt bool          `mapstructure:"wait_for_receipt"`
	NonceLock      string        `mapstructure:"nonce_lock"` // "", "local" or "redis"
}

type ContractsConfig struct {
	OutPath string `mapstructure:"out_path"` // Foundry 编译输出目录
}

type WalletConfig struct {
	KeystorePath string `mapstructure:"keystore_path"`
	Password     string `mapstructure:"password"` // 通常通过环境变量 WALLET_PASSWORD 传入
	Mnemonic     string `mapstructure:"mnemonic"`
	Index        uint32 `mapstructure:"index"`
	Language     string `mapstructure:"language"`
	LightKDF     bool   `mapstructure:"light_kdf"`
}

type WatchConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Workers  int           `mapstructure:"workers"`
	Topic    string        `mapstructure:"topic"`
	Address  string        `mapstructure:"address"` // 可选，同时抓取该合约的日志
	MQType   string        `mapstructure:"mq_type"` // "log", "redis" or "kafka"
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load 读取配置: path 为空时在 . 和 ./config 下查找 config.yaml，
// 找不到文件时仅使用默认值和环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 环境变量: chain.rpc_url -> CHAIN_RPC_URL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")

	v.SetDefault("chain.rpc_url", "http://127.0.0.1:8545")
	v.SetDefault("chain.dial_timeout", 10*time.Second)

	v.SetDefault("tx.gas_limit", 1_000_000)
	v.SetDefault("tx.receipt_timeout", 120*time.Second)
	v.SetDefault("tx.poll_interval", 500*time.Millisecond)
	v.SetDefault("tx.wait_for_receipt", true)
	v.SetDefault("tx.nonce_lock", "")

	v.SetDefault("contracts.out_path", "./out")

	v.SetDefault("wallet.keystore_path", "wallet.json")
	v.SetDefault("wallet.password", "")
	v.SetDefault("wallet.mnemonic", "")
	v.SetDefault("wallet.index", 0)
	v.SetDefault("wallet.language", "english")
	v.SetDefault("wallet.light_kdf", false)

	v.SetDefault("watch.interval", 2*time.Second)
	v.SetDefault("watch.workers", 2)
	v.SetDefault("watch.topic", "web3_blocks")
	v.SetDefault("watch.address", "")
	v.SetDefault("watch.mq_type", "log")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})

	v.SetDefault("metrics.addr", ":9100")
}
