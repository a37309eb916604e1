package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"web3-core/internal/chain"
	"web3-core/internal/txn"
	"web3-core/internal/wallet"
	"web3-core/pkg/bip39"
	"web3-core/pkg/keystore"
	"web3-core/pkg/lock"
	"web3-core/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// dial 连接 chain.rpc_url
func dial(ctx context.Context) (*chain.EthClient, error) {
	dctx, cancel := context.WithTimeout(ctx, cfg.Chain.DialTimeout)
	defer cancel()

	logger.Debug("连接 RPC 节点", zap.String("rpc", cfg.Chain.RpcUrl))
	return chain.Dial(dctx, cfg.Chain.RpcUrl,
		chain.WithPollInterval(cfg.Tx.PollInterval),
		chain.WithLogger(logger.Named("chain")),
	)
}

func txConfig() txn.Config {
	return txn.Config{
		GasLimit:       cfg.Tx.GasLimit,
		ReceiptTimeout: cfg.Tx.ReceiptTimeout,
		WaitForReceipt: cfg.Tx.WaitForReceipt,
	}
}

func kdfParams() keystore.ScryptParams {
	if cfg.Wallet.LightKDF {
		return keystore.LightScrypt
	}
	return keystore.StandardScrypt
}

// walletOptions 根据配置组装钱包选项，tx.nonce_lock 决定是否启用 nonce 锁
func walletOptions() ([]wallet.Option, error) {
	wcfg := wallet.DefaultConfig()
	wcfg.Tx = txConfig()
	wcfg.KDF = kdfParams()

	opts := []wallet.Option{wallet.WithConfig(wcfg)}
	switch cfg.Tx.NonceLock {
	case "":
	case "local":
		opts = append(opts, wallet.WithNonceLock(lock.NewLocalLock()))
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		opts = append(opts, wallet.WithNonceLock(lock.NewRedisLock(rdb)))
	default:
		return nil, fmt.Errorf("不支持的 tx.nonce_lock: %s", cfg.Tx.NonceLock)
	}
	return opts, nil
}

// readPassword 优先使用 WALLET_PASSWORD，否则在终端提示输入
func readPassword(prompt string) (string, error) {
	if cfg.Wallet.Password != "" {
		return cfg.Wallet.Password, nil
	}
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	return string(b), nil
}

// readNewPassword 两次输入确认；直接回车表示自动生成随机密码
func readNewPassword() (string, error) {
	if cfg.Wallet.Password != "" {
		return cfg.Wallet.Password, nil
	}
	first, err := readPassword("请设置 Keystore 密码 (直接回车自动生成): ")
	if err != nil || first == "" {
		return first, err
	}
	second, err := readPassword("请再次输入密码: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("两次输入的密码不一致")
	}
	return first, nil
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// loadWallet 优先从 Keystore 文件解密，其次使用配置中的明文助记词 (仅限开发环境)
func loadWallet(client chain.Client) (*wallet.Wallet, error) {
	opts, err := walletOptions()
	if err != nil {
		return nil, err
	}

	path := cfg.Wallet.KeystorePath
	if _, err := os.Stat(path); err == nil {
		vault, err := keystore.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取 Keystore 文件失败: %w", err)
		}
		password, err := readPassword(fmt.Sprintf("请输入 Keystore 密码 (%s): ", vault.AddressHex()))
		if err != nil {
			return nil, err
		}
		return wallet.FromVault(client, vault, password, opts...)
	}

	if cfg.Wallet.Mnemonic != "" {
		logger.Warn("未找到 Keystore 文件，使用配置文件中的明文助记词 (仅限开发环境使用)")
		w, _, err := wallet.FromMnemonic(client, cfg.Wallet.Mnemonic, wallet.MnemonicOptions{
			Index:    int(cfg.Wallet.Index),
			Language: bip39.Language(cfg.Wallet.Language),
		}, opts...)
		return w, err
	}
	return nil, fmt.Errorf("未找到 Keystore 文件 %s，且未配置 WALLET_MNEMONIC。请先运行 'web3-cli new' 或 'web3-cli import'", path)
}

// saveVault 写入 Keystore 文件，已存在时需要 --force
func saveVault(vault *keystore.Vault, force bool) error {
	path := cfg.Wallet.KeystorePath
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("Keystore 文件 %s 已存在，使用 --force 覆盖", path)
	}
	return vault.SaveToFile(path)
}

// addTimeoutFlags 为发送类命令注册 --timeout / --no-wait
func addTimeoutFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("timeout", 0, "等待回执的超时时间 (0 使用 tx.receipt_timeout)")
	cmd.Flags().Bool("no-wait", false, "广播后立即返回交易哈希，不等待回执")
}

func timeoutFlag(cmd *cobra.Command) time.Duration {
	if noWait, _ := cmd.Flags().GetBool("no-wait"); noWait {
		return txn.NoWait
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return timeout
}

func printOutcome(o *txn.Outcome) {
	switch {
	case o.Succeeded():
		fmt.Printf("✅ 交易成功: %s (区块 %v, Gas %d)\n", o.Hash.Hex(), o.Receipt.BlockNumber, o.Receipt.GasUsed)
	case o.Reverted():
		fmt.Printf("❌ 交易已上链但执行失败: %s (区块 %v)\n", o.Hash.Hex(), o.Receipt.BlockNumber)
	case o.Kind == txn.TimedOut:
		fmt.Printf("⏳ 等待回执超时，交易可能仍会被打包: %s\n", o.Hash.Hex())
	default:
		fmt.Printf("已广播: %s\n", o.Hash.Hex())
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("解析文件失败: %w", err)
	}
	return nil
}
