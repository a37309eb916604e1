package cmd

import (
	"fmt"
	"os"

	"web3-core/pkg/config"
	"web3-core/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "web3-cli",
	Short: "以太坊钱包与合约交互命令行工具",
	Long: `一个用 Go 语言编写的 Web3 工具集。
支持 BIP-39 助记词钱包、加密 Keystore、转账、离线签名、合约调用以及区块监听。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd)

		logger.Init(cfg.App.Env)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径 (默认查找 ./config.yaml)")
	rootCmd.PersistentFlags().String("rpc", "", "RPC 节点地址，覆盖 chain.rpc_url")
	rootCmd.PersistentFlags().StringP("keystore", "k", "", "Keystore 文件路径，覆盖 wallet.keystore_path")
}

// applyFlagOverrides 命令行参数优先于配置文件和环境变量
func applyFlagOverrides(cmd *cobra.Command) {
	if rpc, _ := cmd.Flags().GetString("rpc"); rpc != "" {
		cfg.Chain.RpcUrl = rpc
	}
	if ks, _ := cmd.Flags().GetString("keystore"); ks != "" {
		cfg.Wallet.KeystorePath = ks
	}
}
