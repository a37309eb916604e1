package cmd

import (
	"fmt"

	"web3-core/pkg/keystore"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "显示 Keystore 中的账户地址 (无需密码)",
	RunE: func(cmd *cobra.Command, args []string) error {
		vault, err := keystore.LoadFromFile(cfg.Wallet.KeystorePath)
		if err != nil {
			return fmt.Errorf("读取 Keystore 文件失败: %w", err)
		}
		fmt.Println(vault.AddressHex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
