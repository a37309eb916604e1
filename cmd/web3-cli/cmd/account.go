package cmd

import (
	"fmt"

	"web3-core/internal/wallet"
	"web3-core/pkg/keystore"

	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "生成一个随机测试账户",
	Long:  `生成 12 个单词的随机账户并以环境变量格式输出，可直接追加到 .env 文件。不会写入 Keystore。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, _, err := wallet.Create(nil, wallet.CreateOptions{Words: 12}, wallet.WithKDF(keystore.LightScrypt))
		if err != nil {
			return err
		}
		fmt.Printf("ETH_ADDRESS=%s\n", w.Address().Hex())
		fmt.Printf("ETH_PRIVATE_KEY=%s\n", w.PrivateKeyHex())
		fmt.Printf("ETH_MNEMONIC=\"%s\"\n", w.Mnemonic())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
}
