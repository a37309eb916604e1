package cmd

import (
	"fmt"

	"web3-core/internal/wallet"
	"web3-core/pkg/keystore"
	"web3-core/pkg/units"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "查询账户 ETH 余额",
	Long:  `查询指定地址的余额；未指定时使用 Keystore 中的地址。`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var address string
		if len(args) == 1 {
			address = args[0]
		} else {
			vault, err := keystore.LoadFromFile(cfg.Wallet.KeystorePath)
			if err != nil {
				return fmt.Errorf("未指定地址且读取 Keystore 失败: %w", err)
			}
			address = vault.AddressHex()
		}

		client, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		w, err := wallet.FromAddress(client, address)
		if err != nil {
			return err
		}
		balance, err := w.Balance(cmd.Context())
		if err != nil {
			return fmt.Errorf("查询余额失败: %w", err)
		}
		nonce, err := w.Nonce(cmd.Context())
		if err != nil {
			return fmt.Errorf("查询 nonce 失败: %w", err)
		}

		fmt.Printf("地址:  %s\n", w.Address().Hex())
		fmt.Printf("余额:  %s ETH (%s wei)\n", units.FormatEther(balance), balance)
		fmt.Printf("Nonce: %d\n", nonce)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
