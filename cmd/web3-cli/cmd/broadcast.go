package cmd

import (
	"fmt"

	"web3-core/internal/txn"
	"web3-core/pkg/logger"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types" // Alias to avoid conflict
	"github.com/spf13/cobra"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "广播已签名的交易 (Online)",
	Long:  `读取已签名的交易文件 (Signed Tx)，广播到区块链网络并按需等待回执。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, _ := cmd.Flags().GetString("input")

		var signed SignedTransaction
		if err := readJSON(inputFile, &signed); err != nil {
			return err
		}
		raw, err := hexutil.Decode(signed.RawTx)
		if err != nil {
			return fmt.Errorf("rawTx 不是有效的 hex: %w", err)
		}
		tx := new(ethtypes.Transaction)
		if err := tx.UnmarshalBinary(raw); err != nil {
			return fmt.Errorf("反序列化交易失败: %w", err)
		}

		client, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		submitter := txn.NewSubmitter(client, txConfig(), txn.WithLogger(logger.Named("submitter")))
		fmt.Printf("正在广播交易 Hash: %s ...\n", tx.Hash().Hex())
		outcome, err := submitter.Submit(cmd.Context(), tx, txn.SubmitOptions{Timeout: timeoutFlag(cmd)})
		if err != nil {
			return fmt.Errorf("❌ 广播失败: %w", err)
		}
		printOutcome(outcome)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(broadcastCmd)
	broadcastCmd.Flags().StringP("input", "i", "signed.json", "已签名的交易文件")
	addTimeoutFlags(broadcastCmd)
}
