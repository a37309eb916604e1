package cmd

import (
	"fmt"
	"math/big"
	"time"

	"web3-core/internal/node"

	"github.com/spf13/cobra"
)

var blockCmd = &cobra.Command{
	Use:   "block [number]",
	Short: "查询区块信息",
	Long:  `显示链 ID 以及指定区块 (默认最新区块) 的高度、哈希、时间戳和交易数。`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var number *big.Int
		if len(args) == 1 {
			n, ok := new(big.Int).SetString(args[0], 0)
			if !ok || n.Sign() < 0 {
				return fmt.Errorf("无效的区块号: %s", args[0])
			}
			number = n
		}

		client, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		n, err := node.New(client)
		if err != nil {
			return err
		}
		chainID, err := n.ChainID(cmd.Context())
		if err != nil {
			return err
		}
		block, err := n.Block(cmd.Context(), number)
		if err != nil {
			return fmt.Errorf("查询区块失败: %w", err)
		}

		fmt.Printf("Chain ID:  %s\n", chainID)
		fmt.Printf("Number:    %d\n", block.NumberU64())
		fmt.Printf("Hash:      %s\n", block.Hash().Hex())
		fmt.Printf("Timestamp: %d (%s)\n", block.Time(), time.Unix(int64(block.Time()), 0).UTC().Format(time.RFC3339))
		fmt.Printf("Txs:       %d\n", len(block.Transactions()))
		fmt.Printf("Gas Used:  %d\n", block.GasUsed())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
}
