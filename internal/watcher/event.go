package watcher

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// BlockEvent 每个新区块发布一条
type BlockEvent struct {
	Number     uint64     `json:"number"`
	Hash       string     `json:"hash"`
	ParentHash string     `json:"parentHash"`
	Timestamp  uint64     `json:"timestamp"`
	TxCount    int        `json:"txCount"`
	GasUsed    uint64     `json:"gasUsed"`
	Logs       []LogEvent `json:"logs,omitempty"`
}

// LogEvent 被监听合约在该区块产生的日志
type LogEvent struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
	TxHash  string   `json:"txHash"`
	Index   uint     `json:"logIndex"`
}

func newBlockEvent(block *types.Block, logs []types.Log) *BlockEvent {
	ev := &BlockEvent{
		Number:     block.NumberU64(),
		Hash:       block.Hash().Hex(),
		ParentHash: block.ParentHash().Hex(),
		Timestamp:  block.Time(),
		TxCount:    len(block.Transactions()),
		GasUsed:    block.GasUsed(),
	}
	for _, l := range logs {
		topics := make([]string, len(l.Topics))
		for i, t := range l.Topics {
			topics[i] = t.Hex()
		}
		ev.Logs = append(ev.Logs, LogEvent{
			Address: l.Address.Hex(),
			Topics:  topics,
			Data:    hexutil.Encode(l.Data),
			TxHash:  l.TxHash.Hex(),
			Index:   l.Index,
		})
	}
	return ev
}
