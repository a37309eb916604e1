// Package node answers chain-level queries that are not tied to an account
// or a contract.
package node

import (
	"context"
	"math/big"

	"web3-core/internal/chain"
	"web3-core/pkg/errno"

	"github.com/ethereum/go-ethereum/core/types"
)

type Node struct {
	client chain.Client
}

func New(client chain.Client) (*Node, error) {
	if client == nil {
		return nil, errno.ErrNotConnected
	}
	return &Node{client: client}, nil
}

func (n *Node) ChainID(ctx context.Context) (*big.Int, error) {
	return n.client.ChainID(ctx)
}

// LatestBlock returns the number of the head block.
func (n *Node) LatestBlock(ctx context.Context) (uint64, error) {
	return n.client.LatestBlock(ctx)
}

// Block returns the block with the given number, or the head block for nil.
func (n *Node) Block(ctx context.Context, number *big.Int) (*types.Block, error) {
	return n.client.GetBlock(ctx, number)
}

// Timestamp returns the unix time of a block, the head block for nil.
func (n *Node) Timestamp(ctx context.Context, number *big.Int) (uint64, error) {
	block, err := n.Block(ctx, number)
	if err != nil {
		return 0, err
	}
	return block.Time(), nil
}
