package txn

import (
	"context"
	"fmt"
	"math/big"

	"web3-core/internal/chain"
	"web3-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
)

// BuildParams are the caller-controlled fields of a transaction. Nil or zero
// fields are resolved against the chain.
type BuildParams struct {
	From     common.Address // used to resolve the nonce when Nonce is nil
	To       *common.Address
	Data     []byte
	Value    *big.Int
	Gas      uint64
	GasPrice *big.Int
	Nonce    *uint64
}

// Builder assembles unsigned requests. Chain id and gas price are fetched
// live unless overridden.
type Builder struct {
	client chain.Client
	cfg    Config
}

func NewBuilder(client chain.Client, cfg Config) *Builder {
	return &Builder{client: client, cfg: cfg}
}

func (b *Builder) Build(ctx context.Context, p BuildParams) (*Request, error) {
	if b.client == nil {
		return nil, errno.ErrNotConnected
	}

	nonce, err := b.nonce(ctx, p)
	if err != nil {
		return nil, err
	}

	chainID, err := b.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	gasPrice := p.GasPrice
	if gasPrice == nil {
		if gasPrice, err = b.client.GasPrice(ctx); err != nil {
			return nil, err
		}
	}

	gas := p.Gas
	if gas == 0 {
		gas = b.cfg.gasLimit()
	}

	value := p.Value
	if value == nil {
		value = new(big.Int)
	}

	req := &Request{
		To:       p.To,
		Value:    value,
		Data:     p.Data,
		Gas:      gas,
		GasPrice: gasPrice,
		Nonce:    &nonce,
		ChainID:  chainID,
	}
	if p.From != (common.Address{}) {
		from := p.From
		req.From = &from
	}
	return req, nil
}

func (b *Builder) nonce(ctx context.Context, p BuildParams) (uint64, error) {
	if p.Nonce != nil {
		return *p.Nonce, nil
	}
	if p.From == (common.Address{}) {
		return 0, errno.ErrMissingSigner
	}
	nonce, err := b.client.GetTransactionCount(ctx, p.From)
	if err != nil {
		return 0, fmt.Errorf("resolve nonce: %w", err)
	}
	return nonce, nil
}
