// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/ledger"
	"github.com/ava-labs/fortunevm/pricing"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ chain.Action = (*Buy)(nil)

// Buy purchases [Amount] ptokens from [Pool] into the actor's pool vault.
// The actor pays the curve cost to the pool and the swap fee to the protocol.
type Buy struct {
	Pool   codec.Address `json:"pool"`
	Amount uint64        `json:"amount"`
}

func (*Buy) GetTypeID() uint8 {
	return consts.BuyID
}

func (b *Buy) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	ptokenMint := storage.PtokenMintAddress(b.Pool)
	return state.Keys{
		string(storage.ProtocolKey()):                                              state.Read,
		string(storage.PoolKey(b.Pool)):                                            state.Write,
		string(storage.VaultKey(storage.AccountVault(storage.LamportMint, actor))): state.Write,
		string(storage.VaultKey(storage.PoolVault(storage.LamportMint, b.Pool))):   state.Write,
		string(storage.VaultKey(storage.ProtocolVault)):                            state.Write,
		string(storage.VaultKey(storage.PoolVault(ptokenMint, b.Pool))):            state.Write,
		string(storage.VaultKey(storage.UserVault(ptokenMint, actor))):             state.All,
	}
}

func (b *Buy) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	ps, err := getProtocol(ctx, mu)
	if err != nil {
		return nil, err
	}
	p, err := getPool(ctx, mu, b.Pool)
	if err != nil {
		return nil, err
	}
	if p.Claimed {
		return nil, ErrPoolClosed
	}
	quote, err := pricing.NewConstantProduct(p.PtokenSupply, p.LamportSupply).Buy(b.Amount, ps.SwapFee, ps.FeeScalar)
	if err != nil {
		return nil, err
	}
	outstanding, err := smath.Add(p.OutstandingPtokens, b.Amount)
	if err != nil {
		return nil, err
	}

	l := ledger.New(mu)
	payer := storage.AccountVault(storage.LamportMint, actor)
	if err := l.Transfer(ctx, payer, p.LamportVault, quote.Cost); err != nil {
		return nil, err
	}
	if err := l.Transfer(ctx, payer, storage.ProtocolVault, quote.Fee); err != nil {
		return nil, err
	}
	userVault := storage.UserVault(p.PtokenMint, actor)
	if err := l.OpenVault(ctx, userVault, p.PtokenMint, actor); err != nil {
		return nil, err
	}
	if err := l.Transfer(ctx, p.PtokenVault, userVault, b.Amount); err != nil {
		return nil, err
	}

	p.PtokenSupply = quote.PtokenSupply
	p.LamportSupply = quote.LamportSupply
	p.OutstandingPtokens = outstanding
	if err := storage.SetPool(ctx, mu, b.Pool, p); err != nil {
		return nil, err
	}
	result := &BuyResult{Cost: quote.Cost, Fee: quote.Fee}
	return [][]byte{result.Bytes()}, nil
}

func (*Buy) Size() int {
	return BuySize
}

func (b *Buy) Marshal(p *codec.Packer) {
	p.PackAddress(b.Pool)
	p.PackUint64(b.Amount)
}

func UnmarshalBuy(p *codec.Packer) (chain.Action, error) {
	var b Buy
	p.UnpackAddress(true, &b.Pool)
	b.Amount = p.UnpackUint64(false)
	return &b, p.Err()
}
