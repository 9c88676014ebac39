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
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"
)

var _ chain.Action = (*RequestBurn)(nil)

// RequestBurn commits [Amount] ptokens to the actor's burn staging vault and
// charges the flat burn cost. The staged tokens can only be destroyed by
// [ExecuteBurn].
type RequestBurn struct {
	Pool   codec.Address `json:"pool"`
	Amount uint64        `json:"amount"`
}

func (*RequestBurn) GetTypeID() uint8 {
	return consts.RequestBurnID
}

func (r *RequestBurn) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	ptokenMint := storage.PtokenMintAddress(r.Pool)
	return state.Keys{
		string(storage.ProtocolKey()):                                              state.Read,
		string(storage.PoolKey(r.Pool)):                                            state.Read,
		string(storage.VaultKey(storage.UserVault(ptokenMint, actor))):             state.Write,
		string(storage.VaultKey(storage.BurnVault(ptokenMint, actor))):             state.All,
		string(storage.VaultKey(storage.AccountVault(storage.LamportMint, actor))): state.Write,
		string(storage.VaultKey(storage.ProtocolVault)):                            state.Write,
	}
}

func (r *RequestBurn) Execute(
	ctx context.Context,
	rules chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	if r.Amount == 0 {
		return nil, ErrZeroAmount
	}
	ps, err := getProtocol(ctx, mu)
	if err != nil {
		return nil, err
	}
	p, err := getPool(ctx, mu, r.Pool)
	if err != nil {
		return nil, err
	}
	if err := checkBurnsOpen(rules, p); err != nil {
		return nil, err
	}

	l := ledger.New(mu)
	burnVault := storage.BurnVault(p.PtokenMint, actor)
	if err := l.OpenVault(ctx, burnVault, p.PtokenMint, actor); err != nil {
		return nil, err
	}
	if err := l.Transfer(ctx, storage.UserVault(p.PtokenMint, actor), burnVault, r.Amount); err != nil {
		return nil, err
	}
	if ps.BurnCost == 0 {
		return nil, nil
	}
	return nil, l.Transfer(ctx, storage.AccountVault(storage.LamportMint, actor), storage.ProtocolVault, ps.BurnCost)
}

func (*RequestBurn) Size() int {
	return RequestBurnSize
}

func (r *RequestBurn) Marshal(p *codec.Packer) {
	p.PackAddress(r.Pool)
	p.PackUint64(r.Amount)
}

func UnmarshalRequestBurn(p *codec.Packer) (chain.Action, error) {
	var r RequestBurn
	p.UnpackAddress(true, &r.Pool)
	r.Amount = p.UnpackUint64(false)
	return &r, p.Err()
}
