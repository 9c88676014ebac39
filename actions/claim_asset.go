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

var _ chain.Action = (*ClaimAsset)(nil)

// ClaimAsset moves the prize of [Pool] to the winner. A pool can be claimed
// once.
type ClaimAsset struct {
	Pool    codec.Address `json:"pool"`
	NftMint codec.Address `json:"nftMint"`
}

func (*ClaimAsset) GetTypeID() uint8 {
	return consts.ClaimAssetID
}

func (c *ClaimAsset) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return state.Keys{
		string(storage.PoolKey(c.Pool)):                                  state.Write,
		string(storage.VaultKey(storage.PoolVault(c.NftMint, c.Pool))):   state.Write,
		string(storage.VaultKey(storage.AccountVault(c.NftMint, actor))): state.All,
	}
}

func (c *ClaimAsset) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	p, err := getPool(ctx, mu, c.Pool)
	if err != nil {
		return nil, err
	}
	if !p.ToClaim {
		return nil, ErrNoClaim
	}
	if actor != p.NftAuthority {
		return nil, ErrNotNftAuthority
	}
	if c.NftMint != p.NftMint {
		return nil, ErrAssetMismatch
	}

	l := ledger.New(mu)
	account := storage.AccountVault(p.NftMint, actor)
	if err := l.OpenVault(ctx, account, p.NftMint, actor); err != nil {
		return nil, err
	}
	if err := l.Transfer(ctx, p.NftVault, account, NftAmount); err != nil {
		return nil, err
	}
	p.Claimed = true
	p.ToClaim = false
	return nil, storage.SetPool(ctx, mu, c.Pool, p)
}

func (*ClaimAsset) Size() int {
	return ClaimAssetSize
}

func (c *ClaimAsset) Marshal(p *codec.Packer) {
	p.PackAddress(c.Pool)
	p.PackAddress(c.NftMint)
}

func UnmarshalClaimAsset(p *codec.Packer) (chain.Action, error) {
	var c ClaimAsset
	p.UnpackAddress(true, &c.Pool)
	p.UnpackAddress(true, &c.NftMint)
	return &c, p.Err()
}
