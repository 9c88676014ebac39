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

var _ chain.Action = (*ClosePool)(nil)

// ClosePool winds down [Pool]. An unclaimed prize returns to the creator, the
// lamport reserve goes to [Recipient] and unsold ptokens are destroyed. The
// pool address can never be used again.
type ClosePool struct {
	Pool      codec.Address `json:"pool"`
	NftMint   codec.Address `json:"nftMint"`
	Recipient codec.Address `json:"recipient"`
}

func (*ClosePool) GetTypeID() uint8 {
	return consts.ClosePoolID
}

func (c *ClosePool) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	ptokenMint := storage.PtokenMintAddress(c.Pool)
	return state.Keys{
		string(storage.PoolKey(c.Pool)):                                                  state.Write,
		string(storage.ClosedPoolKey(c.Pool)):                                            state.All,
		string(storage.MintKey(ptokenMint)):                                              state.Write,
		string(storage.VaultKey(storage.PoolVault(ptokenMint, c.Pool))):                  state.Write,
		string(storage.VaultKey(storage.PoolVault(storage.LamportMint, c.Pool))):         state.Write,
		string(storage.VaultKey(storage.PoolVault(c.NftMint, c.Pool))):                   state.Write,
		string(storage.VaultKey(storage.AccountVault(c.NftMint, actor))):                 state.All,
		string(storage.VaultKey(storage.AccountVault(storage.LamportMint, c.Recipient))): state.All,
	}
}

func (c *ClosePool) Execute(
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
	if actor != p.Authority {
		return nil, ErrNotPoolAuthority
	}
	if p.OutstandingPtokens != 0 {
		return nil, ErrOutstandingProb
	}
	if p.ToClaim {
		return nil, ErrActiveClaim
	}
	if c.NftMint != p.NftMint {
		return nil, ErrAssetMismatch
	}

	l := ledger.New(mu)
	if !p.Claimed {
		account := storage.AccountVault(p.NftMint, actor)
		if err := l.OpenVault(ctx, account, p.NftMint, actor); err != nil {
			return nil, err
		}
		if err := l.Transfer(ctx, p.NftVault, account, NftAmount); err != nil {
			return nil, err
		}
	}

	lamports, err := l.Balance(ctx, p.LamportVault)
	if err != nil {
		return nil, err
	}
	recipient := storage.AccountVault(storage.LamportMint, c.Recipient)
	if err := l.OpenVault(ctx, recipient, storage.LamportMint, c.Recipient); err != nil {
		return nil, err
	}
	if err := l.Transfer(ctx, p.LamportVault, recipient, lamports); err != nil {
		return nil, err
	}

	unsold, err := l.Balance(ctx, p.PtokenVault)
	if err != nil {
		return nil, err
	}
	if err := l.Burn(ctx, p.PtokenVault, unsold); err != nil {
		return nil, err
	}

	for _, vault := range []codec.Address{p.PtokenVault, p.LamportVault, p.NftVault} {
		if err := l.CloseVault(ctx, vault); err != nil {
			return nil, err
		}
	}
	if err := storage.DeletePool(ctx, mu, c.Pool); err != nil {
		return nil, err
	}
	result := &ClosePoolResult{Lamports: lamports, Burned: unsold}
	return [][]byte{result.Bytes()}, nil
}

func (*ClosePool) Size() int {
	return ClosePoolSize
}

func (c *ClosePool) Marshal(p *codec.Packer) {
	p.PackAddress(c.Pool)
	p.PackAddress(c.NftMint)
	p.PackAddress(c.Recipient)
}

func UnmarshalClosePool(p *codec.Packer) (chain.Action, error) {
	var c ClosePool
	p.UnpackAddress(true, &c.Pool)
	p.UnpackAddress(true, &c.NftMint)
	p.UnpackAddress(true, &c.Recipient)
	return &c, p.Err()
}
