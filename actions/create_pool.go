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

var _ chain.Action = (*CreatePool)(nil)

// CreatePool escrows one unit of [NftMint] from the actor and mints
// [PtokenAmount] ptokens against it. The pool address is derived from the
// action ID.
type CreatePool struct {
	NftMint codec.Address `json:"nftMint"`

	// LamportAmount is the initial virtual lamport reserve. It sets the
	// opening price and is not paid by the creator.
	LamportAmount uint64 `json:"lamportAmount"`
	PtokenAmount  uint64 `json:"ptokenAmount"`
}

func (*CreatePool) GetTypeID() uint8 {
	return consts.CreatePoolID
}

func (c *CreatePool) StateKeys(actor codec.Address, actionID ids.ID) state.Keys {
	pool := storage.PoolAddress(actionID)
	ptokenMint := storage.PtokenMintAddress(pool)
	return state.Keys{
		string(storage.ProtocolKey()):                                          state.Read,
		string(storage.PoolKey(pool)):                                          state.All,
		string(storage.ClosedPoolKey(pool)):                                    state.Read,
		string(storage.MintKey(ptokenMint)):                                    state.All,
		string(storage.VaultKey(storage.PoolVault(ptokenMint, pool))):          state.All,
		string(storage.VaultKey(storage.PoolVault(storage.LamportMint, pool))): state.All,
		string(storage.VaultKey(storage.PoolVault(c.NftMint, pool))):           state.All,
		string(storage.VaultKey(storage.AccountVault(c.NftMint, actor))):       state.Write,
	}
}

func (c *CreatePool) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	actionID ids.ID,
) ([][]byte, error) {
	if c.NftMint == storage.LamportMint {
		return nil, ErrInvalidAsset
	}
	ps, err := getProtocol(ctx, mu)
	if err != nil {
		return nil, err
	}
	if c.LamportAmount < ps.LamportInitMin {
		return nil, ErrLamportInitMin
	}
	if c.LamportAmount >= ps.LamportInitMax {
		return nil, ErrLamportInitMax
	}
	if c.PtokenAmount >= ps.PtokenInitMax {
		return nil, ErrPtokenInitMax
	}
	if c.PtokenAmount < ps.PtokenInitMin {
		return nil, ErrPtokenInitMin
	}

	pool := storage.PoolAddress(actionID)
	used, err := storage.PoolIDUsed(ctx, mu, pool)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, ErrPoolAlreadyExists
	}

	var (
		l            = ledger.New(mu)
		ptokenMint   = storage.PtokenMintAddress(pool)
		ptokenVault  = storage.PoolVault(ptokenMint, pool)
		lamportVault = storage.PoolVault(storage.LamportMint, pool)
		nftVault     = storage.PoolVault(c.NftMint, pool)
	)
	if err := l.CreateMint(ctx, ptokenMint, pool); err != nil {
		return nil, err
	}
	if err := l.OpenVault(ctx, ptokenVault, ptokenMint, pool); err != nil {
		return nil, err
	}
	if err := l.OpenVault(ctx, lamportVault, storage.LamportMint, pool); err != nil {
		return nil, err
	}
	if err := l.OpenVault(ctx, nftVault, c.NftMint, pool); err != nil {
		return nil, err
	}
	if err := l.MintTo(ctx, pool, ptokenVault, c.PtokenAmount); err != nil {
		return nil, err
	}
	if err := l.Transfer(ctx, storage.AccountVault(c.NftMint, actor), nftVault, NftAmount); err != nil {
		return nil, err
	}

	if err := storage.SetPool(ctx, mu, pool, &storage.ProbPool{
		Authority:     actor,
		NftAuthority:  actor,
		LamportVault:  lamportVault,
		PtokenVault:   ptokenVault,
		NftVault:      nftVault,
		PtokenMint:    ptokenMint,
		NftMint:       c.NftMint,
		LamportSupply: c.LamportAmount,
		PtokenSupply:  c.PtokenAmount,
	}); err != nil {
		return nil, err
	}
	result := &CreatePoolResult{Pool: pool, PtokenMint: ptokenMint}
	return [][]byte{result.Bytes()}, nil
}

func (*CreatePool) Size() int {
	return CreatePoolSize
}

func (c *CreatePool) Marshal(p *codec.Packer) {
	p.PackAddress(c.NftMint)
	p.PackUint64(c.LamportAmount)
	p.PackUint64(c.PtokenAmount)
}

func UnmarshalCreatePool(p *codec.Packer) (chain.Action, error) {
	var c CreatePool
	p.UnpackAddress(true, &c.NftMint)
	c.LamportAmount = p.UnpackUint64(false)
	c.PtokenAmount = p.UnpackUint64(false)
	return &c, p.Err()
}
