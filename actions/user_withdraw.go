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

var (
	_ chain.Action = (*UserWithdraw)(nil)
	_ chain.Action = (*UserDeposit)(nil)
)

// UserWithdraw moves [Amount] ptokens from the actor's pool vault to their
// personal account. Withdrawn tokens still count as outstanding, so the pool
// cannot close until they are deposited back and burned.
type UserWithdraw struct {
	Pool   codec.Address `json:"pool"`
	Amount uint64        `json:"amount"`
}

func (*UserWithdraw) GetTypeID() uint8 {
	return consts.UserWithdrawID
}

func (w *UserWithdraw) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return userVaultKeys(w.Pool, actor)
}

func (w *UserWithdraw) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	if w.Amount == 0 {
		return nil, ErrZeroAmount
	}
	p, err := getPool(ctx, mu, w.Pool)
	if err != nil {
		return nil, err
	}
	l := ledger.New(mu)
	account := storage.AccountVault(p.PtokenMint, actor)
	if err := l.OpenVault(ctx, account, p.PtokenMint, actor); err != nil {
		return nil, err
	}
	return nil, l.Transfer(ctx, storage.UserVault(p.PtokenMint, actor), account, w.Amount)
}

func (*UserWithdraw) Size() int {
	return UserWithdrawSize
}

func (w *UserWithdraw) Marshal(p *codec.Packer) {
	p.PackAddress(w.Pool)
	p.PackUint64(w.Amount)
}

func UnmarshalUserWithdraw(p *codec.Packer) (chain.Action, error) {
	var w UserWithdraw
	p.UnpackAddress(true, &w.Pool)
	w.Amount = p.UnpackUint64(false)
	return &w, p.Err()
}

// UserDeposit returns [Amount] withdrawn ptokens to the actor's pool vault
// so they can be burned again.
type UserDeposit struct {
	Pool   codec.Address `json:"pool"`
	Amount uint64        `json:"amount"`
}

func (*UserDeposit) GetTypeID() uint8 {
	return consts.UserDepositID
}

func (d *UserDeposit) StateKeys(actor codec.Address, _ ids.ID) state.Keys {
	return userVaultKeys(d.Pool, actor)
}

func (d *UserDeposit) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	if d.Amount == 0 {
		return nil, ErrZeroAmount
	}
	p, err := getPool(ctx, mu, d.Pool)
	if err != nil {
		return nil, err
	}
	l := ledger.New(mu)
	vault := storage.UserVault(p.PtokenMint, actor)
	if err := l.OpenVault(ctx, vault, p.PtokenMint, actor); err != nil {
		return nil, err
	}
	return nil, l.Transfer(ctx, storage.AccountVault(p.PtokenMint, actor), vault, d.Amount)
}

func (*UserDeposit) Size() int {
	return UserDepositSize
}

func (d *UserDeposit) Marshal(p *codec.Packer) {
	p.PackAddress(d.Pool)
	p.PackUint64(d.Amount)
}

func UnmarshalUserDeposit(p *codec.Packer) (chain.Action, error) {
	var d UserDeposit
	p.UnpackAddress(true, &d.Pool)
	d.Amount = p.UnpackUint64(false)
	return &d, p.Err()
}

func userVaultKeys(pool codec.Address, actor codec.Address) state.Keys {
	ptokenMint := storage.PtokenMintAddress(pool)
	return state.Keys{
		string(storage.PoolKey(pool)):                                     state.Read,
		string(storage.VaultKey(storage.UserVault(ptokenMint, actor))):    state.All,
		string(storage.VaultKey(storage.AccountVault(ptokenMint, actor))): state.All,
	}
}
