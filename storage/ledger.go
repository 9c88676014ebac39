// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/state"
)

const (
	mintSize  = codec.AddressLen + consts.Uint64Len
	vaultSize = 2*codec.AddressLen + consts.Uint64Len
)

type Mint struct {
	Authority codec.Address `json:"authority"`
	Supply    uint64        `json:"supply"`
}

// Vault is a token account. Vaults are only created and moved through the
// ledger, never directly by users.
type Vault struct {
	Mint   codec.Address `json:"mint"`
	Owner  codec.Address `json:"owner"`
	Amount uint64        `json:"amount"`
}

func GetMint(ctx context.Context, im state.Immutable, mint codec.Address) (*Mint, error) {
	v, err := im.GetValue(ctx, MintKey(mint))
	if err != nil {
		return nil, err
	}
	r := codec.NewReader(v, mintSize)
	var m Mint
	r.UnpackAddress(false, &m.Authority)
	m.Supply = r.UnpackUint64(false)
	return &m, r.Finish()
}

func SetMint(ctx context.Context, mu state.Mutable, mint codec.Address, m *Mint) error {
	w := codec.NewWriter(mintSize, mintSize)
	w.PackAddress(m.Authority)
	w.PackUint64(m.Supply)
	if err := w.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, MintKey(mint), w.Bytes())
}

// GetVault returns the vault at [addr] and whether it exists.
func GetVault(ctx context.Context, im state.Immutable, addr codec.Address) (*Vault, bool, error) {
	v, err := im.GetValue(ctx, VaultKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	r := codec.NewReader(v, vaultSize)
	var vault Vault
	r.UnpackAddress(true, &vault.Mint)
	r.UnpackAddress(false, &vault.Owner)
	vault.Amount = r.UnpackUint64(false)
	return &vault, true, r.Finish()
}

func SetVault(ctx context.Context, mu state.Mutable, addr codec.Address, vault *Vault) error {
	w := codec.NewWriter(vaultSize, vaultSize)
	w.PackAddress(vault.Mint)
	w.PackAddress(vault.Owner)
	w.PackUint64(vault.Amount)
	if err := w.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, VaultKey(addr), w.Bytes())
}

func DeleteVault(ctx context.Context, mu state.Mutable, addr codec.Address) error {
	return mu.Remove(ctx, VaultKey(addr))
}

// GetBalance returns the amount held by [addr], or 0 if it does not exist.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	vault, ok, err := GetVault(ctx, im, addr)
	if err != nil || !ok {
		return 0, err
	}
	return vault.Amount, nil
}
