// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger moves tokens between vaults. It owns no state of its own and
// only reads and writes the mint and vault records in [storage].
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

type Ledger struct {
	mu state.Mutable
}

func New(mu state.Mutable) *Ledger {
	return &Ledger{mu: mu}
}

// CreateMint registers [mint] with a zero supply. Only [authority] may mint
// new units afterwards.
func (l *Ledger) CreateMint(ctx context.Context, mint codec.Address, authority codec.Address) error {
	_, err := storage.GetMint(ctx, l.mu, mint)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrMintExists, mint)
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	return storage.SetMint(ctx, l.mu, mint, &storage.Mint{Authority: authority})
}

// OpenVault creates an empty vault for [mint] owned by [owner]. Opening an
// existing vault of the same mint is a no-op.
func (l *Ledger) OpenVault(ctx context.Context, vault codec.Address, mint codec.Address, owner codec.Address) error {
	v, ok, err := storage.GetVault(ctx, l.mu, vault)
	if err != nil {
		return err
	}
	if ok {
		if v.Mint != mint {
			return fmt.Errorf("%w: vault=%s want=%s", ErrMintMismatch, v.Mint, mint)
		}
		return nil
	}
	return storage.SetVault(ctx, l.mu, vault, &storage.Vault{Mint: mint, Owner: owner})
}

// MintTo creates [amount] new units in [vault]. [authority] must match the
// authority of the vault's mint.
func (l *Ledger) MintTo(ctx context.Context, authority codec.Address, vault codec.Address, amount uint64) error {
	v, err := l.vault(ctx, vault)
	if err != nil {
		return err
	}
	m, err := storage.GetMint(ctx, l.mu, v.Mint)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrMintNotFound, v.Mint)
	}
	if err != nil {
		return err
	}
	if m.Authority != authority {
		return ErrNotMintAuthority
	}
	supply, err := smath.Add(m.Supply, amount)
	if err != nil {
		return err
	}
	balance, err := smath.Add(v.Amount, amount)
	if err != nil {
		return err
	}
	m.Supply = supply
	v.Amount = balance
	if err := storage.SetMint(ctx, l.mu, v.Mint, m); err != nil {
		return err
	}
	return storage.SetVault(ctx, l.mu, vault, v)
}

// Transfer moves [amount] from [from] to [to]. Both vaults must exist and
// hold the same mint.
func (l *Ledger) Transfer(ctx context.Context, from codec.Address, to codec.Address, amount uint64) error {
	src, err := l.vault(ctx, from)
	if err != nil {
		return err
	}
	dst, err := l.vault(ctx, to)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf("%w: from=%s to=%s", ErrMintMismatch, src.Mint, dst.Mint)
	}
	if src.Amount < amount {
		return fmt.Errorf("%w: have=%d want=%d", ErrInsufficientBalance, src.Amount, amount)
	}
	if from == to || amount == 0 {
		return nil
	}
	newDst, err := smath.Add(dst.Amount, amount)
	if err != nil {
		return err
	}
	src.Amount -= amount
	dst.Amount = newDst
	if err := storage.SetVault(ctx, l.mu, from, src); err != nil {
		return err
	}
	return storage.SetVault(ctx, l.mu, to, dst)
}

// Burn destroys [amount] units held by [vault] and reduces the mint supply.
func (l *Ledger) Burn(ctx context.Context, vault codec.Address, amount uint64) error {
	v, err := l.vault(ctx, vault)
	if err != nil {
		return err
	}
	if v.Amount < amount {
		return fmt.Errorf("%w: have=%d want=%d", ErrInsufficientBalance, v.Amount, amount)
	}
	m, err := storage.GetMint(ctx, l.mu, v.Mint)
	if err != nil {
		return err
	}
	supply, err := smath.Sub(m.Supply, amount)
	if err != nil {
		return err
	}
	m.Supply = supply
	v.Amount -= amount
	if err := storage.SetMint(ctx, l.mu, v.Mint, m); err != nil {
		return err
	}
	return storage.SetVault(ctx, l.mu, vault, v)
}

// CloseVault removes an empty vault.
func (l *Ledger) CloseVault(ctx context.Context, vault codec.Address) error {
	v, err := l.vault(ctx, vault)
	if err != nil {
		return err
	}
	if v.Amount != 0 {
		return fmt.Errorf("%w: %s holds %d", ErrVaultNotEmpty, vault, v.Amount)
	}
	return storage.DeleteVault(ctx, l.mu, vault)
}

// Balance returns the amount held by [vault]. Missing vaults hold nothing.
func (l *Ledger) Balance(ctx context.Context, vault codec.Address) (uint64, error) {
	return storage.GetBalance(ctx, l.mu, vault)
}

func (l *Ledger) vault(ctx context.Context, addr codec.Address) (*storage.Vault, error) {
	v, ok, err := storage.GetVault(ctx, l.mu, addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVaultNotFound, addr)
	}
	return v, nil
}
