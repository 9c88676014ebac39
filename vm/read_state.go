// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/storage"
)

func (vm *VM) GetProtocol(ctx context.Context) (*storage.ProtocolState, error) {
	return storage.GetProtocolState(ctx, vm.db)
}

func (vm *VM) GetPool(ctx context.Context, pool codec.Address) (*storage.ProbPool, error) {
	return storage.GetPool(ctx, vm.db, pool)
}

// Balance returns the amount held by [vault], or 0 if it does not exist.
func (vm *VM) Balance(ctx context.Context, vault codec.Address) (uint64, error) {
	return storage.GetBalance(ctx, vm.db, vault)
}

// AccountBalance returns the personal balance of [owner] in [mint].
func (vm *VM) AccountBalance(ctx context.Context, mint codec.Address, owner codec.Address) (uint64, error) {
	return vm.Balance(ctx, storage.AccountVault(mint, owner))
}

// PtokenBalance returns the ptokens [user] holds in the vault scoped to
// [pool], excluding any that are staged for burning.
func (vm *VM) PtokenBalance(ctx context.Context, pool codec.Address, user codec.Address) (uint64, error) {
	return vm.Balance(ctx, storage.UserVault(storage.PtokenMintAddress(pool), user))
}

// BurnStaged returns the ptokens [user] has requested to burn in [pool]
// that have not been executed yet.
func (vm *VM) BurnStaged(ctx context.Context, pool codec.Address, user codec.Address) (uint64, error) {
	return vm.Balance(ctx, storage.BurnVault(storage.PtokenMintAddress(pool), user))
}

func (vm *VM) ProtocolFees(ctx context.Context) (uint64, error) {
	return vm.Balance(ctx, storage.ProtocolVault)
}

// Nonce returns the nonce the next transaction of [actor] must carry.
func (vm *VM) Nonce(ctx context.Context, actor codec.Address) (uint64, error) {
	return storage.GetNonce(ctx, vm.db, actor)
}
