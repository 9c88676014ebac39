// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fortunevm/chain/chaintest"
	"github.com/ava-labs/fortunevm/ledger"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"
)

func withdrawnState(t *testing.T, bought, withdrawn uint64) *chaintest.InMemoryStore {
	mu := boughtState(t, bought)
	_, err := (&UserWithdraw{Pool: pool, Amount: withdrawn}).Execute(
		context.Background(), chaintest.NewRules(), mu, 0, alice, ids.Empty,
	)
	require.NoError(t, err)
	return mu
}

func TestUserWithdrawAction(t *testing.T) {
	tests := []chaintest.ActionTest{
		{
			Name:   "Withdrawn",
			Action: &UserWithdraw{Pool: pool, Amount: 4},
			State:  boughtState(t, 10),
			Actor:  alice,
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				require.Equal(uint64(6), balance(ctx, t, mu, storage.UserVault(ptokenMint, alice)))
				require.Equal(uint64(4), balance(ctx, t, mu, storage.AccountVault(ptokenMint, alice)))
				require.Equal(uint64(10), getTestPool(ctx, t, mu).OutstandingPtokens)
			},
		},
		{
			Name:        "ZeroAmount",
			Action:      &UserWithdraw{Pool: pool},
			State:       boughtState(t, 10),
			Actor:       alice,
			ExpectedErr: ErrZeroAmount,
		},
		{
			Name:        "MoreThanHeld",
			Action:      &UserWithdraw{Pool: pool, Amount: 11},
			State:       boughtState(t, 10),
			Actor:       alice,
			ExpectedErr: ledger.ErrInsufficientBalance,
		},
		{
			Name:        "UnknownPool",
			Action:      &UserWithdraw{Pool: bob, Amount: 1},
			State:       boughtState(t, 10),
			Actor:       alice,
			ExpectedErr: ErrPoolNotFound,
		},
	}

	for _, tt := range tests {
		tt.Run(context.Background(), t)
	}
}

func TestUserDepositAction(t *testing.T) {
	tests := []chaintest.ActionTest{
		{
			Name:   "Deposited",
			Action: &UserDeposit{Pool: pool, Amount: 3},
			State:  withdrawnState(t, 10, 4),
			Actor:  alice,
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				require.Equal(uint64(9), balance(ctx, t, mu, storage.UserVault(ptokenMint, alice)))
				require.Equal(uint64(1), balance(ctx, t, mu, storage.AccountVault(ptokenMint, alice)))
			},
		},
		{
			// A withdrawn ptoken can change hands and be staged by its new owner.
			Name:   "OpensVault",
			Action: &UserDeposit{Pool: pool, Amount: 2},
			State: func() *chaintest.InMemoryStore {
				mu := withdrawnState(t, 10, 4)
				require.NoError(t, ledger.New(mu).OpenVault(
					context.Background(), storage.AccountVault(ptokenMint, bob), ptokenMint, bob,
				))
				require.NoError(t, ledger.New(mu).Transfer(
					context.Background(), storage.AccountVault(ptokenMint, alice), storage.AccountVault(ptokenMint, bob), 2,
				))
				return mu
			}(),
			Actor: bob,
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require.Equal(t, uint64(2), balance(ctx, t, mu, storage.UserVault(ptokenMint, bob)))
			},
		},
		{
			Name:        "NothingWithdrawn",
			Action:      &UserDeposit{Pool: pool, Amount: 1},
			State:       boughtState(t, 10),
			Actor:       alice,
			ExpectedErr: ledger.ErrVaultNotFound,
		},
	}

	for _, tt := range tests {
		tt.Run(context.Background(), t)
	}
}

// Withdrawn ptokens still count against the pool until they are burned.
func TestWithdrawnPtokensBlockClose(t *testing.T) {
	mu := withdrawnState(t, 10, 10)
	_, err := (&ClosePool{Pool: pool, NftMint: nftMint, Recipient: creator}).Execute(
		context.Background(), chaintest.NewRules(), mu, 0, creator, ids.Empty,
	)
	require.ErrorIs(t, err, ErrOutstandingProb)
}
