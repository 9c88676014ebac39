// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fortunevm/chain/chaintest"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/ledger"
	"github.com/ava-labs/fortunevm/pricing"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

func TestBuyAction(t *testing.T) {
	claimed := poolState(t)
	p := getTestPool(context.Background(), t, claimed)
	p.Claimed = true
	require.NoError(t, storage.SetPool(context.Background(), claimed, pool, p))

	soldOut := poolState(t)
	p = getTestPool(context.Background(), t, soldOut)
	p.PtokenSupply = 1
	require.NoError(t, storage.SetPool(context.Background(), soldOut, pool, p))

	broke := codec.CreateAddress(consts.ActorID, ids.ID{77})

	tests := []chaintest.ActionTest{
		{
			Name:            "CurveAndFee",
			Action:          &Buy{Pool: pool, Amount: 10},
			State:           poolState(t),
			Actor:           alice,
			ExpectedOutputs: [][]byte{(&BuyResult{Cost: 111, Fee: 1}).Bytes()},
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				require := require.New(t)
				p := getTestPool(ctx, t, mu)
				require.Equal(uint64(90), p.PtokenSupply)
				require.Equal(uint64(1_111), p.LamportSupply)
				require.Equal(uint64(10), p.OutstandingPtokens)

				require.Equal(uint64(1_000_000-112), lamports(ctx, t, mu, alice))
				require.Equal(uint64(111), balance(ctx, t, mu, p.LamportVault))
				require.Equal(uint64(1), balance(ctx, t, mu, storage.ProtocolVault))
				require.Equal(uint64(90), balance(ctx, t, mu, p.PtokenVault))
				require.Equal(uint64(10), balance(ctx, t, mu, storage.UserVault(ptokenMint, alice)))
			},
		},
		{
			Name:        "ZeroAmount",
			Action:      &Buy{Pool: pool},
			State:       poolState(t),
			Actor:       alice,
			ExpectedErr: ErrZeroAmount,
		},
		{
			Name:        "WholeSupply",
			Action:      &Buy{Pool: pool, Amount: testPtokens},
			State:       poolState(t),
			Actor:       alice,
			ExpectedErr: pricing.ErrInsufficientSupply,
		},
		{
			Name:        "SoldOut",
			Action:      &Buy{Pool: pool, Amount: 1},
			State:       soldOut,
			Actor:       alice,
			ExpectedErr: ErrSoldOut,
		},
		{
			Name:        "Claimed",
			Action:      &Buy{Pool: pool, Amount: 1},
			State:       claimed,
			Actor:       alice,
			ExpectedErr: ErrPoolClosed,
		},
		{
			Name:        "UnknownPool",
			Action:      &Buy{Pool: storage.PoolAddress(ids.ID{42}), Amount: 1},
			State:       poolState(t),
			Actor:       alice,
			ExpectedErr: ErrPoolNotFound,
		},
		{
			Name:        "NoFunds",
			Action:      &Buy{Pool: pool, Amount: 1},
			State:       poolState(t),
			Actor:       broke,
			ExpectedErr: ledger.ErrVaultNotFound,
		},
	}

	for _, tt := range tests {
		tt.Run(context.Background(), t)
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	poor := codec.CreateAddress(consts.ActorID, ids.ID{78})

	mu := poolState(t)
	require.NoError(fund(ctx, mu, poor, 111))

	// Cost is covered but the fee is not.
	_, err := (&Buy{Pool: pool, Amount: 10}).Execute(ctx, chaintest.NewRules(), mu, 0, poor, ids.Empty)
	require.ErrorIs(err, ledger.ErrInsufficientBalance)
}

func fund(ctx context.Context, mu state.Mutable, owner codec.Address, amount uint64) error {
	l := ledger.New(mu)
	vault := storage.AccountVault(storage.LamportMint, owner)
	if err := l.OpenVault(ctx, vault, storage.LamportMint, owner); err != nil {
		return err
	}
	return l.MintTo(ctx, codec.EmptyAddress, vault, amount)
}

func TestBuySequenceAccounting(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := poolState(t)
	r := chaintest.NewRules()

	var bought uint64
	for _, amount := range []uint64{1, 5, 20, 3, 40, 20} {
		before := getTestPool(ctx, t, mu)
		_, err := (&Buy{Pool: pool, Amount: amount}).Execute(ctx, r, mu, 0, alice, ids.Empty)
		require.NoError(err)
		after := getTestPool(ctx, t, mu)
		bought += amount

		require.Equal(before.OutstandingPtokens+amount, after.OutstandingPtokens)
		require.Equal(before.PtokenSupply-amount, after.PtokenSupply)
		k, err := smath.Mul(before.PtokenSupply, before.LamportSupply)
		require.NoError(err)
		require.LessOrEqual(after.PtokenSupply*after.LamportSupply, k)
		require.Greater(after.PtokenSupply*(after.LamportSupply+1), k)
		require.Equal(after.LamportSupply-testLamports, balance(ctx, t, mu, after.LamportVault))
	}
	require.Equal(bought, balance(ctx, t, mu, storage.UserVault(ptokenMint, alice)))
	require.Equal(uint64(testPtokens)-bought, balance(ctx, t, mu, getTestPool(ctx, t, mu).PtokenVault))

	// 11 ptokens are left; buying all of them is impossible.
	_, err := (&Buy{Pool: pool, Amount: 11}).Execute(ctx, r, mu, 0, alice, ids.Empty)
	require.ErrorIs(err, pricing.ErrInsufficientSupply)
}
