// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fortunevm/chain/chaintest"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/entropy"
	"github.com/ava-labs/fortunevm/genesis"
	"github.com/ava-labs/fortunevm/ledger"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"
)

const (
	testSwapFee   = 1
	testFeeScalar = 100
	testBurnCost  = 2

	testLamports = 1_000
	testPtokens  = 100
)

var (
	authority = codec.CreateAddress(consts.ActorID, ids.ID{1})
	creator   = codec.CreateAddress(consts.ActorID, ids.ID{2})
	alice     = codec.CreateAddress(consts.ActorID, ids.ID{3})
	bob       = codec.CreateAddress(consts.ActorID, ids.ID{4})

	nftMint    = genesis.AssetMint("painting")
	poolID     = ids.ID{9}
	pool       = storage.PoolAddress(poolID)
	ptokenMint = storage.PtokenMintAddress(pool)
)

func defaultInitialize() *Initialize {
	return &Initialize{
		SwapFee:        testSwapFee,
		BurnCost:       testBurnCost,
		FeeScalar:      testFeeScalar,
		LamportInitMin: 10,
		LamportInitMax: 1_000_000,
		PtokenInitMax:  1_000_000,
		PtokenInitMin:  10,
	}
}

// genesisState funds every test actor and gives [creator] the prize asset.
func genesisState(t *testing.T) *chaintest.InMemoryStore {
	g := genesis.NewDefaultGenesis([]*genesis.CustomAllocation{
		{Address: authority.String(), Balance: 1_000_000},
		{Address: creator.String(), Balance: 1_000_000},
		{Address: alice.String(), Balance: 1_000_000},
		{Address: bob.String(), Balance: 1_000_000},
	})
	g.Assets = []*genesis.AssetAllocation{{Name: "painting", Owner: creator.String()}}
	mu := chaintest.NewInMemoryStore()
	require.NoError(t, g.InitializeState(context.Background(), mu))
	return mu
}

func initializedState(t *testing.T) *chaintest.InMemoryStore {
	mu := genesisState(t)
	_, err := defaultInitialize().Execute(context.Background(), chaintest.NewRules(), mu, 0, authority, ids.Empty)
	require.NoError(t, err)
	return mu
}

// poolState returns a state with [pool] created by [creator] at
// (testPtokens, testLamports).
func poolState(t *testing.T) *chaintest.InMemoryStore {
	mu := initializedState(t)
	_, err := (&CreatePool{
		NftMint:       nftMint,
		LamportAmount: testLamports,
		PtokenAmount:  testPtokens,
	}).Execute(context.Background(), chaintest.NewRules(), mu, 0, creator, poolID)
	require.NoError(t, err)
	return mu
}

// boughtState is [poolState] after [alice] bought [amount] ptokens.
func boughtState(t *testing.T, amount uint64) *chaintest.InMemoryStore {
	mu := poolState(t)
	_, err := (&Buy{Pool: pool, Amount: amount}).Execute(context.Background(), chaintest.NewRules(), mu, 0, alice, ids.Empty)
	require.NoError(t, err)
	return mu
}

// stagedState is [boughtState] after [alice] staged [staged] of them.
func stagedState(t *testing.T, bought uint64, staged uint64) *chaintest.InMemoryStore {
	mu := boughtState(t, bought)
	_, err := (&RequestBurn{Pool: pool, Amount: staged}).Execute(context.Background(), chaintest.NewRules(), mu, 0, alice, ids.Empty)
	require.NoError(t, err)
	return mu
}

// setDraw makes the next entropy draw return [r].
func setDraw(t *testing.T, mu state.Mutable, r uint64) {
	var hash [entropy.HashLen]byte
	binary.LittleEndian.PutUint64(hash[:], r)
	s := entropy.SlotHashes{{Slot: 1, Hash: hash}}
	require.NoError(t, storage.SetSlotHashes(context.Background(), mu, s.Marshal()))
}

func balance(ctx context.Context, t *testing.T, mu state.Mutable, vault codec.Address) uint64 {
	bal, err := ledger.New(mu).Balance(ctx, vault)
	require.NoError(t, err)
	return bal
}

func lamports(ctx context.Context, t *testing.T, mu state.Mutable, owner codec.Address) uint64 {
	return balance(ctx, t, mu, storage.AccountVault(storage.LamportMint, owner))
}

func getTestPool(ctx context.Context, t *testing.T, mu state.Mutable) *storage.ProbPool {
	p, err := storage.GetPool(ctx, mu, pool)
	require.NoError(t, err)
	return p
}
