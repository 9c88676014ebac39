// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fortunevm/actions"
	"github.com/ava-labs/fortunevm/auth"
	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/config"
	"github.com/ava-labs/fortunevm/crypto/ed25519"
	"github.com/ava-labs/fortunevm/genesis"
	"github.com/ava-labs/fortunevm/storage"
	"github.com/ava-labs/fortunevm/vm"
)

var (
	authorityKey = testKey(1)
	creatorKey   = testKey(2)
	aliceKey     = testKey(3)

	authority = authorityKey.Address()
	creator   = creatorKey.Address()
	alice     = aliceKey.Address()

	painting = genesis.AssetMint("painting")
)

func testKey(seed byte) *auth.ED25519Factory {
	return auth.NewED25519Factory(ed25519.PrivateKeyFromSeed([ed25519.PrivateKeySeedLen]byte{seed}))
}

func newTestClient(t *testing.T) (*JSONRPCClient, *vm.VM) {
	require := require.New(t)

	g := genesis.NewDefaultGenesis([]*genesis.CustomAllocation{
		{Address: authority.String(), Balance: 1_000_000},
		{Address: creator.String(), Balance: 1_000_000},
		{Address: alice.String(), Balance: 1_000_000},
	})
	g.Assets = []*genesis.AssetAllocation{{Name: "painting", Owner: creator.String()}}
	b, err := json.Marshal(g)
	require.NoError(err)

	v, err := vm.New(context.Background(), logging.NoLog{}, config.NewConfig(), b)
	require.NoError(err)
	t.Cleanup(func() {
		require.NoError(v.Close())
	})

	handler, err := NewHandler(v)
	require.NoError(err)
	mux := http.NewServeMux()
	mux.Handle(handler.Path, handler.Handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewJSONRPCClient(server.URL), v
}

func submitAction(t *testing.T, cli *JSONRPCClient, key chain.AuthFactory, action chain.Action) *SubmitReply {
	reply, err := cli.SubmitAction(context.Background(), key, action)
	require.NoError(t, err)
	require.True(t, reply.Success, reply.Error)
	return reply
}

func defaultInitialize() *actions.Initialize {
	return &actions.Initialize{
		SwapFee:        1,
		BurnCost:       2,
		FeeScalar:      100,
		LamportInitMin: 10,
		LamportInitMax: 1_000_000,
		PtokenInitMax:  1_000_000,
		PtokenInitMin:  10,
	}
}

func TestPing(t *testing.T) {
	require := require.New(t)
	cli, _ := newTestClient(t)

	ok, err := cli.Ping(context.Background())
	require.NoError(err)
	require.True(ok)
}

func TestSlots(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli, v := newTestClient(t)

	slot, err := cli.Slot(ctx)
	require.NoError(err)

	next, err := v.AdvanceSlot(ctx)
	require.NoError(err)
	require.Equal(slot+1, next)
	slot, err = cli.Slot(ctx)
	require.NoError(err)
	require.Equal(next, slot)
}

func TestPoolOverRPC(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli, _ := newTestClient(t)

	submitAction(t, cli, authorityKey, defaultInitialize())
	reply := submitAction(t, cli, creatorKey, &actions.CreatePool{
		NftMint:       painting,
		LamportAmount: 1_000,
		PtokenAmount:  100,
	})
	decoded, err := actions.DecodeOutputs(actions.CreatePoolName, reply.Outputs)
	require.NoError(err)
	pool := decoded.(*actions.CreatePoolResult).Pool

	reply = submitAction(t, cli, aliceKey, &actions.Buy{Pool: pool, Amount: 75})
	decoded, err = actions.DecodeOutputs(actions.BuyName, reply.Outputs)
	require.NoError(err)
	require.Equal(&actions.BuyResult{Cost: 3_000, Fee: 30}, decoded)

	submitAction(t, cli, aliceKey, &actions.RequestBurn{Pool: pool, Amount: 5})

	p, lamports, err := cli.Pool(ctx, pool)
	require.NoError(err)
	require.Equal(uint64(25), p.PtokenSupply)
	require.Equal(uint64(75), p.OutstandingPtokens)
	require.Equal(uint64(3_000), lamports)

	held, staged, err := cli.Ptokens(ctx, pool, alice)
	require.NoError(err)
	require.Equal(uint64(70), held)
	require.Equal(uint64(5), staged)

	balance, err := cli.Balance(ctx, codec.EmptyAddress, alice)
	require.NoError(err)
	require.Equal(uint64(1_000_000-3_030-2), balance)

	balance, err = cli.Balance(ctx, painting, creator)
	require.NoError(err)
	require.Zero(balance)

	protocol, fees, err := cli.Protocol(ctx)
	require.NoError(err)
	require.Equal(authority, protocol.Authority)
	require.Equal(uint64(32), fees)

	nonce, err := cli.Nonce(ctx, alice)
	require.NoError(err)
	require.Equal(uint64(2), nonce)
}

func TestRejectedAction(t *testing.T) {
	require := require.New(t)
	cli, _ := newTestClient(t)

	reply, err := cli.SubmitAction(context.Background(), aliceKey, &actions.Buy{
		Pool:   storage.PoolAddress(ids.ID{9}),
		Amount: 1,
	})
	require.NoError(err)
	require.False(reply.Success)
	require.NotEmpty(reply.Error)
}

func TestSubmitTx(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli, _ := newTestClient(t)

	tx, err := chain.NewTransaction(0, defaultInitialize()).Sign(authorityKey)
	require.NoError(err)
	reply, err := cli.SubmitTx(ctx, tx)
	require.NoError(err)
	require.True(reply.Success, reply.Error)
	require.Equal(tx.ID(), reply.TxID)

	// The same signed transaction cannot be replayed.
	reply, err = cli.SubmitTx(ctx, tx)
	require.NoError(err)
	require.False(reply.Success)
	require.Contains(reply.Error, chain.ErrInvalidNonce.Error())
}

func TestSubmitTxRequiresSigner(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli, v := newTestClient(t)
	submitAction(t, cli, authorityKey, defaultInitialize())

	// alice signs a re-initialization but presents the authority's key.
	nonce, err := cli.Nonce(ctx, authority)
	require.NoError(err)
	reinit := defaultInitialize()
	reinit.SwapFee = 99
	signed, err := chain.NewTransaction(nonce, reinit).Sign(aliceKey)
	require.NoError(err)
	authorityAuth, err := authorityKey.Sign(nil)
	require.NoError(err)
	forged := &chain.Transaction{
		Nonce:  nonce,
		Action: reinit,
		Auth: &auth.ED25519{
			Signer:    authorityAuth.(*auth.ED25519).Signer,
			Signature: signed.Auth.(*auth.ED25519).Signature,
		},
	}
	_, err = cli.SubmitTx(ctx, forged)
	require.ErrorContains(err, auth.ErrInvalidSignature.Error())

	// An unsigned transaction has no actor to run as.
	_, err = cli.SubmitTx(ctx, chain.NewTransaction(nonce, reinit))
	require.Error(err)

	ps, err := v.GetProtocol(ctx)
	require.NoError(err)
	require.Equal(uint64(1), ps.SwapFee)
}

func TestSubmitTxMalformed(t *testing.T) {
	cli, _ := newTestClient(t)

	resp := new(SubmitReply)
	err := cli.send(context.Background(), "submitTx", &SubmitTxArgs{Tx: []byte{1, 2, 3}}, resp)
	require.Error(t, err)
}
