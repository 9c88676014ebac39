// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/storage"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

// NewJSONRPCClient returns a client for the node serving [uri].
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args interface{}, reply interface{}) error {
	return cli.requester.SendRequest(ctx, consts.Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", struct{}{}, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) Slot(ctx context.Context) (uint64, error) {
	resp := new(SlotReply)
	err := cli.send(ctx, "slot", struct{}{}, resp)
	return resp.Slot, err
}

// Nonce returns the nonce the next transaction of [actor] must carry.
func (cli *JSONRPCClient) Nonce(ctx context.Context, actor codec.Address) (uint64, error) {
	resp := new(NonceReply)
	err := cli.send(ctx, "nonce", &NonceArgs{Actor: actor}, resp)
	return resp.Nonce, err
}

// Protocol returns the protocol parameters and the fees collected so far.
func (cli *JSONRPCClient) Protocol(ctx context.Context) (*storage.ProtocolState, uint64, error) {
	resp := new(ProtocolReply)
	if err := cli.send(ctx, "protocol", struct{}{}, resp); err != nil {
		return nil, 0, err
	}
	return resp.Protocol, resp.Fees, nil
}

// Pool returns the state of [pool] and the lamports it holds.
func (cli *JSONRPCClient) Pool(ctx context.Context, pool codec.Address) (*storage.ProbPool, uint64, error) {
	resp := new(PoolReply)
	if err := cli.send(ctx, "pool", &PoolArgs{Pool: pool}, resp); err != nil {
		return nil, 0, err
	}
	return resp.Pool, resp.Lamports, nil
}

func (cli *JSONRPCClient) Balance(ctx context.Context, mint codec.Address, owner codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "balance", &BalanceArgs{Mint: mint, Owner: owner}, resp)
	return resp.Amount, err
}

// Ptokens returns the ptokens [user] holds in [pool] and how many of them
// are staged for burning.
func (cli *JSONRPCClient) Ptokens(ctx context.Context, pool codec.Address, user codec.Address) (uint64, uint64, error) {
	resp := new(PtokenReply)
	err := cli.send(ctx, "ptokens", &PtokenArgs{Pool: pool, User: user}, resp)
	return resp.Held, resp.Staged, err
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, tx *chain.Transaction) (*SubmitReply, error) {
	resp := new(SubmitReply)
	err := cli.send(ctx, "submitTx", &SubmitTxArgs{Tx: tx.Bytes()}, resp)
	return resp, err
}

// SubmitAction signs [action] with [factory] using the next nonce of its
// address and submits it.
func (cli *JSONRPCClient) SubmitAction(ctx context.Context, factory chain.AuthFactory, action chain.Action) (*SubmitReply, error) {
	nonce, err := cli.Nonce(ctx, factory.Address())
	if err != nil {
		return nil, err
	}
	tx, err := chain.NewTransaction(nonce, action).Sign(factory)
	if err != nil {
		return nil, err
	}
	return cli.SubmitTx(ctx, tx)
}
