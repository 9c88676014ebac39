// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/fortunevm/api"
	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/storage"
)

const Endpoint = "/coreapi"

type VM interface {
	Logger() logging.Logger
	Tracer() trace.Tracer

	Slot() uint64
	Nonce(ctx context.Context, actor codec.Address) (uint64, error)

	GetProtocol(ctx context.Context) (*storage.ProtocolState, error)
	GetPool(ctx context.Context, pool codec.Address) (*storage.ProbPool, error)
	Balance(ctx context.Context, vault codec.Address) (uint64, error)
	AccountBalance(ctx context.Context, mint codec.Address, owner codec.Address) (uint64, error)
	PtokenBalance(ctx context.Context, pool codec.Address, user codec.Address) (uint64, error)
	BurnStaged(ctx context.Context, pool codec.Address, user codec.Address) (uint64, error)
	ProtocolFees(ctx context.Context) (uint64, error)

	SubmitBytes(ctx context.Context, b []byte) (*chain.Result, error)
}

// NewHandler serves [vm] at [Endpoint].
func NewHandler(vm VM) (api.Handler, error) {
	handler, err := api.NewJSONRPCHandler(consts.Name, NewJSONRPCServer(vm))
	if err != nil {
		return api.Handler{}, err
	}
	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

type JSONRPCServer struct {
	vm VM
}

func NewJSONRPCServer(vm VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

type SlotReply struct {
	Slot uint64 `json:"slot"`
}

func (j *JSONRPCServer) Slot(_ *http.Request, _ *struct{}, reply *SlotReply) error {
	reply.Slot = j.vm.Slot()
	return nil
}

type NonceArgs struct {
	Actor codec.Address `json:"actor"`
}

type NonceReply struct {
	Nonce uint64 `json:"nonce"`
}

func (j *JSONRPCServer) Nonce(req *http.Request, args *NonceArgs, reply *NonceReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Nonce")
	defer span.End()

	nonce, err := j.vm.Nonce(ctx, args.Actor)
	if err != nil {
		return err
	}
	reply.Nonce = nonce
	return nil
}

type ProtocolReply struct {
	Protocol *storage.ProtocolState `json:"protocol"`
	Fees     uint64                 `json:"fees"`
}

func (j *JSONRPCServer) Protocol(req *http.Request, _ *struct{}, reply *ProtocolReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Protocol")
	defer span.End()

	protocol, err := j.vm.GetProtocol(ctx)
	if err != nil {
		return err
	}
	fees, err := j.vm.ProtocolFees(ctx)
	if err != nil {
		return err
	}
	reply.Protocol = protocol
	reply.Fees = fees
	return nil
}

type PoolArgs struct {
	Pool codec.Address `json:"pool"`
}

type PoolReply struct {
	Pool *storage.ProbPool `json:"pool"`
	// Lamports held by the pool vault.
	Lamports uint64 `json:"lamports"`
}

func (j *JSONRPCServer) Pool(req *http.Request, args *PoolArgs, reply *PoolReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Pool")
	defer span.End()

	pool, err := j.vm.GetPool(ctx, args.Pool)
	if err != nil {
		return err
	}
	lamports, err := j.vm.Balance(ctx, pool.LamportVault)
	if err != nil {
		return err
	}
	reply.Pool = pool
	reply.Lamports = lamports
	return nil
}

type BalanceArgs struct {
	// Mint defaults to lamports.
	Mint  codec.Address `json:"mint"`
	Owner codec.Address `json:"owner"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	mint := args.Mint
	if mint == codec.EmptyAddress {
		mint = storage.LamportMint
	}
	amount, err := j.vm.AccountBalance(ctx, mint, args.Owner)
	if err != nil {
		return err
	}
	reply.Amount = amount
	return nil
}

type PtokenArgs struct {
	Pool codec.Address `json:"pool"`
	User codec.Address `json:"user"`
}

type PtokenReply struct {
	Held   uint64 `json:"held"`
	Staged uint64 `json:"staged"`
}

func (j *JSONRPCServer) Ptokens(req *http.Request, args *PtokenArgs, reply *PtokenReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Ptokens")
	defer span.End()

	held, err := j.vm.PtokenBalance(ctx, args.Pool, args.User)
	if err != nil {
		return err
	}
	staged, err := j.vm.BurnStaged(ctx, args.Pool, args.User)
	if err != nil {
		return err
	}
	reply.Held = held
	reply.Staged = staged
	return nil
}

// SubmitTxArgs carries a signed transaction. The action runs as the
// address of its signer.
type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

// SubmitReply carries the outcome of an action. A rejected action is not
// an RPC error: Success is false and Error holds the reason.
type SubmitReply struct {
	TxID    ids.ID   `json:"txId"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Outputs [][]byte `json:"outputs"`
}

func (r *SubmitReply) set(result *chain.Result) {
	r.TxID = result.TxID
	r.Success = result.Success
	r.Outputs = result.Outputs
	if result.Err != nil {
		r.Error = result.Err.Error()
	}
}

func (j *JSONRPCServer) SubmitTx(req *http.Request, args *SubmitTxArgs, reply *SubmitReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	result, err := j.vm.SubmitBytes(ctx, args.Tx)
	if err != nil {
		return err
	}
	reply.set(result)
	return nil
}
