// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/ledger"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"
)

var _ chain.Action = (*Initialize)(nil)

// Initialize creates or updates the protocol configuration. The first actor
// to run it becomes the protocol authority. Later runs must come from that
// authority.
type Initialize struct {
	SwapFee   uint64 `json:"swapFee"`
	BurnCost  uint64 `json:"burnCost"`
	FeeScalar uint64 `json:"feeScalar"`

	LamportInitMin uint64 `json:"lamportInitMin"`
	LamportInitMax uint64 `json:"lamportInitMax"`
	PtokenInitMax  uint64 `json:"ptokenInitMax"`
	PtokenInitMin  uint64 `json:"ptokenInitMin"`
}

func (*Initialize) GetTypeID() uint8 {
	return consts.InitializeID
}

func (*Initialize) StateKeys(codec.Address, ids.ID) state.Keys {
	return state.Keys{
		string(storage.ProtocolKey()):                   state.All,
		string(storage.VaultKey(storage.ProtocolVault)): state.All,
	}
}

func (i *Initialize) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	ps, err := getProtocol(ctx, mu)
	switch {
	case err == nil:
		if ps.Authority != actor {
			return nil, ErrNotProtocolAuthority
		}
	case !errors.Is(err, ErrProtocolNotInitialized):
		return nil, err
	}
	if i.FeeScalar == 0 {
		return nil, ErrInvalidFeeScalar
	}
	if err := storage.SetProtocolState(ctx, mu, &storage.ProtocolState{
		Authority:      actor,
		SwapFee:        i.SwapFee,
		FeeScalar:      i.FeeScalar,
		BurnCost:       i.BurnCost,
		LamportInitMin: i.LamportInitMin,
		LamportInitMax: i.LamportInitMax,
		PtokenInitMin:  i.PtokenInitMin,
		PtokenInitMax:  i.PtokenInitMax,
	}); err != nil {
		return nil, err
	}
	return nil, ledger.New(mu).OpenVault(ctx, storage.ProtocolVault, storage.LamportMint, codec.EmptyAddress)
}

func (*Initialize) Size() int {
	return InitializeSize
}

func (i *Initialize) Marshal(p *codec.Packer) {
	p.PackUint64(i.SwapFee)
	p.PackUint64(i.BurnCost)
	p.PackUint64(i.FeeScalar)
	p.PackUint64(i.LamportInitMin)
	p.PackUint64(i.LamportInitMax)
	p.PackUint64(i.PtokenInitMax)
	p.PackUint64(i.PtokenInitMin)
}

func UnmarshalInitialize(p *codec.Packer) (chain.Action, error) {
	var i Initialize
	i.SwapFee = p.UnpackUint64(false)
	i.BurnCost = p.UnpackUint64(false)
	i.FeeScalar = p.UnpackUint64(false)
	i.LamportInitMin = p.UnpackUint64(false)
	i.LamportInitMax = p.UnpackUint64(false)
	i.PtokenInitMax = p.UnpackUint64(false)
	i.PtokenInitMin = p.UnpackUint64(false)
	return &i, p.Err()
}
