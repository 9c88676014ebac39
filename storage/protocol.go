// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/state"
)

const protocolStateSize = codec.AddressLen + 7*consts.Uint64Len

// ProtocolState is the process-wide configuration set by [actions.Initialize].
type ProtocolState struct {
	Authority codec.Address `json:"authority"`

	// fee = cost * SwapFee / FeeScalar
	SwapFee   uint64 `json:"swapFee"`
	FeeScalar uint64 `json:"feeScalar"`
	// BurnCost is the flat fee charged on every burn request.
	BurnCost uint64 `json:"burnCost"`

	// Pool creation bounds, min inclusive and max exclusive.
	LamportInitMin uint64 `json:"lamportInitMin"`
	LamportInitMax uint64 `json:"lamportInitMax"`
	PtokenInitMin  uint64 `json:"ptokenInitMin"`
	PtokenInitMax  uint64 `json:"ptokenInitMax"`
}

func (p *ProtocolState) Marshal() []byte {
	w := codec.NewWriter(protocolStateSize, protocolStateSize)
	w.PackAddress(p.Authority)
	w.PackUint64(p.SwapFee)
	w.PackUint64(p.FeeScalar)
	w.PackUint64(p.BurnCost)
	w.PackUint64(p.LamportInitMin)
	w.PackUint64(p.LamportInitMax)
	w.PackUint64(p.PtokenInitMin)
	w.PackUint64(p.PtokenInitMax)
	return w.Bytes()
}

func UnmarshalProtocolState(b []byte) (*ProtocolState, error) {
	r := codec.NewReader(b, protocolStateSize)
	var p ProtocolState
	r.UnpackAddress(true, &p.Authority)
	p.SwapFee = r.UnpackUint64(false)
	p.FeeScalar = r.UnpackUint64(true)
	p.BurnCost = r.UnpackUint64(false)
	p.LamportInitMin = r.UnpackUint64(false)
	p.LamportInitMax = r.UnpackUint64(false)
	p.PtokenInitMin = r.UnpackUint64(false)
	p.PtokenInitMax = r.UnpackUint64(false)
	return &p, r.Finish()
}

func GetProtocolState(ctx context.Context, im state.Immutable) (*ProtocolState, error) {
	v, err := im.GetValue(ctx, ProtocolKey())
	if err != nil {
		return nil, err
	}
	return UnmarshalProtocolState(v)
}

func SetProtocolState(ctx context.Context, mu state.Mutable, p *ProtocolState) error {
	return mu.Insert(ctx, ProtocolKey(), p.Marshal())
}
