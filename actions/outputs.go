// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
)

const (
	createPoolResultSize  = 2 * codec.AddressLen
	buyResultSize         = 2 * consts.Uint64Len
	executeBurnResultSize = consts.BoolLen + 2*consts.Uint64Len
	closePoolResultSize   = 2 * consts.Uint64Len
)

type CreatePoolResult struct {
	Pool       codec.Address `json:"pool"`
	PtokenMint codec.Address `json:"ptokenMint"`
}

func (r *CreatePoolResult) Bytes() []byte {
	p := codec.NewWriter(createPoolResultSize, createPoolResultSize)
	p.PackAddress(r.Pool)
	p.PackAddress(r.PtokenMint)
	return p.Bytes()
}

func UnmarshalCreatePoolResult(b []byte) (*CreatePoolResult, error) {
	p := codec.NewReader(b, createPoolResultSize)
	var r CreatePoolResult
	p.UnpackAddress(true, &r.Pool)
	p.UnpackAddress(true, &r.PtokenMint)
	return &r, p.Finish()
}

// BuyResult is what the buyer paid. Cost went to the pool and Fee to the
// protocol.
type BuyResult struct {
	Cost uint64 `json:"cost"`
	Fee  uint64 `json:"fee"`
}

func (r *BuyResult) Bytes() []byte {
	p := codec.NewWriter(buyResultSize, buyResultSize)
	p.PackUint64(r.Cost)
	p.PackUint64(r.Fee)
	return p.Bytes()
}

func UnmarshalBuyResult(b []byte) (*BuyResult, error) {
	p := codec.NewReader(b, buyResultSize)
	var r BuyResult
	r.Cost = p.UnpackUint64(false)
	r.Fee = p.UnpackUint64(false)
	return &r, p.Finish()
}

type ExecuteBurnResult struct {
	Won       bool   `json:"won"`
	Sample    uint64 `json:"sample"`
	Threshold uint64 `json:"threshold"`
}

func (r *ExecuteBurnResult) Bytes() []byte {
	p := codec.NewWriter(executeBurnResultSize, executeBurnResultSize)
	p.PackBool(r.Won)
	p.PackUint64(r.Sample)
	p.PackUint64(r.Threshold)
	return p.Bytes()
}

func UnmarshalExecuteBurnResult(b []byte) (*ExecuteBurnResult, error) {
	p := codec.NewReader(b, executeBurnResultSize)
	var r ExecuteBurnResult
	r.Won = p.UnpackBool()
	r.Sample = p.UnpackUint64(false)
	r.Threshold = p.UnpackUint64(false)
	return &r, p.Finish()
}

type ClosePoolResult struct {
	// Lamports drained to the recipient
	Lamports uint64 `json:"lamports"`
	// Unsold ptokens destroyed
	Burned uint64 `json:"burned"`
}

func (r *ClosePoolResult) Bytes() []byte {
	p := codec.NewWriter(closePoolResultSize, closePoolResultSize)
	p.PackUint64(r.Lamports)
	p.PackUint64(r.Burned)
	return p.Bytes()
}

func UnmarshalClosePoolResult(b []byte) (*ClosePoolResult, error) {
	p := codec.NewReader(b, closePoolResultSize)
	var r ClosePoolResult
	r.Lamports = p.UnpackUint64(false)
	r.Burned = p.UnpackUint64(false)
	return &r, p.Finish()
}
