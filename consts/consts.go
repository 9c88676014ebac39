// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/version"
)

const (
	IDLen     = 32
	ByteLen   = 1
	BoolLen   = 1
	Uint16Len = 2
	Uint64Len = 8
	MaxUint16 = ^uint16(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)
	MaxUint64 = ^uint64(0)
)

const Name = "fortunevm"

// Action TypeIDs
const (
	InitializeID uint8 = iota
	CreatePoolID
	BuyID
	RequestBurnID
	ExecuteBurnID
	ClaimAssetID
	ClosePoolID
	UserWithdrawID
	UserDepositID
)

// Auth TypeIDs
const (
	ED25519ID uint8 = 0
)

// Address TypeIDs
const (
	ActorID uint8 = iota
	PoolID
	MintID
	VaultID
)

var (
	ID ids.ID

	Version = &version.Semantic{
		Major: 0,
		Minor: 1,
		Patch: 0,
	}
)

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
}
