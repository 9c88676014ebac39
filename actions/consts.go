// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
)

// Encoded action sizes
const (
	InitializeSize   = 7 * consts.Uint64Len
	CreatePoolSize   = codec.AddressLen + 2*consts.Uint64Len
	BuySize          = codec.AddressLen + consts.Uint64Len
	RequestBurnSize  = codec.AddressLen + consts.Uint64Len
	ExecuteBurnSize  = 2*codec.AddressLen + consts.Uint64Len
	ClaimAssetSize   = 2 * codec.AddressLen
	ClosePoolSize    = 3 * codec.AddressLen
	UserWithdrawSize = codec.AddressLen + consts.Uint64Len
	UserDepositSize  = codec.AddressLen + consts.Uint64Len
)

// NftAmount is the quantity of the prize asset held by a pool.
const NftAmount = 1
