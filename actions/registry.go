// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
)

// Action names used by plans and logs.
const (
	InitializeName   = "initialize"
	CreatePoolName   = "create_pool"
	BuyName          = "buy"
	RequestBurnName  = "request_burn"
	ExecuteBurnName  = "execute_burn"
	ClaimAssetName   = "claim_asset"
	ClosePoolName    = "close_pool"
	UserWithdrawName = "user_withdraw"
	UserDepositName  = "user_deposit"
)

// NewParser returns a parser that knows every FortuneVM action.
func NewParser() (*codec.TypeParser[chain.Action], error) {
	p := codec.NewTypeParser[chain.Action]()
	errs := wrappers.Errs{}
	errs.Add(
		p.Register(consts.InitializeID, InitializeName, UnmarshalInitialize),
		p.Register(consts.CreatePoolID, CreatePoolName, UnmarshalCreatePool),
		p.Register(consts.BuyID, BuyName, UnmarshalBuy),
		p.Register(consts.RequestBurnID, RequestBurnName, UnmarshalRequestBurn),
		p.Register(consts.ExecuteBurnID, ExecuteBurnName, UnmarshalExecuteBurn),
		p.Register(consts.ClaimAssetID, ClaimAssetName, UnmarshalClaimAsset),
		p.Register(consts.ClosePoolID, ClosePoolName, UnmarshalClosePool),
		p.Register(consts.UserWithdrawID, UserWithdrawName, UnmarshalUserWithdraw),
		p.Register(consts.UserDepositID, UserDepositName, UnmarshalUserDeposit),
	)
	return p, errs.Err
}

// New returns an empty action registered under [name], ready to be filled
// from JSON.
func New(name string) (chain.Action, bool) {
	switch name {
	case InitializeName:
		return &Initialize{}, true
	case CreatePoolName:
		return &CreatePool{}, true
	case BuyName:
		return &Buy{}, true
	case RequestBurnName:
		return &RequestBurn{}, true
	case ExecuteBurnName:
		return &ExecuteBurn{}, true
	case ClaimAssetName:
		return &ClaimAsset{}, true
	case ClosePoolName:
		return &ClosePool{}, true
	case UserWithdrawName:
		return &UserWithdraw{}, true
	case UserDepositName:
		return &UserDeposit{}, true
	default:
		return nil, false
	}
}
