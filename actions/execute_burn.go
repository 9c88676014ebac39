// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/entropy"
	"github.com/ava-labs/fortunevm/ledger"
	"github.com/ava-labs/fortunevm/lottery"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ chain.Action = (*ExecuteBurn)(nil)

// ExecuteBurn destroys [Amount] ptokens staged by [User] and draws for the
// prize. The tokens are gone whether the draw wins or not.
//
// Under [chain.BurnPermissioned] only the protocol authority may submit it.
// Under [chain.BurnSelf] only [User] may.
type ExecuteBurn struct {
	Pool   codec.Address `json:"pool"`
	User   codec.Address `json:"user"`
	Amount uint64        `json:"amount"`
}

func (*ExecuteBurn) GetTypeID() uint8 {
	return consts.ExecuteBurnID
}

func (e *ExecuteBurn) StateKeys(codec.Address, ids.ID) state.Keys {
	ptokenMint := storage.PtokenMintAddress(e.Pool)
	return state.Keys{
		string(storage.ProtocolKey()):                                   state.Read,
		string(storage.PoolKey(e.Pool)):                                 state.Write,
		string(storage.MintKey(ptokenMint)):                             state.Write,
		string(storage.VaultKey(storage.BurnVault(ptokenMint, e.User))): state.Write,
		string(storage.SlotHashesKey()):                                 state.Read,
	}
}

func (e *ExecuteBurn) Execute(
	ctx context.Context,
	rules chain.Rules,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
	_ ids.ID,
) ([][]byte, error) {
	ps, err := getProtocol(ctx, mu)
	if err != nil {
		return nil, err
	}
	switch rules.GetBurnAuthorization() {
	case chain.BurnSelf:
		if actor != e.User {
			return nil, ErrNotBurnAuthority
		}
	default:
		if actor != ps.Authority {
			return nil, ErrNotBurnAuthority
		}
	}
	if e.Amount == 0 {
		return nil, ErrZeroAmount
	}
	p, err := getPool(ctx, mu, e.Pool)
	if err != nil {
		return nil, err
	}
	if err := checkBurnsOpen(rules, p); err != nil {
		return nil, err
	}
	outstanding, err := smath.Sub(p.OutstandingPtokens, e.Amount)
	if err != nil {
		return nil, err
	}
	if err := ledger.New(mu).Burn(ctx, storage.BurnVault(p.PtokenMint, e.User), e.Amount); err != nil {
		return nil, err
	}

	// No prize remains once claimed, so the burn only retires tokens.
	result := &ExecuteBurnResult{}
	if !p.Claimed {
		r, err := entropy.Read(ctx, mu)
		if err != nil {
			return nil, err
		}
		outcome, err := lottery.Draw(r, p.PtokenSupply, e.Amount)
		if err != nil {
			return nil, err
		}
		if outcome.Won {
			p.NftAuthority = e.User
			p.ToClaim = true
		}
		result.Won = outcome.Won
		result.Sample = outcome.Sample
		result.Threshold = outcome.Threshold
	}
	p.OutstandingPtokens = outstanding
	if err := storage.SetPool(ctx, mu, e.Pool, p); err != nil {
		return nil, err
	}
	return [][]byte{result.Bytes()}, nil
}

func (*ExecuteBurn) Size() int {
	return ExecuteBurnSize
}

func (e *ExecuteBurn) Marshal(p *codec.Packer) {
	p.PackAddress(e.Pool)
	p.PackAddress(e.User)
	p.PackUint64(e.Amount)
}

func UnmarshalExecuteBurn(p *codec.Packer) (chain.Action, error) {
	var e ExecuteBurn
	p.UnpackAddress(true, &e.Pool)
	p.UnpackAddress(true, &e.User)
	e.Amount = p.UnpackUint64(false)
	return &e, p.Err()
}
