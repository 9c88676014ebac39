// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// ConstantProduct prices ptokens against lamports on the curve P * L = k.
type ConstantProduct struct {
	ptokenSupply  uint64
	lamportSupply uint64
}

func NewConstantProduct(ptokenSupply uint64, lamportSupply uint64) *ConstantProduct {
	return &ConstantProduct{
		ptokenSupply:  ptokenSupply,
		lamportSupply: lamportSupply,
	}
}

// Quote is the outcome of a buy. Cost goes to the pool reserve and Fee goes
// to the protocol on top of it.
type Quote struct {
	PtokenSupply  uint64
	LamportSupply uint64
	Cost          uint64
	Fee           uint64
}

// Buy removes [amount] ptokens from the curve. The new lamport reserve is
// k / P' truncated, so P' * L' may fall short of k by less than P'.
func (c *ConstantProduct) Buy(amount uint64, swapFee uint64, feeScalar uint64) (*Quote, error) {
	if feeScalar == 0 {
		return nil, ErrInvalidFeeScalar
	}
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	if c.ptokenSupply <= 1 {
		return nil, ErrSoldOut
	}
	if amount >= c.ptokenSupply {
		return nil, fmt.Errorf("%w: supply=%d amount=%d", ErrInsufficientSupply, c.ptokenSupply, amount)
	}

	k, err := smath.Mul(c.ptokenSupply, c.lamportSupply)
	if err != nil {
		return nil, err
	}
	ptokenSupply := c.ptokenSupply - amount
	lamportSupply := k / ptokenSupply
	cost, err := smath.Sub(lamportSupply, c.lamportSupply)
	if err != nil {
		return nil, err
	}
	fee, err := smath.Mul(cost, swapFee)
	if err != nil {
		return nil, err
	}
	fee /= feeScalar

	c.ptokenSupply = ptokenSupply
	c.lamportSupply = lamportSupply
	return &Quote{
		PtokenSupply:  ptokenSupply,
		LamportSupply: lamportSupply,
		Cost:          cost,
		Fee:           fee,
	}, nil
}

func (c *ConstantProduct) Reserves() (uint64, uint64) {
	return c.ptokenSupply, c.lamportSupply
}
