// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lottery

import (
	"errors"
	"fmt"
)

var (
	ErrZeroSupply          = errors.New("ptoken supply is zero")
	ErrZeroAmount          = errors.New("burn amount must be positive")
	ErrAmountExceedsSupply = errors.New("burn amount exceeds ptoken supply")
)

// Outcome describes a single burn draw.
type Outcome struct {
	// Sample is the entropy value reduced into [0, supply).
	Sample uint64
	// Threshold is the smallest winning sample.
	Threshold uint64
	Won       bool
}

// Draw resolves a burn of [amount] against [supply] using the raw entropy
// value [r]. The burn wins when the sample lands in the top [amount] values of
// [0, supply), so P(win) = amount / supply.
func Draw(r uint64, supply uint64, amount uint64) (Outcome, error) {
	switch {
	case supply == 0:
		return Outcome{}, ErrZeroSupply
	case amount == 0:
		return Outcome{}, ErrZeroAmount
	case amount > supply:
		return Outcome{}, fmt.Errorf("%w: supply=%d amount=%d", ErrAmountExceedsSupply, supply, amount)
	}
	sample := r % supply
	threshold := supply - amount
	return Outcome{
		Sample:    sample,
		Threshold: threshold,
		Won:       sample >= threshold,
	}, nil
}
