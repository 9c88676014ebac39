// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	ErrSoldOut            = errors.New("pool sold out")
	ErrZeroAmount         = errors.New("amount must be positive")
	ErrInsufficientSupply = errors.New("amount exceeds ptoken supply")
	ErrInvalidFeeScalar   = errors.New("fee scalar must be positive")
)
