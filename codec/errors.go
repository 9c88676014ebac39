// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrFieldNotPopulated  = errors.New("field is not populated")
	ErrInsufficientLength = errors.New("insufficient length")
	ErrInvalidSize        = errors.New("invalid size")
	ErrTrailingBytes      = errors.New("trailing bytes")
	ErrDuplicateItem      = errors.New("duplicate item")
	ErrUnknownItem        = errors.New("unknown item")
)
