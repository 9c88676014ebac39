// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrMissingAction  = errors.New("missing action")
	ErrMissingAuth    = errors.New("missing auth")
	ErrInvalidNonce   = errors.New("invalid nonce")
	ErrEmptyBatch     = errors.New("empty batch")
	ErrBatchTooLarge  = errors.New("batch too large")
	ErrDuplicateTx    = errors.New("duplicate transaction")
	ErrInvalidKeyRead = errors.New("state key has invalid value")
)
