// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrEmptySigner      = errors.New("empty signer")
)
