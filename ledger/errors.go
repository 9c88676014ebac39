// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "errors"

var (
	ErrMintExists          = errors.New("mint already exists")
	ErrMintNotFound        = errors.New("mint not found")
	ErrNotMintAuthority    = errors.New("not mint authority")
	ErrVaultNotFound       = errors.New("vault not found")
	ErrVaultNotEmpty       = errors.New("vault not empty")
	ErrMintMismatch        = errors.New("vault mint mismatch")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
