// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
)

const ED25519Name = "ed25519"

// NewParser returns a parser that knows every supported [chain.Auth].
func NewParser() (*codec.TypeParser[chain.Auth], error) {
	p := codec.NewTypeParser[chain.Auth]()
	return p, p.Register(consts.ED25519ID, ED25519Name, UnmarshalED25519)
}
