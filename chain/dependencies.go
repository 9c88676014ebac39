// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/state"
)

// ClaimPolicy decides what happens to burns on a pool that already has an
// unclaimed winner.
type ClaimPolicy string

const (
	// ClaimPolicyForbid rejects burns until the pending prize is claimed.
	ClaimPolicyForbid ClaimPolicy = "forbid"
	// ClaimPolicyOverwrite lets a later win replace the pending claimant.
	// The earlier winner loses the prize.
	ClaimPolicyOverwrite ClaimPolicy = "overwrite"
)

func (c ClaimPolicy) Valid() bool {
	return c == ClaimPolicyForbid || c == ClaimPolicyOverwrite
}

// BurnAuthorization decides who may execute a staged burn.
type BurnAuthorization string

const (
	// BurnPermissioned requires the protocol authority to execute burns on
	// behalf of the burning user.
	BurnPermissioned BurnAuthorization = "permissioned"
	// BurnSelf lets users execute their own staged burns.
	BurnSelf BurnAuthorization = "self"
)

func (b BurnAuthorization) Valid() bool {
	return b == BurnPermissioned || b == BurnSelf
}

type Rules interface {
	GetClaimPolicy() ClaimPolicy
	GetBurnAuthorization() BurnAuthorization
}

type RuleFactory interface {
	GetRules(t int64) Rules
}

type Action interface {
	// GetTypeID uniquely identifies each supported [Action]. We use IDs to
	// avoid reflection.
	GetTypeID() uint8

	// Size is the number of bytes written by [Marshal].
	Size() int
	// Marshal encodes the action parameters. The encoding is part of the
	// transaction ID, and so of every address derived from it.
	Marshal(p *codec.Packer)

	// StateKeys is a full enumeration of all database keys that could be
	// touched during execution. Execution fails if it touches a key that was
	// not declared or uses it with a permission that was not granted.
	StateKeys(actor codec.Address, actionID ids.ID) state.Keys

	// Execute applies the action to [mu]. If it returns an error, every
	// change it made is discarded.
	//
	// The outputs are opaque and returned to the caller as-is.
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		timestamp int64,
		actor codec.Address,
		actionID ids.ID,
	) (outputs [][]byte, err error)
}

// Auth proves who sent a transaction. The actor an action runs as is
// always derived from a verified [Auth].
type Auth interface {
	GetTypeID() uint8

	// Actor is the address derived from the signer.
	Actor() codec.Address
	// Verify checks the signature over [msg], the unsigned transaction.
	Verify(msg []byte) error

	Size() int
	Marshal(p *codec.Packer)
}

type AuthFactory interface {
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}

// StateManager stores the per-actor nonce the processor checks before
// running each action.
type StateManager interface {
	NonceStateKeys(actor codec.Address) state.Keys
	GetNonce(ctx context.Context, im state.Immutable, actor codec.Address) (uint64, error)
	SetNonce(ctx context.Context, mu state.Mutable, actor codec.Address, nonce uint64) error
}
