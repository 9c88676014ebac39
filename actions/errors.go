// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"errors"

	"github.com/ava-labs/fortunevm/pricing"
)

var (
	// Protocol
	ErrProtocolNotInitialized = errors.New("protocol not initialized")
	ErrNotProtocolAuthority   = errors.New("actor is not protocol authority")
	ErrInvalidFeeScalar       = errors.New("fee scalar is zero")

	// Pool creation
	ErrLamportInitMin    = errors.New("lamport amount below minimum")
	ErrLamportInitMax    = errors.New("lamport amount not below maximum")
	ErrPtokenInitMin     = errors.New("ptoken amount below minimum")
	ErrPtokenInitMax     = errors.New("ptoken amount not below maximum")
	ErrPoolAlreadyExists = errors.New("pool already exists")
	ErrInvalidAsset      = errors.New("asset cannot be the native currency")

	// Pool lifecycle
	ErrPoolNotFound     = errors.New("pool not found")
	ErrPoolClosed       = errors.New("pool is closed")
	ErrSoldOut          = pricing.ErrSoldOut
	ErrZeroAmount       = pricing.ErrZeroAmount
	ErrAssetMismatch    = errors.New("asset mint does not match pool")
	ErrNotPoolAuthority = errors.New("actor is not pool authority")
	ErrOutstandingProb  = errors.New("outstanding ptokens, cannot close pool")
	ErrActiveClaim      = errors.New("active claim against pool")

	// Claims and burns
	ErrNoClaim          = errors.New("no claim pending")
	ErrNotNftAuthority  = errors.New("actor is not entitled to the asset")
	ErrClaimPending     = errors.New("claim pending, burns are paused")
	ErrNotBurnAuthority = errors.New("actor may not execute this burn")

	ErrUnknownAction = errors.New("unknown action")
)
