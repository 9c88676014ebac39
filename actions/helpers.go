// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"
)

func getProtocol(ctx context.Context, im state.Immutable) (*storage.ProtocolState, error) {
	ps, err := storage.GetProtocolState(ctx, im)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrProtocolNotInitialized
	}
	return ps, err
}

func getPool(ctx context.Context, im state.Immutable, pool codec.Address) (*storage.ProbPool, error) {
	p, err := storage.GetPool(ctx, im, pool)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, pool)
	}
	return p, err
}

// checkBurnsOpen enforces the claim policy for burns on [p].
func checkBurnsOpen(r chain.Rules, p *storage.ProbPool) error {
	if p.ToClaim && r.GetClaimPolicy() != chain.ClaimPolicyOverwrite {
		return ErrClaimPending
	}
	return nil
}
