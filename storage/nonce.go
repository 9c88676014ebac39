// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/state"
)

// StateManager exposes actor nonces to the transaction processor.
type StateManager struct{}

func (StateManager) NonceStateKeys(actor codec.Address) state.Keys {
	return state.Keys{string(NonceKey(actor)): state.All}
}

func (StateManager) GetNonce(ctx context.Context, im state.Immutable, actor codec.Address) (uint64, error) {
	return GetNonce(ctx, im, actor)
}

func (StateManager) SetNonce(ctx context.Context, mu state.Mutable, actor codec.Address, nonce uint64) error {
	return SetNonce(ctx, mu, actor, nonce)
}

// GetNonce returns the nonce the next transaction of [actor] must carry.
func GetNonce(ctx context.Context, im state.Immutable, actor codec.Address) (uint64, error) {
	v, err := im.GetValue(ctx, NonceKey(actor))
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, ErrInvalidNonceRecord
	}
	return binary.BigEndian.Uint64(v), nil
}

func SetNonce(ctx context.Context, mu state.Mutable, actor codec.Address, nonce uint64) error {
	return mu.Insert(ctx, NonceKey(actor), binary.BigEndian.AppendUint64(nil, nonce))
}
