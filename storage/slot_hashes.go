// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/fortunevm/state"
)

// GetSlotHashes returns the raw host history record used for entropy.
func GetSlotHashes(ctx context.Context, im state.Immutable) ([]byte, error) {
	return im.GetValue(ctx, SlotHashesKey())
}

func SetSlotHashes(ctx context.Context, mu state.Mutable, record []byte) error {
	return mu.Insert(ctx, SlotHashesKey(), record)
}
