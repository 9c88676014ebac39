// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"
)

func TestApplyAndReopen(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	db, registry, err := New(dir, NewDefaultConfig())
	require.NoError(err)
	require.NotNil(registry)

	require.NoError(db.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"pool":  maybe.Some([]byte{1, 2, 3}),
		"vault": maybe.Some([]byte{4}),
	}))
	require.NoError(db.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"vault": maybe.Nothing[[]byte](),
	}))
	require.NoError(db.Close())
	require.NoError(db.Close())

	db, _, err = New(dir, NewDefaultConfig())
	require.NoError(err)
	defer db.Close()

	v, err := db.GetValue(ctx, []byte("pool"))
	require.NoError(err)
	require.Equal([]byte{1, 2, 3}, v)

	has, err := db.Has([]byte("vault"))
	require.NoError(err)
	require.False(has)

	_, err = db.Get([]byte("vault"))
	require.ErrorIs(err, database.ErrNotFound)
}
