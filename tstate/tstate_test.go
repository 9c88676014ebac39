// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fortunevm/keys"
	"github.com/ava-labs/fortunevm/state"
)

var (
	testKey = keys.EncodeChunks([]byte("key"), 1)
	testVal = []byte("value")
	key1    = keys.EncodeChunks([]byte("key1"), 1)
	key2    = keys.EncodeChunks([]byte("key2"), 2)
)

func TestScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{}, map[string][]byte{})
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, ErrInvalidKeyOrPermission)
	require.Nil(val)
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, testKey), ErrInvalidKeyOrPermission)
}

func TestReadOnlyScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{string(testKey): state.Read}, map[string][]byte{string(testKey): testVal})
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
	require.ErrorIs(tsv.Insert(ctx, testKey, []byte("other")), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, testKey), ErrInvalidKeyOrPermission)
}

func TestWriteWithoutAllocate(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{string(testKey): state.Write}, map[string][]byte{})
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrInvalidKeyOrPermission)
}

func TestInsertNew(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{string(testKey): state.All}, map[string][]byte{})

	tsv.DisableAllocation()
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrAllocationDisabled)
	tsv.EnableAllocation()

	require.NoError(tsv.Insert(ctx, testKey, testVal))
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(1, tsv.OpIndex(), "insert was not added as an operation")
	require.Equal(testVal, val, "value was not set correctly")

	tsv.Commit()
	require.Equal(1, ts.OpIndex(), "insert was not added as an operation")
	require.Contains(ts.Changes(), string(testKey))
}

func TestInsertInvalid(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	key := keys.EncodeChunks([]byte("hello"), 0)
	tsv := ts.NewView(state.Keys{string(key): state.All}, map[string][]byte{})
	require.ErrorIs(tsv.Insert(ctx, key, []byte("cool")), ErrInvalidKeyValue)
	_, err := tsv.GetValue(ctx, key)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestDeleteCommitGet(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{string(testKey): state.Write}, map[string][]byte{string(testKey): testVal})
	require.NoError(tsv.Remove(ctx, testKey))
	tsv.Commit()

	// Committed deletes shadow storage in later views
	tsv = ts.NewView(state.Keys{string(testKey): state.Write}, map[string][]byte{string(testKey): testVal})
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	require.Nil(val)
}

func TestRemoveInsertRollback(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	ctx := context.TODO()

	tsv := ts.NewView(state.Keys{string(testKey): state.All}, map[string][]byte{})
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	require.NoError(tsv.Remove(ctx, testKey))
	_, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	require.Equal(3, tsv.OpIndex())
	require.Equal(1, tsv.PendingChanges())

	tsv.Rollback(ctx, 2)
	_, err = tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)

	tsv.Rollback(ctx, 1)
	v, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, v)

	tsv.Rollback(ctx, 0)
	_, err = tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	require.Zero(tsv.PendingChanges())
}

func TestRollbackRestoresStorage(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	ctx := context.TODO()

	scope := state.Keys{string(key1): state.All, string(key2): state.All}
	storage := map[string][]byte{string(key1): []byte("one")}
	tsv := ts.NewView(scope, storage)

	require.NoError(tsv.Insert(ctx, key1, []byte("uno")))
	require.NoError(tsv.Insert(ctx, key2, []byte("dos")))
	require.NoError(tsv.Remove(ctx, key1))

	tsv.Rollback(ctx, 0)
	require.Zero(tsv.OpIndex())
	v, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal([]byte("one"), v)
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)

	tsv.Commit()
	require.Empty(ts.Changes())
}

func TestRemoveMissingIsNoop(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	ctx := context.TODO()

	tsv := ts.NewView(state.Keys{string(testKey): state.All}, map[string][]byte{})
	require.NoError(tsv.Remove(ctx, testKey))
	require.Zero(tsv.OpIndex())
}
