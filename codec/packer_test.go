// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/fortunevm/consts"
)

func TestPackerAddress(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(2, ids.GenerateTestID())

	wp := NewWriter(AddressLen, AddressLen)
	wp.PackAddress(addr)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), AddressLen)
	var unpacked Address
	rp.UnpackAddress(true, &unpacked)
	require.NoError(rp.Finish())
	require.Equal(addr, unpacked)
}

func TestPackerRequiredUnpack(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(AddressLen+consts.Uint64Len, AddressLen+consts.Uint64Len)
	wp.PackAddress(EmptyAddress)
	wp.PackUint64(0)

	rp := NewReader(wp.Bytes(), AddressLen)
	var addr Address
	rp.UnpackAddress(true, &addr)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)

	rp = NewReader(wp.Bytes()[AddressLen:], consts.Uint64Len)
	require.Zero(rp.UnpackUint64(true))
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerWriterLimit(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(consts.Uint64Len, consts.Uint64Len)
	wp.PackUint64(1)
	wp.PackBool(true)
	require.Error(wp.Err())
}

func TestPackerTrailingBytes(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(2*consts.Uint64Len, 2*consts.Uint64Len)
	wp.PackUint64(7)
	wp.PackUint64(8)

	rp := NewReader(wp.Bytes(), 2*consts.Uint64Len)
	require.Equal(uint64(7), rp.UnpackUint64(true))
	require.ErrorIs(rp.Finish(), ErrTrailingBytes)
}
