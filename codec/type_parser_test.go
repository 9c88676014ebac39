// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type blah struct {
	v uint64
}

func unmarshalBlah(p *Packer) (*blah, error) {
	return &blah{v: p.UnpackUint64(true)}, p.Err()
}

func TestTypeParser(t *testing.T) {
	require := require.New(t)
	tp := NewTypeParser[*blah]()

	require.NoError(tp.Register(3, "blah", unmarshalBlah))
	require.ErrorIs(tp.Register(3, "other", unmarshalBlah), ErrDuplicateItem)
	require.ErrorIs(tp.Register(4, "blah", unmarshalBlah), ErrDuplicateItem)

	index, ok := tp.LookupName("blah")
	require.True(ok)
	require.Equal(uint8(3), index)
	name, ok := tp.Name(3)
	require.True(ok)
	require.Equal("blah", name)
	_, ok = tp.LookupIndex(4)
	require.False(ok)

	w := NewWriter(9, 9)
	w.PackByte(3)
	w.PackUint64(7)
	b, err := tp.Unmarshal(NewReader(w.Bytes(), 9))
	require.NoError(err)
	require.Equal(uint64(7), b.v)

	w = NewWriter(9, 9)
	w.PackByte(4)
	w.PackUint64(7)
	_, err = tp.Unmarshal(NewReader(w.Bytes(), 9))
	require.ErrorIs(err, ErrUnknownItem)
}
