// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testPrivateKey = PrivateKey(
		[PrivateKeyLen]byte{
			32, 241, 118, 222, 210, 13, 164, 128, 3, 18,
			109, 215, 176, 215, 168, 171, 194, 181, 4, 11,
			253, 199, 173, 240, 107, 148, 127, 190, 48, 164,
			12, 48, 115, 50, 124, 153, 59, 53, 196, 150, 168,
			143, 151, 235, 222, 128, 136, 161, 9, 40, 139, 85,
			182, 153, 68, 135, 62, 166, 45, 235, 251, 246, 69, 7,
		},
	)
	testPublicKey = []byte{
		115, 50, 124, 153, 59, 53, 196, 150, 168, 143, 151, 235,
		222, 128, 136, 161, 9, 40, 139, 85, 182, 153, 68, 135,
		62, 166, 45, 235, 251, 246, 69, 7,
	}
)

func TestGeneratePrivateKeyDifferent(t *testing.T) {
	require := require.New(t)

	a, err := GeneratePrivateKey()
	require.NoError(err)
	b, err := GeneratePrivateKey()
	require.NoError(err)
	require.NotEqual(EmptyPrivateKey, a)
	require.NotEqual(a, b)
}

func TestPublicKey(t *testing.T) {
	var expected PublicKey
	copy(expected[:], testPublicKey)
	require.Equal(t, expected, testPrivateKey.PublicKey())
}

func TestPrivateKeyFromSeed(t *testing.T) {
	require := require.New(t)

	seed := [PrivateKeySeedLen]byte(testPrivateKey[:PrivateKeySeedLen])
	require.Equal(testPrivateKey, PrivateKeyFromSeed(seed))
	require.NotEqual(testPrivateKey, PrivateKeyFromSeed([PrivateKeySeedLen]byte{1}))
}

func TestSignMatchesStdlib(t *testing.T) {
	msg := []byte("msg")
	expected := ed25519.Sign(testPrivateKey[:], msg)
	sig := Sign(msg, testPrivateKey)
	require.Equal(t, expected, sig[:])
}

func TestVerify(t *testing.T) {
	require := require.New(t)

	msg := []byte("msg")
	sig := Sign(msg, testPrivateKey)
	require.True(Verify(msg, testPrivateKey.PublicKey(), sig))
	require.False(Verify([]byte("diff msg"), testPrivateKey.PublicKey(), sig))

	other, err := GeneratePrivateKey()
	require.NoError(err)
	require.False(Verify(msg, other.PublicKey(), sig))

	sig[0]++
	require.False(Verify(msg, testPrivateKey.PublicKey(), sig))
}

func TestPrivateKeyText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{
			name: "full key",
			text: hex.EncodeToString(testPrivateKey[:]),
		},
		{
			name: "seed",
			text: hex.EncodeToString(testPrivateKey[:PrivateKeySeedLen]),
		},
		{
			name:    "not hex",
			text:    "zz",
			wantErr: ErrInvalidPrivateKey,
		},
		{
			name:    "short",
			text:    "abcd",
			wantErr: ErrInvalidPrivateKey,
		},
		{
			name:    "mismatched public key",
			text:    hex.EncodeToString(append(testPrivateKey[:PrivateKeySeedLen:PrivateKeySeedLen], make([]byte, PublicKeyLen)...)),
			wantErr: ErrInvalidPrivateKey,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			var p PrivateKey
			err := p.UnmarshalText([]byte(tt.text))
			require.ErrorIs(err, tt.wantErr)
			if tt.wantErr != nil {
				return
			}
			require.Equal(testPrivateKey, p)
			text, err := p.MarshalText()
			require.NoError(err)
			require.Equal(hex.EncodeToString(testPrivateKey[:]), string(text))
		})
	}
}
