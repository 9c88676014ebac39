// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"github.com/hdevalence/ed25519consensus"
)

type (
	PublicKey  [ed25519.PublicKeySize]byte
	PrivateKey [ed25519.PrivateKeySize]byte
	Signature  [ed25519.SignatureSize]byte
)

// Signatures are verified with the ZIP-215 rules
// (https://zips.z.cash/zip-0215), which every node applies identically.
const (
	PublicKeyLen  = ed25519.PublicKeySize
	PrivateKeyLen = ed25519.PrivateKeySize
	// PrivateKeySeedLen is defined because ed25519.PrivateKey
	// is formatted as privateKey = seed|publicKey. We use this const
	// to extract the publicKey below.
	PrivateKeySeedLen = ed25519.SeedSize
	SignatureLen      = ed25519.SignatureSize
)

var (
	EmptyPublicKey  = [ed25519.PublicKeySize]byte{}
	EmptyPrivateKey = [ed25519.PrivateKeySize]byte{}
	EmptySignature  = [ed25519.SignatureSize]byte{}
)

// GeneratePrivateKey returns a Ed25519 PrivateKey.
func GeneratePrivateKey() (PrivateKey, error) {
	_, k, err := ed25519.GenerateKey(nil)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return PrivateKey(k), nil
}

// PrivateKeyFromSeed derives the key of [seed]. The same seed always yields
// the same key.
func PrivateKeyFromSeed(seed [PrivateKeySeedLen]byte) PrivateKey {
	return PrivateKey(ed25519.NewKeyFromSeed(seed[:]))
}

// PublicKey returns a PublicKey associated with the Ed25519 PrivateKey p.
// The PublicKey is the last 32 bytes of p.
func (p PrivateKey) PublicKey() PublicKey {
	return PublicKey(p[PrivateKeySeedLen:])
}

// MarshalText returns the hex encoding of [p].
func (p PrivateKey) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(p[:])), nil
}

// UnmarshalText accepts either a hex encoded seed or a full private key.
func (p *PrivateKey) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	switch len(b) {
	case PrivateKeySeedLen:
		*p = PrivateKeyFromSeed([PrivateKeySeedLen]byte(b))
	case PrivateKeyLen:
		*p = PrivateKey(b)
		// The trailing public key must match the seed.
		if PrivateKeyFromSeed([PrivateKeySeedLen]byte(b[:PrivateKeySeedLen])) != *p {
			return ErrInvalidPrivateKey
		}
	default:
		return fmt.Errorf("%w: length %d", ErrInvalidPrivateKey, len(b))
	}
	return nil
}

// Sign returns a valid signature for msg using pk.
func Sign(msg []byte, pk PrivateKey) Signature {
	sig := ed25519.Sign(pk[:], msg)
	return Signature(sig)
}

// Verify returns whether s is a valid signature of msg by p.
func Verify(msg []byte, p PublicKey, s Signature) bool {
	return ed25519consensus.Verify(p[:], msg, s[:])
}
