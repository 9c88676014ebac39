// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package entropy provides the randomness consumed by burn draws.
//
// The host keeps a short history of slot hashes in state. A draw reads the
// first 8 bytes of the most recent hash. Each new hash mixes fresh host
// randomness with the transactions of the slot it closes, so it cannot be
// derived from earlier history. It is still visible to whoever can read the
// host's state, and every draw within a slot reads the same value.
package entropy

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"golang.org/x/crypto/sha3"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"
)

const (
	HashLen = 32

	// MaxEntries is the number of slots retained in the history.
	MaxEntries = 16

	entryLen = consts.Uint64Len + HashLen

	// count + most recent slot
	drawOffset = 2 * consts.Uint64Len
)

var (
	ErrNoEntropy       = errors.New("no slot hashes recorded")
	ErrMalformedRecord = errors.New("malformed slot hashes record")
)

type SlotHash struct {
	Slot uint64
	Hash [HashLen]byte
}

// SlotHashes is the slot history, most recent first. Its encoding is a
// little-endian u64 count followed by (u64 slot, 32 byte hash) entries.
type SlotHashes []SlotHash

func (s SlotHashes) Marshal() []byte {
	b := make([]byte, consts.Uint64Len, consts.Uint64Len+len(s)*entryLen)
	binary.LittleEndian.PutUint64(b, uint64(len(s)))
	for _, e := range s {
		b = binary.LittleEndian.AppendUint64(b, e.Slot)
		b = append(b, e.Hash[:]...)
	}
	return b
}

func Unmarshal(b []byte) (SlotHashes, error) {
	if len(b) < consts.Uint64Len {
		return nil, ErrMalformedRecord
	}
	n := binary.LittleEndian.Uint64(b)
	if n > MaxEntries || uint64(len(b)) != consts.Uint64Len+n*entryLen {
		return nil, fmt.Errorf("%w: count=%d len=%d", ErrMalformedRecord, n, len(b))
	}
	s := make(SlotHashes, n)
	b = b[consts.Uint64Len:]
	for i := range s {
		s[i].Slot = binary.LittleEndian.Uint64(b)
		copy(s[i].Hash[:], b[consts.Uint64Len:entryLen])
		b = b[entryLen:]
	}
	return s, nil
}

// Advance records [slot] at the head of the history. Its hash chains from
// the previous head as keccak256(prev || slot || seed).
func (s SlotHashes) Advance(slot uint64, seed [HashLen]byte) SlotHashes {
	var prev [HashLen]byte
	if len(s) > 0 {
		prev = s[0].Hash
	}
	next := make(SlotHashes, 1, MaxEntries)
	next[0] = SlotHash{
		Slot: slot,
		Hash: keccak(prev[:], binary.LittleEndian.AppendUint64(nil, slot), seed[:]),
	}
	for _, e := range s {
		if len(next) == MaxEntries {
			break
		}
		next = append(next, e)
	}
	return next
}

// Seed returns fresh randomness bound to [digest]. The host passes the
// result to [SlotHashes.Advance].
func Seed(digest [HashLen]byte) ([HashLen]byte, error) {
	var fresh [HashLen]byte
	if _, err := rand.Read(fresh[:]); err != nil {
		return [HashLen]byte{}, err
	}
	return keccak(fresh[:], digest[:]), nil
}

// Accumulate folds [id] into [digest].
func Accumulate(digest [HashLen]byte, id []byte) [HashLen]byte {
	return keccak(digest[:], id)
}

// Draw extracts the value used by a burn from an encoded history: the 8
// bytes at offset 16, read little-endian.
func Draw(record []byte) (uint64, error) {
	if len(record) < drawOffset+consts.Uint64Len {
		return 0, ErrNoEntropy
	}
	if binary.LittleEndian.Uint64(record) == 0 {
		return 0, ErrNoEntropy
	}
	return binary.LittleEndian.Uint64(record[drawOffset:]), nil
}

// Read draws from the history stored in [im].
func Read(ctx context.Context, im state.Immutable) (uint64, error) {
	record, err := storage.GetSlotHashes(ctx, im)
	if errors.Is(err, database.ErrNotFound) {
		return 0, ErrNoEntropy
	}
	if err != nil {
		return 0, err
	}
	return Draw(record)
}

// Expand derives the [n]th value from a single random seed.
func Expand(randomness [HashLen]byte, n uint64) uint64 {
	h := hashWithNum(randomness, n)
	return binary.LittleEndian.Uint64(h[:])
}

// ExpandWithAddress derives a value bound to [addr] from a single random seed.
func ExpandWithAddress(randomness [HashLen]byte, addr codec.Address) uint64 {
	h := keccak(randomness[:], addr[:])
	return binary.LittleEndian.Uint64(h[:])
}

func hashWithNum(randomness [HashLen]byte, n uint64) [HashLen]byte {
	return keccak(randomness[:], binary.LittleEndian.AppendUint64(nil, n))
}

func keccak(parts ...[]byte) [HashLen]byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out [HashLen]byte
	h.Sum(out[:0])
	return out
}
