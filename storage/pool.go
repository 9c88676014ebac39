// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/state"
)

const probPoolSize = 7*codec.AddressLen + 2*consts.BoolLen + 3*consts.Uint64Len

var closedMarker = []byte{0x1}

// ProbPool is one prize plus its ptoken market.
type ProbPool struct {
	// Authority created the pool and receives its proceeds on close.
	Authority codec.Address `json:"authority"`
	// NftAuthority may claim the prize once ToClaim is set.
	NftAuthority codec.Address `json:"nftAuthority"`

	LamportVault codec.Address `json:"lamportVault"`
	PtokenVault  codec.Address `json:"ptokenVault"`
	NftVault     codec.Address `json:"nftVault"`
	PtokenMint   codec.Address `json:"ptokenMint"`
	NftMint      codec.Address `json:"nftMint"`

	// Claimed is set once the prize left the pool.
	Claimed bool `json:"claimed"`
	// ToClaim is set between a winning burn and the prize transfer.
	ToClaim bool `json:"toClaim"`

	LamportSupply      uint64 `json:"lamportSupply"`
	PtokenSupply       uint64 `json:"ptokenSupply"`
	OutstandingPtokens uint64 `json:"outstandingPtokens"`
}

func (p *ProbPool) Marshal() []byte {
	w := codec.NewWriter(probPoolSize, probPoolSize)
	w.PackAddress(p.Authority)
	w.PackAddress(p.NftAuthority)
	w.PackAddress(p.LamportVault)
	w.PackAddress(p.PtokenVault)
	w.PackAddress(p.NftVault)
	w.PackAddress(p.PtokenMint)
	w.PackAddress(p.NftMint)
	w.PackBool(p.Claimed)
	w.PackBool(p.ToClaim)
	w.PackUint64(p.LamportSupply)
	w.PackUint64(p.PtokenSupply)
	w.PackUint64(p.OutstandingPtokens)
	return w.Bytes()
}

func UnmarshalProbPool(b []byte) (*ProbPool, error) {
	r := codec.NewReader(b, probPoolSize)
	var p ProbPool
	r.UnpackAddress(true, &p.Authority)
	r.UnpackAddress(true, &p.NftAuthority)
	r.UnpackAddress(true, &p.LamportVault)
	r.UnpackAddress(true, &p.PtokenVault)
	r.UnpackAddress(true, &p.NftVault)
	r.UnpackAddress(true, &p.PtokenMint)
	r.UnpackAddress(true, &p.NftMint)
	p.Claimed = r.UnpackBool()
	p.ToClaim = r.UnpackBool()
	p.LamportSupply = r.UnpackUint64(false)
	p.PtokenSupply = r.UnpackUint64(false)
	p.OutstandingPtokens = r.UnpackUint64(false)
	return &p, r.Finish()
}

func GetPool(ctx context.Context, im state.Immutable, pool codec.Address) (*ProbPool, error) {
	v, err := im.GetValue(ctx, PoolKey(pool))
	if err != nil {
		return nil, err
	}
	return UnmarshalProbPool(v)
}

func SetPool(ctx context.Context, mu state.Mutable, pool codec.Address, p *ProbPool) error {
	return mu.Insert(ctx, PoolKey(pool), p.Marshal())
}

// DeletePool removes [pool] and leaves a marker so its identity cannot be
// reused.
func DeletePool(ctx context.Context, mu state.Mutable, pool codec.Address) error {
	if err := mu.Remove(ctx, PoolKey(pool)); err != nil {
		return err
	}
	return mu.Insert(ctx, ClosedPoolKey(pool), closedMarker)
}

// PoolIDUsed reports whether [pool] exists now or existed before.
func PoolIDUsed(ctx context.Context, im state.Immutable, pool codec.Address) (bool, error) {
	for _, k := range [][]byte{PoolKey(pool), ClosedPoolKey(pool)} {
		_, err := im.GetValue(ctx, k)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return false, err
		}
	}
	return false, nil
}
