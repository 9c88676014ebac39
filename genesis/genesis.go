// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/fortunevm/chain"
	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/entropy"
	"github.com/ava-labs/fortunevm/ledger"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/storage"
	"github.com/ava-labs/fortunevm/utils"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var ErrInvalidRules = errors.New("invalid rules")

// CustomAllocation funds the lamport account of [Address].
type CustomAllocation struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

// AssetAllocation creates a single-unit asset called [Name] held by [Owner].
type AssetAllocation struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

type Genesis struct {
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
	Assets           []*AssetAllocation  `json:"assets"`
	InitialSlot      uint64              `json:"initialSlot"`
	Rules            *Rules              `json:"initialRules"`
}

func NewDefaultGenesis(customAllocations []*CustomAllocation) *Genesis {
	return &Genesis{
		CustomAllocation: customAllocations,
		InitialSlot:      1,
		Rules:            NewDefaultRules(),
	}
}

// Load parses a JSON genesis. Missing rules fall back to the defaults.
func Load(b []byte) (*Genesis, chain.RuleFactory, error) {
	g := &Genesis{Rules: NewDefaultRules()}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, nil, err
	}
	if err := g.Rules.Verify(); err != nil {
		return nil, nil, err
	}
	return g, &ImmutableRuleFactory{g.Rules}, nil
}

// AssetMint is the mint of the genesis asset called [name].
func AssetMint(name string) codec.Address {
	return codec.CreateAddress(consts.MintID, utils.ToID([]byte("asset"+name)))
}

func (g *Genesis) InitializeState(ctx context.Context, mu state.Mutable) error {
	l := ledger.New(mu)
	if err := l.CreateMint(ctx, storage.LamportMint, codec.EmptyAddress); err != nil {
		return err
	}

	supply := uint64(0)
	for _, alloc := range g.CustomAllocation {
		addr, err := codec.StringToAddress(alloc.Address)
		if err != nil {
			return fmt.Errorf("%w: %s", err, alloc.Address)
		}
		supply, err = smath.Add(supply, alloc.Balance)
		if err != nil {
			return err
		}
		vault := storage.AccountVault(storage.LamportMint, addr)
		if err := l.OpenVault(ctx, vault, storage.LamportMint, addr); err != nil {
			return err
		}
		if err := l.MintTo(ctx, codec.EmptyAddress, vault, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}

	for _, asset := range g.Assets {
		owner, err := codec.StringToAddress(asset.Owner)
		if err != nil {
			return fmt.Errorf("%w: %s", err, asset.Owner)
		}
		mint := AssetMint(asset.Name)
		if err := l.CreateMint(ctx, mint, codec.EmptyAddress); err != nil {
			return fmt.Errorf("%w: asset=%s", err, asset.Name)
		}
		vault := storage.AccountVault(mint, owner)
		if err := l.OpenVault(ctx, vault, mint, owner); err != nil {
			return err
		}
		if err := l.MintTo(ctx, codec.EmptyAddress, vault, 1); err != nil {
			return err
		}
	}

	seed, err := entropy.Seed([entropy.HashLen]byte{})
	if err != nil {
		return err
	}
	slots := entropy.SlotHashes{}.Advance(g.InitialSlot, seed)
	return storage.SetSlotHashes(ctx, mu, slots.Marshal())
}
