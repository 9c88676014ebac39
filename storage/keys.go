// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/keys"
	"github.com/ava-labs/fortunevm/utils"
)

// State
// 0x0/ (protocol)
//   -> protocol state
// 0x1/ (pools)
//   -> [pool] => authority|nftAuthority|vaults|mints|flags|reserves|outstanding
// 0x2/ (closed pools)
//   -> [pool] => closed marker
// 0x3/ (mints)
//   -> [mint] => authority|supply
// 0x4/ (vaults)
//   -> [vault] => mint|owner|amount
// 0x5/ (slot hashes)
//   -> host maintained entropy history
// 0x6/ (nonces)
//   -> [actor] => next nonce

const (
	protocolPrefix byte = iota
	poolPrefix
	closedPoolPrefix
	mintPrefix
	vaultPrefix
	slotHashesPrefix
	noncePrefix
)

const (
	ProtocolChunks   uint16 = 2
	PoolChunks       uint16 = 5
	ClosedPoolChunks uint16 = 1
	MintChunks       uint16 = 1
	VaultChunks      uint16 = 2
	SlotHashesChunks uint16 = 11
	NonceChunks      uint16 = 1
)

// Tag namespaces a derived vault address. The same tag, mint and owner always
// resolve to the same vault.
type Tag string

const (
	// TagVault is used for pool-owned vaults, the protocol fee vault and
	// the pool-scoped ptoken vault of each user.
	TagVault Tag = "vault"
	// TagBurn holds ptokens a user has committed to a pending burn.
	TagBurn Tag = "burn"
	// TagAccount is a user's personal account, outside of any pool.
	TagAccount Tag = "account"
)

var (
	// LamportMint identifies the native currency used to price ptokens.
	LamportMint = codec.CreateAddress(consts.MintID, utils.ToID([]byte("native")))

	// ProtocolVault collects swap fees and burn costs.
	ProtocolVault = VaultAddress(TagVault, LamportMint, codec.EmptyAddress)
)

// PoolAddress derives the identity of a pool created by [actionID].
func PoolAddress(actionID ids.ID) codec.Address {
	return codec.CreateAddress(consts.PoolID, actionID)
}

// PtokenMintAddress derives the ptoken mint of [pool].
func PtokenMintAddress(pool codec.Address) codec.Address {
	v := make([]byte, 0, len("mint")+codec.AddressLen)
	v = append(v, "mint"...)
	v = append(v, pool[:]...)
	return codec.CreateAddress(consts.MintID, utils.ToID(v))
}

// VaultAddress derives the vault identified by [tag], [mint] and [owner].
func VaultAddress(tag Tag, mint codec.Address, owner codec.Address) codec.Address {
	v := make([]byte, 0, len(tag)+2*codec.AddressLen)
	v = append(v, tag...)
	v = append(v, mint[:]...)
	v = append(v, owner[:]...)
	return codec.CreateAddress(consts.VaultID, utils.ToID(v))
}

// PoolVault holds [mint] on behalf of [pool].
func PoolVault(mint codec.Address, pool codec.Address) codec.Address {
	return VaultAddress(TagVault, mint, pool)
}

// UserVault holds the ptokens of [user] bought from the pool of [ptokenMint].
func UserVault(ptokenMint codec.Address, user codec.Address) codec.Address {
	return VaultAddress(TagVault, ptokenMint, user)
}

// BurnVault stages the ptokens [user] committed to a burn.
func BurnVault(ptokenMint codec.Address, user codec.Address) codec.Address {
	return VaultAddress(TagBurn, ptokenMint, user)
}

// AccountVault is the personal account of [owner] for [mint].
func AccountVault(mint codec.Address, owner codec.Address) codec.Address {
	return VaultAddress(TagAccount, mint, owner)
}

func ProtocolKey() []byte {
	return keys.EncodeChunks([]byte{protocolPrefix}, ProtocolChunks)
}

// [poolPrefix] + [pool]
func PoolKey(pool codec.Address) []byte {
	return addressKey(poolPrefix, pool, PoolChunks)
}

// [closedPoolPrefix] + [pool]
func ClosedPoolKey(pool codec.Address) []byte {
	return addressKey(closedPoolPrefix, pool, ClosedPoolChunks)
}

// [mintPrefix] + [mint]
func MintKey(mint codec.Address) []byte {
	return addressKey(mintPrefix, mint, MintChunks)
}

// [vaultPrefix] + [vault]
func VaultKey(vault codec.Address) []byte {
	return addressKey(vaultPrefix, vault, VaultChunks)
}

func SlotHashesKey() []byte {
	return keys.EncodeChunks([]byte{slotHashesPrefix}, SlotHashesChunks)
}

// [noncePrefix] + [actor]
func NonceKey(actor codec.Address) []byte {
	return addressKey(noncePrefix, actor, NonceChunks)
}

func addressKey(prefix byte, addr codec.Address, chunks uint16) []byte {
	k := make([]byte, 0, 1+codec.AddressLen+consts.Uint16Len)
	k = append(k, prefix)
	k = append(k, addr[:]...)
	return keys.EncodeChunks(k, chunks)
}
