// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/fortunevm/codec"
	"github.com/ava-labs/fortunevm/consts"
	"github.com/ava-labs/fortunevm/state"
	"github.com/ava-labs/fortunevm/utils"
)

// Transaction is a single [Action] signed by the actor it runs as. [Nonce]
// must equal the number of transactions the actor has had processed before,
// so a signed transaction can only ever be processed once.
type Transaction struct {
	Nonce  uint64
	Action Action
	Auth   Auth

	digest []byte
	bytes  []byte
	id     ids.ID
}

// NewTransaction returns an unsigned transaction. It must be signed with
// [Transaction.Sign] before it can be processed.
func NewTransaction(nonce uint64, action Action) *Transaction {
	return &Transaction{Nonce: nonce, Action: action}
}

// Digest is the encoding of the unsigned transaction. This is what [Auth]
// signs.
func (t *Transaction) Digest() []byte {
	if len(t.digest) > 0 {
		return t.digest
	}
	p := codec.NewWriter(t.digestSize(), consts.MaxInt)
	p.PackUint64(t.Nonce)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	t.digest = p.Bytes()
	return t.digest
}

func (t *Transaction) digestSize() int {
	return consts.Uint64Len + consts.ByteLen + t.Action.Size()
}

// Sign returns a copy of [t] signed by [factory].
func (t *Transaction) Sign(factory AuthFactory) (*Transaction, error) {
	auth, err := factory.Sign(t.Digest())
	if err != nil {
		return nil, err
	}
	return &Transaction{Nonce: t.Nonce, Action: t.Action, Auth: auth}, nil
}

func (t *Transaction) Size() int {
	size := t.digestSize()
	if t.Auth != nil {
		size += consts.ByteLen + t.Auth.Size()
	}
	return size
}

func (t *Transaction) Bytes() []byte {
	if len(t.bytes) > 0 {
		return t.bytes
	}
	digest := t.Digest()
	p := codec.NewWriter(t.Size(), consts.MaxInt)
	p.PackFixedBytes(digest)
	if t.Auth != nil {
		p.PackByte(t.Auth.GetTypeID())
		t.Auth.Marshal(p)
	}
	t.bytes = p.Bytes()
	return t.bytes
}

func (t *Transaction) ID() ids.ID {
	if t.id == ids.Empty {
		t.id = utils.ToID(t.Bytes())
	}
	return t.id
}

// Actor is the address the action runs as. It is empty until [t] is
// signed.
func (t *Transaction) Actor() codec.Address {
	if t.Auth == nil {
		return codec.EmptyAddress
	}
	return t.Auth.Actor()
}

// Verify checks that [t] is signed by its actor.
func (t *Transaction) Verify() error {
	if t.Auth == nil {
		return ErrMissingAuth
	}
	if err := t.Auth.Verify(t.Digest()); err != nil {
		return fmt.Errorf("%w: tx=%s", err, t.ID())
	}
	return nil
}

// StateKeys are the keys of the action plus the nonce of the actor.
func (t *Transaction) StateKeys(sm StateManager) state.Keys {
	actor := t.Actor()
	ks := state.Keys{}
	for k, perm := range t.Action.StateKeys(actor, t.ID()) {
		ks.Add(k, perm)
	}
	for k, perm := range sm.NonceStateKeys(actor) {
		ks.Add(k, perm)
	}
	return ks
}

// UnmarshalTransaction decodes the output of [Transaction.Bytes]. The
// signature is not checked; call [Transaction.Verify].
func UnmarshalTransaction(
	b []byte,
	actionParser *codec.TypeParser[Action],
	authParser *codec.TypeParser[Auth],
) (*Transaction, error) {
	p := codec.NewReader(b, consts.MaxInt)
	nonce := p.UnpackUint64(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	action, err := actionParser.Unmarshal(p)
	if err != nil {
		return nil, err
	}
	digest := p.Offset()
	auth, err := authParser.Unmarshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingAuth, err)
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return &Transaction{
		Nonce:  nonce,
		Action: action,
		Auth:   auth,
		digest: b[:digest],
		bytes:  b,
	}, nil
}
