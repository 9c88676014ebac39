// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "fmt"

type decoder[T any] struct {
	name   string
	decode func(*Packer) (T, error)
}

// TypeParser maps the one byte type ID of an encoded item, and a
// human-readable name, to its decoder.
type TypeParser[T any] struct {
	nameToIndex    map[string]uint8
	indexToDecoder map[uint8]decoder[T]
}

func NewTypeParser[T any]() *TypeParser[T] {
	return &TypeParser[T]{
		nameToIndex:    map[string]uint8{},
		indexToDecoder: map[uint8]decoder[T]{},
	}
}

func (p *TypeParser[T]) Register(typeID uint8, name string, f func(*Packer) (T, error)) error {
	if _, ok := p.indexToDecoder[typeID]; ok {
		return fmt.Errorf("%w: type %d", ErrDuplicateItem, typeID)
	}
	if _, ok := p.nameToIndex[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateItem, name)
	}
	p.nameToIndex[name] = typeID
	p.indexToDecoder[typeID] = decoder[T]{name, f}
	return nil
}

func (p *TypeParser[T]) LookupName(name string) (uint8, bool) {
	index, ok := p.nameToIndex[name]
	return index, ok
}

// Name returns the name [typeID] was registered with.
func (p *TypeParser[T]) Name(typeID uint8) (string, bool) {
	d, ok := p.indexToDecoder[typeID]
	return d.name, ok
}

func (p *TypeParser[T]) LookupIndex(typeID uint8) (func(*Packer) (T, error), bool) {
	d, ok := p.indexToDecoder[typeID]
	return d.decode, ok
}

// Unmarshal reads a type ID from [pk] and decodes the item that follows.
func (p *TypeParser[T]) Unmarshal(pk *Packer) (T, error) {
	var empty T
	typeID := pk.UnpackByte()
	if err := pk.Err(); err != nil {
		return empty, err
	}
	f, ok := p.LookupIndex(typeID)
	if !ok {
		return empty, fmt.Errorf("%w: type %d", ErrUnknownItem, typeID)
	}
	return f(pk)
}
