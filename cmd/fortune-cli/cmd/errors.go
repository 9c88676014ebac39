// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrUnknownSymbol       = errors.New("unknown symbol")
	ErrUnknownActor        = errors.New("unknown actor")
	ErrInvalidParamType    = errors.New("invalid param type")
	ErrInvalidAssertion    = errors.New("invalid assertion")
	ErrAssertionFailed     = errors.New("assertion failed")
	ErrInvalidConfigFormat = errors.New("invalid config format")
)
