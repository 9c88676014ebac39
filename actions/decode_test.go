// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	require := require.New(t)

	action, err := FromJSON(BuyName, []byte(`{"pool":"`+pool.String()+`","amount":25}`))
	require.NoError(err)
	require.Equal(&Buy{Pool: pool, Amount: 25}, action)

	action, err = FromJSON(UserDepositName, nil)
	require.NoError(err)
	require.Equal(&UserDeposit{}, action)

	_, err = FromJSON("swap", nil)
	require.ErrorIs(err, ErrUnknownAction)

	_, err = FromJSON(BuyName, []byte(`{"amount":"many"}`))
	require.Error(err)
}

func TestDecodeOutputs(t *testing.T) {
	require := require.New(t)

	decoded, err := DecodeOutputs(BuyName, [][]byte{(&BuyResult{Cost: 40, Fee: 1}).Bytes()})
	require.NoError(err)
	require.Equal(&BuyResult{Cost: 40, Fee: 1}, decoded)

	decoded, err = DecodeOutputs(ExecuteBurnName, nil)
	require.NoError(err)
	require.Nil(decoded)

	_, err = DecodeOutputs(ClosePoolName, [][]byte{{1, 2}})
	require.Error(err)
}
