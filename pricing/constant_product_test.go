// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

func TestBuy(t *testing.T) {
	tests := []struct {
		name          string
		ptokenSupply  uint64
		lamportSupply uint64
		amount        uint64
		swapFee       uint64
		feeScalar     uint64
		want          *Quote
		wantErr       error
	}{
		{
			name:          "truncates toward pool",
			ptokenSupply:  100,
			lamportSupply: 1_000,
			amount:        10,
			swapFee:       1,
			feeScalar:     100,
			want: &Quote{
				PtokenSupply:  90,
				LamportSupply: 1_111,
				Cost:          111,
				Fee:           1,
			},
		},
		{
			name:          "no fee",
			ptokenSupply:  100,
			lamportSupply: 1_000,
			amount:        50,
			swapFee:       0,
			feeScalar:     100,
			want: &Quote{
				PtokenSupply:  50,
				LamportSupply: 2_000,
				Cost:          1_000,
			},
		},
		{
			name:          "last sellable token",
			ptokenSupply:  2,
			lamportSupply: 10,
			amount:        1,
			swapFee:       5,
			feeScalar:     10,
			want: &Quote{
				PtokenSupply:  1,
				LamportSupply: 20,
				Cost:          10,
				Fee:           5,
			},
		},
		{
			name:          "sold out",
			ptokenSupply:  1,
			lamportSupply: 10,
			amount:        1,
			feeScalar:     1,
			wantErr:       ErrSoldOut,
		},
		{
			name:          "whole supply",
			ptokenSupply:  100,
			lamportSupply: 10,
			amount:        100,
			feeScalar:     1,
			wantErr:       ErrInsufficientSupply,
		},
		{
			name:          "zero amount",
			ptokenSupply:  100,
			lamportSupply: 10,
			feeScalar:     1,
			wantErr:       ErrZeroAmount,
		},
		{
			name:          "zero fee scalar",
			ptokenSupply:  100,
			lamportSupply: 10,
			amount:        1,
			wantErr:       ErrInvalidFeeScalar,
		},
		{
			name:          "overflowing k",
			ptokenSupply:  1 << 40,
			lamportSupply: 1 << 40,
			amount:        1,
			feeScalar:     1,
			wantErr:       smath.ErrOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			c := NewConstantProduct(tt.ptokenSupply, tt.lamportSupply)
			got, err := c.Buy(tt.amount, tt.swapFee, tt.feeScalar)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.want, got)

			p, l := c.Reserves()
			if tt.wantErr != nil {
				require.Equal(tt.ptokenSupply, p)
				require.Equal(tt.lamportSupply, l)
				return
			}
			require.Equal(tt.want.PtokenSupply, p)
			require.Equal(tt.want.LamportSupply, l)
		})
	}
}

func TestBuyTruncationBound(t *testing.T) {
	require := require.New(t)

	for _, start := range [][2]uint64{{100, 1_000}, {1_000_000, 7}, {997, 1_000_003}} {
		c := NewConstantProduct(start[0], start[1])
		for amount := uint64(1); ; amount++ {
			p, l := c.Reserves()
			if amount >= p {
				break
			}
			q, err := c.Buy(amount, 3, 1_000)
			require.NoError(err)

			// P' * L' <= k < P' * (L' + 1)
			k := new(big.Int).Mul(new(big.Int).SetUint64(p), new(big.Int).SetUint64(l))
			after := new(big.Int).Mul(new(big.Int).SetUint64(q.PtokenSupply), new(big.Int).SetUint64(q.LamportSupply))
			require.LessOrEqual(after.Cmp(k), 0)
			after.Add(after, new(big.Int).SetUint64(q.PtokenSupply))
			require.Equal(1, after.Cmp(k))

			require.GreaterOrEqual(q.LamportSupply, l)
			require.Equal(q.LamportSupply-l, q.Cost)
		}
	}
}

func TestMarginalPriceIncreases(t *testing.T) {
	require := require.New(t)

	c := NewConstantProduct(1_000, 1_000_000_000)
	var last uint64
	for i := 0; i < 900; i++ {
		q, err := c.Buy(1, 0, 1)
		require.NoError(err)
		require.GreaterOrEqual(q.Cost, last)
		last = q.Cost
	}
}
