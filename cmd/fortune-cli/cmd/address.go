// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/fortunevm/genesis"
	"github.com/ava-labs/fortunevm/utils"
)

func newAddressCmd() *cobra.Command {
	var asset bool
	cmd := &cobra.Command{
		Use:   "address [name...]",
		Short: "Print the address plans derive for an actor or asset name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			for _, name := range args {
				addr := ActorAddress(name)
				if asset {
					addr = genesis.AssetMint(name)
				}
				utils.Outf("{{yellow}}%s:{{/}} %s\n", name, addr)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asset, "asset", false, "derive the mint of a genesis asset")
	return cmd
}
