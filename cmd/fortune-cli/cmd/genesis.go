// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/fortunevm/utils"
)

func newGenesisCmd(f *fortune) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "genesis [plan]",
		Short: "Write the genesis a plan runs against",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPlan(cmd, args[0])
			if err != nil {
				return err
			}
			g, err := p.Genesis()
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(g, "", "  ")
			if err != nil {
				return err
			}
			if len(output) == 0 {
				fmt.Println(string(b))
				return nil
			}
			if err := os.WriteFile(output, b, perms.ReadWrite); err != nil {
				return err
			}
			f.log.Info("wrote genesis", zap.String("path", output))
			utils.Outf("{{green}}created:{{/}} %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "file to write, stdout when empty")
	return cmd
}
