// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"
	"path"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/fortunevm/config"
)

const fortuneFolder = ".fortune"

type fortune struct {
	logLevel   string
	logDir     string
	dataDir    string
	configPath string

	factory *logFactory
	log     logging.Logger
}

func NewRootCmd() *cobra.Command {
	f := &fortune{}
	cmd := &cobra.Command{
		Use:   "fortune-cli",
		Short: "FortuneVM plan runner",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return f.Init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			f.Close()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "log level")
	cmd.PersistentFlags().StringVar(&f.logDir, "log-dir", "", "log directory (default ~/.fortune/logs)")
	cmd.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "state directory, in memory when empty")
	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "path to a JSON vm config")

	cmd.AddCommand(
		newRunCmd(f),
		newServeCmd(f),
		newGenesisCmd(f),
		newAddressCmd(),
	)
	return cmd
}

func (f *fortune) Init() error {
	level, err := logging.ToLevel(f.logLevel)
	if err != nil {
		return err
	}
	if len(f.logDir) == 0 {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		f.logDir = path.Join(homeDir, fortuneFolder, "logs")
	}

	loggingConfig := logging.Config{}
	loggingConfig.Directory = f.logDir
	loggingConfig.LogLevel = level
	loggingConfig.LogFormat = logging.JSON
	loggingConfig.MaxSize = 8
	loggingConfig.MaxFiles = 4
	// Step responses go to stdout; keep the console for warnings.
	loggingConfig.DisplayLevel = logging.Warn

	f.factory = newLogFactory(loggingConfig)
	f.log, err = f.factory.Make("fortune")
	if err != nil {
		f.factory.Close()
		return err
	}
	f.log.Debug("fortune-cli initialized",
		zap.String("log-level", f.logLevel),
		zap.String("log-dir", f.logDir),
	)
	return nil
}

// Config loads the vm config, applying command line overrides.
func (f *fortune) Config() (config.Config, error) {
	var b []byte
	if len(f.configPath) > 0 {
		var err error
		b, err = os.ReadFile(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load(b)
	if err != nil {
		return config.Config{}, err
	}
	if len(f.dataDir) > 0 {
		cfg.DataDir = f.dataDir
	}
	cfg.LogDir = f.logDir
	return cfg, nil
}

func (f *fortune) Close() {
	if f.factory != nil {
		f.factory.Close()
	}
}
