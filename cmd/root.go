package cmd

import (
	"fmt"
	"os"

	"simples-mirror/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "simples-mirror",
	Short: "Local mirror of the Simples Nacional registry",
	Long: `simples-mirror maintains a local queryable snapshot of the Simples
Nacional enrollment dataset published by the Receita Federal.

Use 'refresh' to download and import the latest release, 'lookup' to query
a CNPJ against the local store, and 'info' to inspect the loaded dataset.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting.
		// Console format matches user expectations for a CLI tool.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
