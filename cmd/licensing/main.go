package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/writgo/licensing/internal/interfaces/cli/migrate"
	"github.com/writgo/licensing/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "licensing",
		Short: "Licensing - license validation and credit management service",
		Long:  `Licensing is the backend service that issues license keys from billing events, validates them, and meters per-period credit consumption.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
