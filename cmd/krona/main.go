package main

import (
	"os"

	"github.com/spf13/cobra"

	"krona/internal/interfaces/cli/migrate"
	"krona/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "krona",
		Short: "Krona - merchant billing and subscription platform",
		Long:  `Krona manages merchant subscription plans, plan assignments, the billing transaction ledger, and the subscription lifecycle jobs.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
