// Package main provides the entry point for the carshop CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version      = "0.1.0-dev"
	globalCaller string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "carshop",
		Short:   "An ownership registry for uniquely identified cars",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalCaller, "caller", "c", "", "Identity invoking the operation (defaults to the administrator)")

	rootCmd.AddCommand(
		newInitCmd(),
		newMintCmd(),
		newSellCmd(),
		newRenameCmd(),
		newApproveCmd(),
		newOperatorCmd(),
		newTransferCmd(),
		newCarsCmd(),
		newLogCmd(),
		newServeCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
