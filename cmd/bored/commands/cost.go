package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dyluth/bored/internal/printer"
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate what creating a bored costs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		cost, err := env.client.EstimateCost(ctx, nil)
		if err != nil {
			return err
		}
		printer.Info("Creating a bored costs %s\n", cost)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(costCmd)
}
