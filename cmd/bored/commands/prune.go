package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/bored/internal/printer"
	"github.com/dyluth/bored/pkg/client"
)

var pruneCmd = &cobra.Command{
	Use:   "prune [ADDRESS|NAME]",
	Short: "Remove notices that are completely covered",
	Long: `Remove every notice that is completely covered by later notices and
publish the smaller bored. Nothing visible changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Phase 1: Connect and resolve
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	addr, err := resolveAddress(env.config, args)
	if err != nil {
		return err
	}

	// Phase 2: Fetch and prune a copy
	state, err := env.client.Load(ctx, addr)
	if err != nil {
		return fetchError(addr, err)
	}

	local := state.Bored.Clone()
	removed, err := local.PruneNonVisible()
	if err != nil {
		return fmt.Errorf("failed to prune bored: %w", err)
	}
	if removed == 0 {
		printer.Info("Nothing to prune, all %d notices are visible\n", local.Len())
		return nil
	}

	// Phase 3: Publish
	next, err := env.client.Publish(ctx, state, local)
	if conflict, ok := client.IsConflict(err); ok {
		return printer.Error(
			"bored changed while pruning",
			fmt.Sprintf("Someone published version %d first; nothing was pruned.", conflict.Counter),
			[]string{"Run prune again"},
		)
	}
	if err != nil {
		return fmt.Errorf("failed to publish pruned bored: %w", err)
	}

	printer.Success("Pruned %d hidden notices\n", removed)
	printer.Detail("version", next.Counter)
	printer.Detail("notices", next.Bored.Len())
	return nil
}
