package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/bored/internal/printer"
	"github.com/dyluth/bored/pkg/address"
	"github.com/dyluth/bored/pkg/bored"
	"github.com/dyluth/bored/pkg/store"
)

var (
	createName    string
	createWidth   int
	createHeight  int
	createAddress string
	createSave    string
	createHome    bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty bored",
	Long: `Create an empty bored and print its address.

Without --address the bored gets a fresh random key; keep the printed address
safe, anyone who has it can read and write the bored. With --address
bored://some.name the key is derived from the name instead.

Examples:
  # Create a bored with the default size
  bored create --name "Town square"

  # Create a named bored and save it as the home bored
  bored create --name "Town square" --address bored://town.square --save town --home`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Name shown on the bored (required)")
	createCmd.Flags().IntVar(&createWidth, "width", 0, "Width in characters (default from bored.yml)")
	createCmd.Flags().IntVar(&createHeight, "height", 0, "Height in characters (default from bored.yml)")
	createCmd.Flags().StringVar(&createAddress, "address", "", "Address to create the bored at (default: fresh random key)")
	createCmd.Flags().StringVar(&createSave, "save", "", "Save the bored in the directory under this name")
	createCmd.Flags().BoolVar(&createHome, "home", false, "Make the saved bored the home bored (requires --save)")
	_ = createCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if createHome && createSave == "" {
		return printer.Error("--home requires --save", "Only a saved bored can be the home bored.", []string{"Add --save <name>"})
	}

	var addr address.Address
	if createAddress != "" {
		parsed, err := address.Parse(createAddress)
		if err != nil {
			return printer.Error(
				"not a bored address",
				fmt.Sprintf("'%s' is not a bored address.", createAddress),
				[]string{"Addresses look like bored://<64 hex characters> or bored://some.name"},
			)
		}
		addr = parsed
	}

	// Phase 1: Connect to store
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	width, height := createWidth, createHeight
	if width == 0 {
		width = env.config.Board.DefaultWidth
	}
	if height == 0 {
		height = env.config.Board.DefaultHeight
	}
	if width <= 0 || height <= 0 || width > 65535 || height > 65535 {
		return printer.Error(
			"invalid dimensions",
			fmt.Sprintf("A bored cannot be %dx%d.", width, height),
			[]string{"Width and height must be between 1 and 65535"},
		)
	}

	// Phase 2: Create the bored
	state, err := env.client.Create(ctx, createName, bored.Coordinate{X: uint16(width), Y: uint16(height)}, addr)
	if errors.Is(err, store.ErrAlreadyExists) {
		return printer.Error(
			"bored already exists",
			fmt.Sprintf("Something is already stored at %s.", addr),
			[]string{fmt.Sprintf("Show it instead:\n  bored show %s", addr)},
		)
	}
	if err != nil {
		return fmt.Errorf("failed to create bored: %w", err)
	}

	// Phase 3: Save to the directory
	if createSave != "" {
		dir, err := loadDirectory(env.config)
		if err != nil {
			return err
		}
		if err := dir.Add(createSave, state.Address); err != nil {
			return printer.Error("failed to save bored", err.Error(), []string{"Choose another --save name"})
		}
		if createHome {
			if err := dir.SetHome(createSave); err != nil {
				return err
			}
		}
		if err := dir.Save(env.config.DirectoryPath); err != nil {
			return err
		}
	}

	printer.Success("Created bored %q (%dx%d)\n", createName, width, height)
	printer.Detail("address", state.Address)
	if createSave != "" {
		printer.Detail("saved as", createSave)
	}
	return nil
}
