package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/bored/internal/printer"
	"github.com/dyluth/bored/pkg/address"
)

var directoryCmd = &cobra.Command{
	Use:     "directory",
	Aliases: []string{"dir"},
	Short:   "Manage the directory of saved boreds",
	Long: `Manage the directory of saved boreds.

Saved boreds can be named instead of typing their address, and the home
bored is used by show, post, prune and watch when no bored is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var directoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved boreds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, err := loadDirectory(cfg)
		if err != nil {
			return err
		}
		dir.FormatTable(printer.Stdout())
		return nil
	},
}

var directoryAddCmd = &cobra.Command{
	Use:   "add NAME ADDRESS",
	Short: "Save a bored under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := address.Parse(args[1])
		if err != nil {
			return printer.Error(
				"not a bored address",
				fmt.Sprintf("'%s' is not a bored address.", args[1]),
				[]string{"Addresses look like bored://<64 hex characters> or bored://some.name"},
			)
		}
		return updateDirectory(func(dir directoryEditor) error {
			return dir.Add(args[0], addr)
		}, "Saved %s as %q\n", addr, args[0])
	},
}

var directoryRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Forget a saved bored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateDirectory(func(dir directoryEditor) error {
			return dir.Remove(args[0])
		}, "Removed %q\n", args[0])
	},
}

var directoryHomeCmd = &cobra.Command{
	Use:   "home [NAME]",
	Short: "Show or set the home bored",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return updateDirectory(func(dir directoryEditor) error {
				return dir.SetHome(args[0])
			}, "Home bored is now %q\n", args[0])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir, err := loadDirectory(cfg)
		if err != nil {
			return err
		}
		addr, err := dir.HomeAddress()
		if err != nil {
			return printer.Error("no home bored", "No home bored is set.", []string{"Set one:\n  bored directory home <name>"})
		}
		printer.Println(dir.Home, addr)
		return nil
	},
}

// directoryEditor is the part of a directory the subcommands change
type directoryEditor interface {
	Add(name string, addr address.Address) error
	Remove(name string) error
	SetHome(name string) error
}

// updateDirectory loads the directory, applies edit, saves it and prints the
// success message
func updateDirectory(edit func(directoryEditor) error, format string, a ...any) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir, err := loadDirectory(cfg)
	if err != nil {
		return err
	}
	if err := edit(dir); err != nil {
		return printer.Error("directory not changed", err.Error(), []string{"List saved boreds:\n  bored directory list"})
	}
	if err := dir.Save(cfg.DirectoryPath); err != nil {
		return err
	}
	printer.Success(format, a...)
	return nil
}

func init() {
	directoryCmd.AddCommand(directoryListCmd, directoryAddCmd, directoryRemoveCmd, directoryHomeCmd)
	rootCmd.AddCommand(directoryCmd)
}
