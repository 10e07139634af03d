package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/bored/internal/printer"
)

var (
	version string
	commit  string
	date    string

	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bored",
	Short: "Bored - a shared, persistent pin-board",
	Long: `Bored is a shared pin-board. Anyone holding a bored's address can read it
and pin notices to it; every copy is encrypted with the address key before it
reaches the store.

Notices are small rectangles of markdown placed anywhere on the bored. Later
notices cover earlier ones, and notices that are completely covered can be
pruned.`,
	Version: version,
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err != nil && !printer.IsPrinted(err) {
		printer.Error("Error: "+err.Error(), "", nil)
	}
	return err
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "bored.yml", "Path to bored.yml (defaults are used if it does not exist)")
}
