package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyluth/bored/internal/printer"
	"github.com/dyluth/bored/internal/render"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show [ADDRESS|NAME]",
	Short: "Show a bored",
	Long: `Fetch a bored and draw it.

The bored may be given as an address or a directory name; without one the
home bored is shown.

Formats:
  text      - notices drawn with their borders, later notices on top
  html      - visible notices as sanitized, positioned HTML
  occlusion - which notice is visible in every cell
  links     - the hyperlink map and every visible hyperlink

Examples:
  bored show bored://town.square
  bored show town --format links`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "text", "Output format (text, html, occlusion, links)")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := render.ParseFormat(showFormat)
	if err != nil {
		return printer.Error("invalid output format", err.Error(), []string{"Valid formats: text, html, occlusion, links"})
	}

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

	// Phase 2: Fetch
	b, counter, err := env.client.Fetch(ctx, addr)
	if err != nil {
		return fetchError(addr, err)
	}

	// Phase 3: Render
	if format == render.FormatText {
		printer.Info("%s (version %d, %d notices)\n", b.Name(), counter, b.Len())
	}
	if err := render.Write(printer.Stdout(), b, format); err != nil {
		return fmt.Errorf("failed to render bored: %w", err)
	}
	return nil
}
