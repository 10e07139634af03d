package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dyluth/bored/internal/printer"
	"github.com/dyluth/bored/pkg/bored"
	"github.com/dyluth/bored/pkg/client"
)

var (
	postWidth   int
	postHeight  int
	postX       int
	postY       int
	postText    string
	postRetries int
)

var postCmd = &cobra.Command{
	Use:   "post [ADDRESS|NAME]",
	Short: "Pin a notice to a bored",
	Long: `Pin a new notice to a bored.

The notice is added on top of the latest version of the bored. If someone
else publishes first, the newer bored is fetched and the notice is pinned to
that instead, up to --retries times. If the bored has grown too big for the
store, its oldest notice is dropped to make room.

Notice text is markdown; [text](url) hyperlinks show only their text and do
not count against the notice size.

Examples:
  bored post town --text "Lost cat, answers to [Tom](bored://tom.the.cat)"
  bored post bored://town.square --x 10 --y 4 --width 30 --height 6 --text "Hello"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPost,
}

func init() {
	postCmd.Flags().IntVar(&postWidth, "width", int(bored.DefaultNoticeDimensions.X), "Notice width including its border")
	postCmd.Flags().IntVar(&postHeight, "height", int(bored.DefaultNoticeDimensions.Y), "Notice height including its border")
	postCmd.Flags().IntVar(&postX, "x", 0, "Column of the notice's top left corner")
	postCmd.Flags().IntVar(&postY, "y", 0, "Row of the notice's top left corner")
	postCmd.Flags().StringVar(&postText, "text", "", "Notice content, markdown (required)")
	postCmd.Flags().IntVar(&postRetries, "retries", 3, "How many times to retry after a conflict or a full bored")
	_ = postCmd.MarkFlagRequired("text")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if postWidth < 0 || postHeight < 0 || postX < 0 || postY < 0 ||
		postWidth > 65535 || postHeight > 65535 || postX > 65535 || postY > 65535 {
		return printer.Error("invalid notice geometry", "Positions and sizes must be between 0 and 65535.", nil)
	}
	if postRetries < 0 {
		return printer.Error("invalid --retries", "--retries cannot be negative.", nil)
	}
	dims := bored.Coordinate{X: uint16(postWidth), Y: uint16(postHeight)}
	topLeft := bored.Coordinate{X: uint16(postX), Y: uint16(postY)}

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

	// Phase 2: Fetch the latest bored
	session := client.NewSession(env.client, client.State{})
	if err := session.Go(ctx, addr); err != nil {
		return fetchError(addr, err)
	}

	// Phase 3: Draft and publish, retrying on conflict or overflow
	for attempt := 0; ; attempt++ {
		if err := draftNotice(session, dims, topLeft); err != nil {
			return err
		}

		err := session.AddDraft(ctx)
		if err == nil {
			state := session.State()
			printer.Success("Pinned notice to %q\n", state.Bored.Name())
			printer.Detail("version", state.Counter)
			printer.Detail("notices", state.Bored.Len())
			return nil
		}

		_, conflict := client.IsConflict(err)
		tooLarge := errors.Is(err, client.ErrCapacityExceeded)
		if !conflict && !tooLarge {
			return fmt.Errorf("failed to publish notice: %w", err)
		}
		if attempt >= postRetries {
			return printer.ErrorWithContext(
				"failed to pin notice",
				fmt.Sprintf("Gave up after %d attempts.", attempt+1),
				map[string]string{"last error": err.Error()},
				[]string{"Try again later", "Increase --retries"},
			)
		}

		if conflict {
			printer.Warning("Someone else published first, retrying on version %d\n", session.State().Counter)
		} else {
			printer.Warning("Bored is full, dropped its oldest notice, retrying\n")
		}
		env.logger.Debug("retrying post", zap.Int("attempt", attempt+1), zap.Error(err))
	}
}

// draftNotice prepares the session's draft, explaining what does not fit
func draftNotice(session *client.Session, dims, topLeft bored.Coordinate) error {
	boardDims := session.State().Bored.Dimensions()
	if err := session.CreateDraft(dims); err != nil {
		return printer.Error(
			"notice does not fit",
			fmt.Sprintf("A %dx%d notice is bigger than the %dx%d bored.", dims.X, dims.Y, boardDims.X, boardDims.Y),
			[]string{"Use a smaller --width or --height"},
		)
	}
	if err := session.EditDraft(postText); err != nil {
		draft, _ := session.Draft()
		return printer.Error(
			"too much text",
			fmt.Sprintf("A %dx%d notice holds %d characters on %d lines.", dims.X, dims.Y, draft.MaxChars(), draft.MaxLines()),
			[]string{"Shorten --text", "Use a bigger --width or --height"},
		)
	}
	if err := session.PositionDraft(topLeft); err != nil {
		return printer.Error(
			"notice is off the bored",
			fmt.Sprintf("A %dx%d notice at %d,%d does not fit on the %dx%d bored.", dims.X, dims.Y, topLeft.X, topLeft.Y, boardDims.X, boardDims.Y),
			[]string{"Move it with --x and --y"},
		)
	}
	return nil
}
