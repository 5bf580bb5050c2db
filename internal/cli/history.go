package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/iou"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	LinearID string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the revision history of an instrument",
		Long: `Show every revision an instrument has gone through, oldest first.

Examples:
  tally history --id iou-1
  tally history --id iou-1 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LinearID, "id", "", "linear ID of the instrument (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	_, st, err := openLedger(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	history, err := st.InstrumentHistory(ctx, iou.LinearID(opts.LinearID))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}
	if len(history) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no instrument %s", opts.LinearID))
	}

	f := formatter(opts.RootOptions, cmd.OutOrStdout())
	if f.Format == "json" {
		return f.JSON(vaultRows(history))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "History of %s: %d revision(s)\n\n", opts.LinearID, len(history))
	for _, rev := range history {
		in := rev.Instrument
		liveness := "live"
		if rev.Consumed {
			liveness = "consumed"
		}
		fmt.Fprintf(w, "rev %d [%s] %s", rev.Revision, in.Status, liveness)
		if in.PaymentValue > 0 {
			fmt.Fprintf(w, "  paid %d", in.PaymentValue)
		}
		fmt.Fprintln(w)
	}
	return nil
}
