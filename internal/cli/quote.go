package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/iou"
	"github.com/roach88/tally/internal/store"
)

// QuoteOptions holds flags for the quote command.
type QuoteOptions struct {
	*RootOptions
	LinearID string
}

// NewQuoteCommand creates the quote command.
func NewQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QuoteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote the settlement amount for an IOU",
		Long: `Compute the exact amount that settles an open IOU right now.

On time the quote equals the principal. Past due, monthly compound
interest applies per started 30-day period, truncated down to whole
minor units.

Examples:
  tally quote --id iou-1
  tally quote --id iou-1 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LinearID, "id", "", "linear ID of the instrument (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runQuote(opts *QuoteOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	l, st, err := openLedger(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	quote, err := l.SettlementQuote(ctx, iou.LinearID(opts.LinearID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("no open instrument %s", opts.LinearID), err)
		}
		return WrapExitError(ExitCommandError, "failed to quote", err)
	}

	f := formatter(opts.RootOptions, cmd.OutOrStdout())
	if f.Format == "json" {
		return f.JSON(quote)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Instrument: %s\n", quote.LinearID)
	fmt.Fprintf(w, "Principal:  %d\n", quote.Principal)
	if quote.PeriodsLate > 0 {
		fmt.Fprintf(w, "Late:       %d period(s)\n", quote.PeriodsLate)
	}
	fmt.Fprintf(w, "Settlement: %d\n", quote.Amount)
	return nil
}
