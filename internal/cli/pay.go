package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/iou"
	"github.com/roach88/tally/internal/store"
)

// PayOptions holds flags for the pay command.
type PayOptions struct {
	*RootOptions
	LinearID string
	Amount   int64
	Settle   bool
}

// NewPayCommand creates the pay command.
func NewPayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Settle an IOU",
		Long: `Settle an open IOU in full.

With --amount, the given amount is proposed and the validator decides
whether it settles the debt at this instant. With --settle, the exact
required amount is computed first and proposed; note the amount can
still change if a 30-day interest boundary passes between the quote
and the commit.

Exit codes:
  0 - IOU settled
  1 - Transition rejected
  2 - Command error (instrument not found, etc.)

Examples:
  tally pay --id iou-1 --amount 100
  tally pay --id iou-1 --settle
  tally pay --id iou-1 --amount 161 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LinearID, "id", "", "linear ID of the instrument (required)")
	cmd.Flags().Int64Var(&opts.Amount, "amount", 0, "payment amount in minor units")
	cmd.Flags().BoolVar(&opts.Settle, "settle", false, "pay the exact required settlement")
	_ = cmd.MarkFlagRequired("id")
	cmd.MarkFlagsMutuallyExclusive("amount", "settle")
	cmd.MarkFlagsOneRequired("amount", "settle")

	return cmd
}

func runPay(opts *PayOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	l, st, err := openLedger(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	f := formatter(opts.RootOptions, cmd.OutOrStdout())
	id := iou.LinearID(opts.LinearID)

	amount := opts.Amount
	if opts.Settle {
		quote, err := l.SettlementQuote(ctx, id)
		if err != nil {
			return payLookupError(id, err)
		}
		amount = quote.Amount
		f.VerboseLog("settlement quote: %d (%d period(s) late)", quote.Amount, quote.PeriodsLate)
	}

	tx, err := l.BuildPay(ctx, id, amount)
	if err != nil {
		return payLookupError(id, err)
	}

	verdict, err := l.Finalize(ctx, tx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to finalize", err)
	}

	return f.Verdict(verdict)
}

func payLookupError(id iou.LinearID, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("no open instrument %s", id), err)
	}
	return WrapExitError(ExitCommandError, "failed to assemble payment", err)
}
