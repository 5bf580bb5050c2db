package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/iou"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Lender      string
	Borrower    string
	Principal   int64
	RatePercent int64
	Due         string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new IOU",
		Long: `Issue a new IOU from a lender to a borrower.

The transition is validated before anything is written; a rejection
lists every failed rule and commits nothing.

Exit codes:
  0 - IOU issued
  1 - Transition rejected
  2 - Command error

Examples:
  tally create --lender alice --borrower bob --principal 100 --rate 10 --due 2026-01-01T00:00:00Z
  tally create --lender alice --borrower bob --principal 100 --rate 0 --due 2026-01-01T00:00:00Z --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Lender, "lender", "", "lender identity (required)")
	cmd.Flags().StringVar(&opts.Borrower, "borrower", "", "borrower identity (required)")
	cmd.Flags().Int64Var(&opts.Principal, "principal", 0, "principal amount in minor units (required)")
	cmd.Flags().Int64Var(&opts.RatePercent, "rate", 0, "monthly interest rate in whole percent")
	cmd.Flags().StringVar(&opts.Due, "due", "", "due date, RFC 3339 (required)")
	_ = cmd.MarkFlagRequired("lender")
	_ = cmd.MarkFlagRequired("borrower")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func runCreate(opts *CreateOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	due, err := time.Parse(time.RFC3339, opts.Due)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid --due %q", opts.Due), err)
	}

	l, st, err := openLedger(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	tx := l.BuildCreate(iou.Party(opts.Lender), iou.Party(opts.Borrower), opts.Principal, opts.RatePercent, due)
	verdict, err := l.Finalize(ctx, tx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to finalize", err)
	}

	f := formatter(opts.RootOptions, cmd.OutOrStdout())
	if verdict.Accepted {
		f.VerboseLog("issued %s", tx.Outputs[0].LinearID)
	}
	return f.Verdict(verdict)
}
