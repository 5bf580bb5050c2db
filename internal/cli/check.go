package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/contract"
	"github.com/roach88/tally/internal/draft"
	"github.com/roach88/tally/internal/ledger"
	"github.com/roach88/tally/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <draft.cue>",
		Short: "Validate a transition draft without committing",
		Long: `Parse a CUE draft file, assemble the transition it describes and run
the validator against it at the current instant. Nothing is written
either way.

A payment draft is assembled against the live vault revision of its
instrument, so the database is consulted even though it is not
modified.

Exit codes:
  0 - Draft would be accepted
  1 - Draft would be rejected
  2 - Command error (parse failure, instrument not found, etc.)

Examples:
  tally check drafts/issue.cue
  tally check drafts/settle.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd, args[0])
		},
	}

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command, path string) error {
	ctx := context.Background()

	d, err := draft.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to parse draft %s", path), err)
	}

	l, st, err := openLedger(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	tx, err := assembleDraft(ctx, l, d)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("no open instrument %s", d.LinearID), err)
		}
		return WrapExitError(ExitCommandError, "failed to assemble draft", err)
	}

	now := contract.SystemClock{}.Now()
	result := contract.Validate(tx, now)

	f := formatter(opts.RootOptions, cmd.OutOrStdout())
	return f.Verdict(ledger.Verdict{
		Accepted:    result.Accepted(),
		ValidatedAt: now,
		Violations:  result.Violations,
	})
}

// assembleDraft turns a parsed draft into the transition it describes.
func assembleDraft(ctx context.Context, l *ledger.Ledger, d draft.Draft) (contract.Transaction, error) {
	switch d.Kind {
	case draft.KindCreate:
		return l.BuildCreate(d.Lender, d.Borrower, d.Principal, d.InterestRatePercent, d.DueDate), nil
	case draft.KindPay:
		return l.BuildPay(ctx, d.LinearID, d.Amount)
	default:
		return contract.Transaction{}, fmt.Errorf("unknown draft kind %q", d.Kind)
	}
}
