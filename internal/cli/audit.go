package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Replay the log and verify it still holds",
		Long: `Replay every committed transaction and verify the record:

  - each transaction is re-validated at its recorded validation instant
    and must be accepted again
  - each stored transaction ID must match the ID recomputed from the
    stored content
  - sequence numbers must be gapless from 1

Exit codes:
  0 - Log is clean
  1 - Problems found
  2 - Command error (database not found, etc.)

Examples:
  tally audit
  tally audit --format json --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(rootOpts, cmd)
		},
	}

	return cmd
}

func runAudit(opts *RootOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	l, st, err := openLedger(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := l.Audit(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "audit failed", err)
	}

	f := formatter(opts, cmd.OutOrStdout())
	if f.Format == "json" {
		if report.Clean {
			return f.JSON(report)
		}
		if err := f.JSONError(ErrCodeAuditDirty, "audit found problems", report); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "audit found problems")
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Audited %d transaction(s)\n", report.Transactions)

	if report.Clean {
		fmt.Fprintln(w, "✓ Log verified clean")
		return nil
	}

	fmt.Fprintln(w)
	for _, p := range report.Problems {
		fmt.Fprintf(w, "✗ seq %d [%s] %s\n", p.Seq, p.Kind, p.Detail)
		if opts.Verbose {
			fmt.Fprintf(w, "  transaction %s\n", p.TransactionID)
		}
	}
	fmt.Fprintf(w, "\n✗ %d problem(s) found\n", len(report.Problems))
	return NewExitError(ExitFailure, "audit found problems")
}
