package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/store"
)

// NewVaultCommand creates the vault command.
func NewVaultCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "List live instruments",
		Long: `List every live instrument revision in the vault.

A revision is live until a later transition consumes it; settled IOUs
remain in the vault as their terminal paid revision.

Examples:
  tally vault
  tally vault --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVault(rootOpts, cmd)
		},
	}

	return cmd
}

func runVault(opts *RootOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	_, st, err := openLedger(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	live, err := st.ActiveInstruments(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read vault", err)
	}

	f := formatter(opts, cmd.OutOrStdout())
	if f.Format == "json" {
		return f.JSON(vaultRows(live))
	}

	w := cmd.OutOrStdout()
	if len(live) == 0 {
		fmt.Fprintln(w, "Vault is empty.")
		return nil
	}

	fmt.Fprintf(w, "Vault: %d live instrument(s)\n\n", len(live))
	for _, rev := range live {
		in := rev.Instrument
		fmt.Fprintf(w, "%s rev %d [%s]\n", in.LinearID, rev.Revision, in.Status)
		fmt.Fprintf(w, "  %s -> %s  principal %d  rate %d%%  due %s\n",
			in.Lender, in.Borrower, in.Principal, in.InterestRatePercent,
			in.DueDate.Format(time.RFC3339))
		if in.PaymentValue > 0 {
			fmt.Fprintf(w, "  paid %d\n", in.PaymentValue)
		}
	}
	return nil
}

// vaultRow is the JSON projection of a vault revision.
type vaultRow struct {
	LinearID     string    `json:"linear_id"`
	Revision     int64     `json:"revision"`
	Status       string    `json:"status"`
	Lender       string    `json:"lender"`
	Borrower     string    `json:"borrower"`
	Principal    int64     `json:"principal"`
	RatePercent  int64     `json:"interest_rate"`
	DueDate      time.Time `json:"due_date"`
	PaymentValue int64     `json:"payment_value"`
	Consumed     bool      `json:"consumed"`
}

func vaultRows(revs []store.Revision) []vaultRow {
	rows := make([]vaultRow, 0, len(revs))
	for _, rev := range revs {
		in := rev.Instrument
		rows = append(rows, vaultRow{
			LinearID:     string(in.LinearID),
			Revision:     rev.Revision,
			Status:       in.Status.String(),
			Lender:       string(in.Lender),
			Borrower:     string(in.Borrower),
			Principal:    in.Principal,
			RatePercent:  in.InterestRatePercent,
			DueDate:      in.DueDate,
			PaymentValue: in.PaymentValue,
			Consumed:     rev.Consumed,
		})
	}
	return rows
}
