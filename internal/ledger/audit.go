package ledger

import (
	"context"
	"fmt"

	"github.com/roach88/tally/internal/contract"
	"github.com/roach88/tally/internal/iou"
	"github.com/roach88/tally/internal/store"
)

// AuditProblem is one discrepancy found while replaying the log.
type AuditProblem struct {
	TransactionID string `json:"transaction_id"`
	Seq           int64  `json:"seq"`
	Kind          string `json:"kind"` // "verdict", "identity" or "sequence"
	Detail        string `json:"detail"`
}

// AuditReport summarizes a full deterministic replay of the ledger.
type AuditReport struct {
	Transactions int            `json:"transactions"`
	Clean        bool           `json:"clean"`
	Problems     []AuditProblem `json:"problems,omitempty"`
}

// Audit replays the committed log and verifies it still holds together:
//
//   - verdict: re-running the validator at each transaction's RECORDED
//     validation instant must accept again. Re-validating at the recorded
//     instant (not at audit time) is what makes the audit reproducible
//     despite interest being clock-sensitive.
//   - identity: the stored transaction ID must equal the ID recomputed
//     from the stored content, so any tampered row surfaces.
//   - sequence: seq numbers must be gapless from 1.
//
// Audit never mutates anything; a dirty report is a diagnosis, not a
// repair.
func (l *Ledger) Audit(ctx context.Context) (AuditReport, error) {
	log, err := l.store.AllTransactions(ctx)
	if err != nil {
		return AuditReport{}, fmt.Errorf("audit: %w", err)
	}

	report := AuditReport{Transactions: len(log)}

	for i, committed := range log {
		if committed.Seq != int64(i)+1 {
			report.Problems = append(report.Problems, AuditProblem{
				TransactionID: committed.ID,
				Seq:           committed.Seq,
				Kind:          "sequence",
				Detail:        fmt.Sprintf("expected seq %d, log has %d", i+1, committed.Seq),
			})
		}

		tx, err := reassemble(committed)
		if err != nil {
			report.Problems = append(report.Problems, AuditProblem{
				TransactionID: committed.ID,
				Seq:           committed.Seq,
				Kind:          "identity",
				Detail:        err.Error(),
			})
			continue
		}

		if result := contract.Validate(tx, committed.ValidationTime); !result.Accepted() {
			for _, v := range result.Violations {
				report.Problems = append(report.Problems, AuditProblem{
					TransactionID: committed.ID,
					Seq:           committed.Seq,
					Kind:          "verdict",
					Detail:        v.String(),
				})
			}
		}

		id, err := TransactionID(tx, committed.Seq, committed.ValidationTime)
		if err != nil {
			return AuditReport{}, fmt.Errorf("audit: recompute id: %w", err)
		}
		if id != committed.ID {
			report.Problems = append(report.Problems, AuditProblem{
				TransactionID: committed.ID,
				Seq:           committed.Seq,
				Kind:          "identity",
				Detail:        "stored content does not hash to the recorded transaction ID",
			})
		}
	}

	report.Clean = len(report.Problems) == 0
	return report, nil
}

// reassemble reconstructs the validator-facing transaction from a
// committed log record.
func reassemble(c store.Committed) (contract.Transaction, error) {
	cmd, err := contract.ParseCommand(c.Command)
	if err != nil {
		return contract.Transaction{}, fmt.Errorf("reassemble %s: %w", c.ID, err)
	}

	return contract.Transaction{
		Inputs:  instruments(c.Inputs),
		Outputs: instruments(c.Outputs),
		Command: cmd,
		Signers: c.Signers,
	}, nil
}

func instruments(revs []store.Revision) []iou.Instrument {
	if len(revs) == 0 {
		return nil
	}
	out := make([]iou.Instrument, len(revs))
	for i, r := range revs {
		out[i] = r.Instrument
	}
	return out
}
