package contract

import "github.com/roach88/tally/internal/iou"

// Transaction is a fully materialized transition proposal, as delivered
// by the transaction assembler. The assembler guarantees structural
// decodability only; semantic validity is this package's job.
//
// Inputs and Outputs are ordered lists of instrument values. Signers is
// the set of identities that actually authorized the transition;
// signature cryptography itself is external, the validator only performs
// set inclusion over opaque Party values.
type Transaction struct {
	Inputs  []iou.Instrument
	Outputs []iou.Instrument
	Command Command
	Signers []iou.Party
}

// SignerSet returns the signer list as a set for inclusion checks.
func (tx Transaction) SignerSet() map[iou.Party]bool {
	set := make(map[iou.Party]bool, len(tx.Signers))
	for _, p := range tx.Signers {
		set[p] = true
	}
	return set
}

// missingSigners returns the participants of the instrument that are
// absent from the signer set, in participant order.
func missingSigners(in iou.Instrument, signers map[iou.Party]bool) []iou.Party {
	var missing []iou.Party
	for _, p := range in.Participants() {
		if !signers[p] {
			missing = append(missing, p)
		}
	}
	return missing
}
