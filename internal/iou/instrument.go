package iou

import (
	"fmt"
	"time"
)

// Party is an opaque, equality-comparable identity token for a participant.
//
// The identity resolver that maps real-world identities (certificates,
// wallet keys, account names) to Party values lives outside this package;
// here a Party is only ever compared for equality and collected into
// signer sets.
type Party string

// Status is the closed lifecycle state of an instrument.
//
// Exactly two states exist. Created instruments are live debts; Paid
// instruments are terminal and can never be consumed again.
type Status int

const (
	// StatusCreated is the state of a freshly issued instrument.
	StatusCreated Status = iota

	// StatusPaid is the terminal state after settlement.
	StatusPaid
)

// String returns the stable wire name of a status.
func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusPaid:
		return "paid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus converts a wire name back to a Status.
// Unknown names are an error, never silently coerced.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "created":
		return StatusCreated, nil
	case "paid":
		return StatusPaid, nil
	default:
		return 0, fmt.Errorf("unknown instrument status %q", name)
	}
}

// MarshalJSON encodes the status as its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	switch s {
	case StatusCreated, StatusPaid:
		return []byte(`"` + s.String() + `"`), nil
	default:
		return nil, fmt.Errorf("cannot marshal invalid status %d", int(s))
	}
}

// UnmarshalJSON decodes a wire name, rejecting unknown states.
func (s *Status) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("instrument status must be a JSON string, got %s", data)
	}
	parsed, err := ParseStatus(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// LinearID correlates the pre-payment and post-payment revisions of the
// same logical debt. Revisions of one instrument share a LinearID; the
// values themselves are distinct.
type LinearID string

// Instrument is one immutable revision of a debt obligation.
//
// Field semantics follow the instrument data model:
//   - Principal is the amount originally lent (positive integer)
//   - InterestRatePercent compounds per full 30-day period past DueDate
//   - PaymentValue is 0 until settlement, then the amount actually paid
//
// The type carries no behavior that could mutate it; derivations like
// WithPayment return new values.
type Instrument struct {
	Lender              Party     `json:"lender"`
	Borrower            Party     `json:"borrower"`
	Principal           int64     `json:"principal"`
	InterestRatePercent int64     `json:"interest_rate_percent"`
	DueDate             time.Time `json:"due_date"`
	PaymentValue        int64     `json:"payment_value"`
	Status              Status    `json:"status"`
	LinearID            LinearID  `json:"linear_id"`
}

// Participants returns the identities with an ownership stake in the
// instrument, in a fixed order. Both must appear in the signer set of any
// transition that touches the instrument.
func (in Instrument) Participants() []Party {
	return []Party{in.Lender, in.Borrower}
}

// WithPayment derives the settled successor revision: same debt, same
// LinearID, payment recorded, status advanced to paid.
//
// WithPayment is an assembly helper for building Pay transitions; it does
// NOT validate the amount. The transition validator decides whether the
// recorded payment is acceptable.
func (in Instrument) WithPayment(amount int64) Instrument {
	out := in
	out.PaymentValue = amount
	out.Status = StatusPaid
	return out
}

// CanonicalMap renders the instrument as a map suitable for
// MarshalCanonical. The due date is encoded as unix seconds to keep the
// representation float-free and timezone-independent.
func (in Instrument) CanonicalMap() map[string]any {
	return map[string]any{
		"lender":                string(in.Lender),
		"borrower":              string(in.Borrower),
		"principal":             in.Principal,
		"interest_rate_percent": in.InterestRatePercent,
		"due_date":              in.DueDate.Unix(),
		"payment_value":         in.PaymentValue,
		"status":                in.Status.String(),
		"linear_id":             string(in.LinearID),
	}
}
