package draft

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tally/internal/iou"
)

//go:embed schema.cue
var schemaCUE string

// Kind discriminates the two draft shapes.
type Kind string

const (
	KindCreate Kind = "create"
	KindPay    Kind = "pay"
)

// Draft is a parsed transition draft. Exactly one of the two argument
// groups is populated, according to Kind.
type Draft struct {
	Kind Kind

	// Issuance arguments (KindCreate).
	Lender              iou.Party
	Borrower            iou.Party
	Principal           int64
	InterestRatePercent int64
	DueDate             time.Time

	// Settlement arguments (KindPay).
	LinearID iou.LinearID
	Amount   int64
}

// Load reads and parses a draft file.
// The file is unified with the embedded schema first, so shape and type
// errors carry CUE source positions.
func Load(path string) (Draft, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, fmt.Errorf("load draft: %w", err)
	}
	return Parse(path, src)
}

// Parse parses draft source. The filename is used for error positions
// only.
func Parse(filename string, src []byte) (Draft, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Draft{}, fmt.Errorf("parse draft: internal schema: %w", err)
	}

	file := ctx.CompileBytes(src, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Draft{}, formatCUEError(err)
	}

	unified := schema.Unify(file)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Draft{}, formatCUEError(err)
	}

	v := unified.LookupPath(cue.ParsePath("draft"))
	if !v.Exists() {
		return Draft{}, &CompileError{
			Field:   "draft",
			Message: "draft struct is required",
			Pos:     file.Pos(),
		}
	}

	command, err := v.LookupPath(cue.ParsePath("command")).String()
	if err != nil {
		return Draft{}, formatCUEError(err)
	}

	switch Kind(command) {
	case KindCreate:
		return parseCreate(v)
	case KindPay:
		return parsePay(v)
	default:
		// Unreachable once unification with the schema succeeded.
		return Draft{}, &CompileError{
			Field:   "command",
			Message: fmt.Sprintf("unknown command %q", command),
			Pos:     v.Pos(),
		}
	}
}

func parseCreate(v cue.Value) (Draft, error) {
	d := Draft{Kind: KindCreate}

	lender, err := v.LookupPath(cue.ParsePath("lender")).String()
	if err != nil {
		return Draft{}, formatCUEError(err)
	}
	d.Lender = iou.Party(lender)

	borrower, err := v.LookupPath(cue.ParsePath("borrower")).String()
	if err != nil {
		return Draft{}, formatCUEError(err)
	}
	d.Borrower = iou.Party(borrower)

	d.Principal, err = v.LookupPath(cue.ParsePath("principal")).Int64()
	if err != nil {
		return Draft{}, formatCUEError(err)
	}

	d.InterestRatePercent, err = v.LookupPath(cue.ParsePath("interest_rate")).Int64()
	if err != nil {
		return Draft{}, formatCUEError(err)
	}

	dueVal := v.LookupPath(cue.ParsePath("due_date"))
	dueStr, err := dueVal.String()
	if err != nil {
		return Draft{}, formatCUEError(err)
	}
	due, err := time.Parse(time.RFC3339, dueStr)
	if err != nil {
		return Draft{}, &CompileError{
			Field:   "due_date",
			Message: fmt.Sprintf("not an RFC 3339 timestamp: %v", err),
			Pos:     dueVal.Pos(),
		}
	}
	d.DueDate = due.UTC()

	return d, nil
}

func parsePay(v cue.Value) (Draft, error) {
	d := Draft{Kind: KindPay}

	id, err := v.LookupPath(cue.ParsePath("linear_id")).String()
	if err != nil {
		return Draft{}, formatCUEError(err)
	}
	d.LinearID = iou.LinearID(id)

	d.Amount, err = v.LookupPath(cue.ParsePath("amount")).Int64()
	if err != nil {
		return Draft{}, formatCUEError(err)
	}

	return d, nil
}

// CompileError is a draft parse error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
