package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/tally/internal/ledger"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Transition rejected, audit dirty
	ExitCommandError = 2 // Command error (bad flags, database not found, etc.)
)

// Error code constants used in JSON error responses.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeDatabase   = "E002" // Database open/read/write failure
	ErrCodeNotFound   = "E003" // Instrument not found in vault
	ErrCodeDraft      = "E004" // Draft file parse failure
	ErrCodeRejected   = "E101" // Transition rejected by the validator
	ErrCodeAuditDirty = "E102" // Audit found problems
)

// ExitError carries a specific exit code out of a command's RunE.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool
}

// CLIResponse is the standard JSON response envelope.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a success envelope with indented JSON.
func (f *OutputFormatter) JSON(data any) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: data})
}

// JSONError writes an error envelope with indented JSON.
func (f *OutputFormatter) JSONError(code, message string, details any) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{
		Status: "error",
		Error:  &CLIError{Code: code, Message: message, Details: details},
	})
}

// Verdict renders a finalization verdict in the configured format.
// A rejection renders every violation and returns an ExitError with
// code 1; acceptance returns nil.
func (f *OutputFormatter) Verdict(v ledger.Verdict) error {
	if f.Format == "json" {
		if v.Accepted {
			return f.JSON(v)
		}
		if err := f.JSONError(ErrCodeRejected, "transition rejected", v); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "transition rejected")
	}

	if v.Accepted {
		fmt.Fprintf(f.Writer, "✓ accepted seq=%d id=%s\n", v.Seq, v.TransactionID)
		return nil
	}

	fmt.Fprintln(f.Writer, "✗ rejected")
	for _, violation := range v.Violations {
		fmt.Fprintf(f.Writer, "  %s: %s\n", violation.Rule, violation.Message)
	}
	return NewExitError(ExitFailure, "transition rejected")
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Suppressed entirely in JSON format to keep the output parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose || f.Format == "json" {
		return
	}
	fmt.Fprintf(f.Writer, format+"\n", args...)
}
