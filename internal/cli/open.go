package cli

import (
	"context"
	"io"

	"github.com/roach88/tally/internal/ledger"
	"github.com/roach88/tally/internal/store"
)

// openLedger opens the store named by --db and a ledger over it.
// The caller must Close the returned store.
func openLedger(ctx context.Context, opts *RootOptions) (*ledger.Ledger, *store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	l, err := ledger.New(ctx, st)
	if err != nil {
		st.Close()
		return nil, nil, WrapExitError(ExitCommandError, "failed to open ledger", err)
	}

	return l, st, nil
}

// formatter builds the OutputFormatter for a command invocation.
func formatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:  opts.Format,
		Writer:  w,
		Verbose: opts.Verbose,
	}
}
