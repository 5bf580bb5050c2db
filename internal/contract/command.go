package contract

import "strconv"

// Command declares the intent of a transition.
//
// This is a sealed interface - only Create and Pay implement it. The
// marker method prevents external implementations, so a type switch over
// commands is exhaustive and there is no "unrecognized command" branch to
// maintain. Unknown command NAMES can still arrive from the outside world
// (draft files, CLI input); those are rejected at the decoding boundary
// before a Transaction ever exists.
type Command interface {
	commandNode() // Marker method - seals interface to this package

	// Name returns the stable wire name of the command.
	Name() string
}

// Create declares issuance of a new instrument:
// zero consumed instruments, one produced instrument.
type Create struct{}

func (Create) commandNode() {}

// Name returns "create".
func (Create) Name() string { return "create" }

// Pay declares settlement of an existing instrument:
// one consumed instrument (status created), one produced (status paid).
type Pay struct{}

func (Pay) commandNode() {}

// Name returns "pay".
func (Pay) Name() string { return "pay" }

// ParseCommand converts a wire name into a Command.
// This is the single decoding boundary where unknown names are rejected.
func ParseCommand(name string) (Command, error) {
	switch name {
	case "create":
		return Create{}, nil
	case "pay":
		return Pay{}, nil
	default:
		return nil, &UnknownCommandError{Name: name}
	}
}

// UnknownCommandError reports a command name outside the closed set.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command " + strconv.Quote(e.Name) + `: must be "create" or "pay"`
}
