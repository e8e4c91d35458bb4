// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/edit"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires an authenticated
	// session. Commands like help, version, login, register and logout
	// return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided. gw is the gateway client. gate holds the
	// restored session; for NeedsAuth commands the dispatcher has
	// already verified it is authenticated.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, gate *session.Gate, args []string, out, errOut io.Writer) int
}

// ownerStore builds a task store bound to the gate's principal.
func ownerStore(gw gateway.Gateway, gate *session.Gate) (*store.Store, int, error) {
	p, ok := gate.Principal()
	if !ok {
		return nil, exitcode.AuthError, errors.New("not logged in (run: taskdeck login)")
	}
	return store.New(gw, p.ID), exitcode.Success, nil
}

// fail reports err to errOut and returns the exit code matching the
// error taxonomy.
func fail(errOut io.Writer, err error) int {
	var verr *model.ValidationError
	var terr *gateway.TransportError

	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, session.ErrUserNotFound),
		errors.Is(err, session.ErrDeactivated),
		errors.Is(err, session.ErrWrongPassword):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, session.ErrEmailTaken),
		errors.Is(err, session.ErrUsernameTaken):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, gateway.ErrNotFound), errors.Is(err, edit.ErrTaskGone):
		fmt.Fprintf(errOut, "error: task not found\n")
		return exitcode.UserError
	case errors.Is(err, edit.ErrBusy), errors.Is(err, edit.ErrNotEditing):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &terr):
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// parseStatus validates a --status value, allowing the filter sentinel
// when allowAll is set.
func parseStatus(s string, allowAll bool) (model.Status, error) {
	if allowAll && s == "All" {
		return model.Status(s), nil
	}
	if !model.ValidStatus(model.Status(s)) {
		return "", &model.ValidationError{Field: "status", Reason: fmt.Sprintf("%q is not one of Pending, In Progress, Completed", s)}
	}
	return model.Status(s), nil
}

// parseImportance validates an --importance value, allowing the filter
// sentinel when allowAll is set.
func parseImportance(s string, allowAll bool) (model.Importance, error) {
	if allowAll && s == "All" {
		return model.Importance(s), nil
	}
	if !model.ValidImportance(model.Importance(s)) {
		return "", &model.ValidationError{Field: "importance", Reason: fmt.Sprintf("%q is not one of High, Medium, Low", s)}
	}
	return model.Importance(s), nil
}
