package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	status     string
	importance string
	due        string
}

// SetFields sets the flag-backed fields (for testing).
func (c *AddCmd) SetFields(status, importance, due string) {
	c.status = status
	c.importance = importance
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdeck add [--status <s>] [--importance <i>] [--due <YYYY-MM-DD>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", string(model.StatusPending), "")
	fs.StringVar(&c.status, "s", string(model.StatusPending), "")
	fs.StringVar(&c.importance, "importance", string(model.ImportanceMedium), "")
	fs.StringVar(&c.importance, "i", string(model.ImportanceMedium), "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, gate *session.Gate, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	status, err := parseStatus(c.status, false)
	if err != nil {
		return fail(errOut, err)
	}
	importance, err := parseImportance(c.importance, false)
	if err != nil {
		return fail(errOut, err)
	}

	st, code, err := ownerStore(gw, gate)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return code
	}

	created, err := st.Create(ctx, store.Fields{
		Title:      title,
		Status:     status,
		Importance: importance,
		Due:        c.due,
	})
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created %s\n", created.ID)
	}
	return exitcode.Success
}
