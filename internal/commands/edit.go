package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/edit"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
	"taskdeck/internal/session"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. It runs one inline-edit session:
// begin on the task, overlay the provided flags onto the draft, commit.
// Flags left unset keep the task's current value; "--due none" clears
// the due date.
type EditCmd struct {
	title      string
	status     string
	importance string
	due        string
}

// SetFields sets the flag-backed fields (for testing).
func (c *EditCmd) SetFields(title, status, importance, due string) {
	c.title = title
	c.status = status
	c.importance = importance
	c.due = due
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "taskdeck edit <task-id> [--title <t>] [--status <s>] [--importance <i>] [--due <YYYY-MM-DD>|none]"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
	fs.StringVar(&c.importance, "importance", "", "")
	fs.StringVar(&c.importance, "i", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, gate *session.Gate, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	taskID := args[0]

	if c.title == "" && c.status == "" && c.importance == "" && c.due == "" {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	st, code, err := ownerStore(gw, gate)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return code
	}
	if err := st.Load(ctx); err != nil {
		return fail(errOut, err)
	}

	sess := edit.NewSession(st)
	if err := sess.Begin(taskID); err != nil {
		return fail(errOut, err)
	}

	draft, _ := sess.Draft()
	if c.title != "" {
		draft.Title = c.title
	}
	if c.status != "" {
		status, err := parseStatus(c.status, false)
		if err != nil {
			sess.Cancel()
			return fail(errOut, err)
		}
		draft.Status = status
	}
	if c.importance != "" {
		importance, err := parseImportance(c.importance, false)
		if err != nil {
			sess.Cancel()
			return fail(errOut, err)
		}
		draft.Importance = importance
	}
	if c.due != "" {
		if c.due == "none" {
			draft.Due = ""
		} else {
			draft.Due = c.due
		}
	}
	if err := sess.SetDraft(draft); err != nil {
		return fail(errOut, err)
	}

	updated, err := sess.Commit(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "updated %s\n", updated.ID)
	}
	return exitcode.Success
}
