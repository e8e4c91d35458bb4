package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd marks a task completed, keeping its other fields.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskdeck done <task-id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, gate *session.Gate, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	taskID := args[0]

	st, code, err := ownerStore(gw, gate)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return code
	}
	if err := st.Load(ctx); err != nil {
		return fail(errOut, err)
	}

	t, ok := st.Get(taskID)
	if !ok {
		fmt.Fprintln(errOut, "error: task not found")
		return exitcode.UserError
	}

	if _, err := st.Update(ctx, taskID, store.Fields{
		Title:      t.Title,
		Status:     model.StatusCompleted,
		Importance: t.Importance,
		Due:        t.Due,
	}); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
