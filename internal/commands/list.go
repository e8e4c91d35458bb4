package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/filter"
	"taskdeck/internal/gateway"
	"taskdeck/internal/output"
	"taskdeck/internal/session"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command: load the owner's tasks and print
// the filtered projection.
type ListCmd struct {
	status     string
	importance string
}

// SetFilters sets the filter values (for testing).
func (c *ListCmd) SetFilters(status, importance string) {
	c.status = status
	c.importance = importance
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskdeck list [--status <s>] [--importance <i>]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", filter.All, "")
	fs.StringVar(&c.status, "s", filter.All, "")
	fs.StringVar(&c.importance, "importance", filter.All, "")
	fs.StringVar(&c.importance, "i", filter.All, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, gate *session.Gate, args []string, out, errOut io.Writer) int {
	if _, err := parseStatus(c.status, true); err != nil {
		return fail(errOut, err)
	}
	if _, err := parseImportance(c.importance, true); err != nil {
		return fail(errOut, err)
	}

	st, code, err := ownerStore(gw, gate)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return code
	}

	if err := st.Load(ctx); err != nil {
		return fail(errOut, err)
	}

	tasks := st.Tasks()
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	f := filter.Filter{Status: c.status, Importance: c.importance}
	projected := filter.Project(tasks, f)

	if f.Active() {
		output.FormatCount(out, len(projected), len(tasks))
	}
	if len(projected) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks match the selected filters")
		}
		return exitcode.Success
	}

	output.FormatTaskHeader(out)
	for _, t := range projected {
		output.FormatTaskRow(out, t)
	}
	return exitcode.Success
}
