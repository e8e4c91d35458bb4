package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
	"taskdeck/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, gate *session.Gate, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck list [common flags] [--status <s>] [--importance <i>]
  taskdeck add [common flags] [--status <s>] [--importance <i>] [--due <YYYY-MM-DD>] <title...>
  taskdeck edit [common flags] <task-id> [--title <t>] [--status <s>] [--importance <i>] [--due <YYYY-MM-DD>|none]
  taskdeck done [common flags] <task-id>
  taskdeck rm [common flags] <task-id>
  taskdeck register [common flags] --email <email> --username <name> --password <password>
  taskdeck login [common flags] --email <email> --password <password>
  taskdeck logout [common flags]
  taskdeck whoami [common flags]
  taskdeck help
  taskdeck version

Status values:      Pending, "In Progress", Completed (filters also accept All)
Importance values:  High, Medium, Low (filters also accept All)

Common flags:
  --config <dir>    Override config directory
  --gateway <url>   Override gateway base URL
  --quiet           Suppress informational output
  --debug           Print debug logs to stderr
`
