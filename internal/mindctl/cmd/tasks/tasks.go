// Package tasks implements the `mindctl tasks` command group: listing a
// user's tasks, submitting new ones and rendering final results.
package tasks

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minimind-ai/minimind/internal/mindctl/cmd/util"
)

// NewCmdTasks returns the `tasks` parent command.
func NewCmdTasks(f *util.Factory, ioStreams util.IOStreams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and submit tasks",
		Long:  "Inspect and submit tasks on the minimind server.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(NewCmdList(f, ioStreams))
	cmd.AddCommand(NewCmdCreate(f, ioStreams))
	cmd.AddCommand(NewCmdResults(f, ioStreams))

	return cmd
}

// colorStatus renders a task or subtask status with a terminal color that
// matches its severity.
func colorStatus(status string) string {
	switch strings.ToLower(status) {
	case "completed":
		return color.GreenString(status)
	case "running", "executing":
		return color.YellowString(status)
	case "error", "failed":
		return color.RedString(status)
	case "partial":
		return color.MagentaString(status)
	default:
		return status
	}
}
