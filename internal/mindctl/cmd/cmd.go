// Package cmd assembles the mindctl command tree.
package cmd

import (
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/minimind-ai/minimind/internal/mindctl/cmd/demo"
	"github.com/minimind-ai/minimind/internal/mindctl/cmd/info"
	"github.com/minimind-ai/minimind/internal/mindctl/cmd/monitor"
	"github.com/minimind-ai/minimind/internal/mindctl/cmd/tasks"
	"github.com/minimind-ai/minimind/internal/mindctl/cmd/util"
	"github.com/minimind-ai/minimind/pkg/version"
)

// NewDefaultMindCtlCommand creates the `mindctl` command with default
// arguments.
func NewDefaultMindCtlCommand() *cobra.Command {
	return NewMindCtlCommand(os.Stdin, os.Stdout, os.Stderr)
}

// NewMindCtlCommand creates the `mindctl` command tree with the given
// streams.
func NewMindCtlCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cmds := &cobra.Command{
		Use:   "mindctl",
		Short: "mindctl observes and drives tasks on a minimind server",
		Long: heredoc.Doc(`
			mindctl is the CLI companion to the minimind server.

			It submits natural-language requests as tasks, lists a user's tasks,
			follows a task's decomposition and agent executions in a terminal UI,
			and renders the final results once a task completes.`),
		Version: version.String(),
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	f := util.NewFactory()
	f.AddFlags(cmds.PersistentFlags())

	ioStreams := util.IOStreams{In: in, Out: out, ErrOut: errOut}

	cmds.AddCommand(tasks.NewCmdTasks(f, ioStreams))
	cmds.AddCommand(monitor.NewCmdMonitor(f, ioStreams))
	cmds.AddCommand(demo.NewCmdDemo(f, ioStreams))
	cmds.AddCommand(info.NewCmdInfo(ioStreams))

	return cmds
}
