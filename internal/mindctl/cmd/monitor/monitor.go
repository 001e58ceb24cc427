// Package monitor implements the `mindctl monitor` command, a terminal UI
// that follows one task's execution until it reaches a terminal state.
package monitor

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/minimind-ai/minimind/internal/mindctl/cmd/util"
	"github.com/minimind-ai/minimind/pkg/taskwatch"
)

var monitorExample = heredoc.Doc(`
		# Watch task 42 until it finishes
		mindctl monitor 42

		# Poll every 5 seconds instead of the default 2
		mindctl monitor 42 --interval 5s`)

// MonitorOptions holds the options for the 'monitor' command.
type MonitorOptions struct {
	Interval time.Duration

	factory *util.Factory
	util.IOStreams
}

// NewMonitorOptions returns an initialized MonitorOptions instance.
func NewMonitorOptions(f *util.Factory, ioStreams util.IOStreams) *MonitorOptions {
	return &MonitorOptions{
		Interval:  taskwatch.DefaultInterval,
		factory:   f,
		IOStreams: ioStreams,
	}
}

// NewCmdMonitor returns the 'monitor' command.
func NewCmdMonitor(f *util.Factory, ioStreams util.IOStreams) *cobra.Command {
	o := NewMonitorOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "monitor <task-id>",
		DisableFlagsInUseLine: true,
		Short:                 "Watch a task's progress in a terminal UI",
		Long: heredoc.Doc(`
			Open a terminal UI that polls the server for the task's status, showing
			subtasks, agent executions and their tool calls as they happen. Polling
			stops automatically once the task reaches a terminal state.

			Keys: up/down select an execution, enter expands its tool calls,
			r forces a refresh, a toggles auto-refresh, q quits.`),
		Example: monitorExample,
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Run(args))
		},
	}

	cmd.Flags().DurationVar(&o.Interval, "interval", o.Interval, "Poll interval")

	return cmd
}

// Run executes the 'monitor' command.
func (o *MonitorOptions) Run(args []string) error {
	taskID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}

	// The program pointer is captured by the monitor callbacks before the
	// program exists; the first callback can only fire after the model's Init
	// selected the task, by which time the program is running.
	var program *tea.Program
	cfg := &taskwatch.Config{
		Gateway:  o.factory.Client(),
		Interval: o.Interval,
		OnUpdate: func(snap *taskwatch.TaskSnapshot) {
			program.Send(snapshotMsg{snap: snap})
		},
		OnError: func(err error) {
			program.Send(pollErrMsg{err: err})
		},
	}
	mon, err := cfg.Complete().New()
	if err != nil {
		return err
	}
	defer mon.Close()

	program = tea.NewProgram(
		newModel(mon, taskID),
		tea.WithAltScreen(),
		tea.WithInput(o.In),
		tea.WithOutput(o.Out),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run monitor: %w", err)
	}
	return nil
}
