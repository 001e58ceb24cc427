// Package demo implements the `mindctl demo` command, a self-contained
// walkthrough against a running server: it creates the demo user, submits
// the canned demo task and follows its progress to completion.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/minimind-ai/minimind/internal/mindctl/cmd/util"
	"github.com/minimind-ai/minimind/pkg/taskwatch"
)

var demoExample = heredoc.Doc(`
		# Run the full demo against a local server
		mindctl demo

		# Submit the demo task without waiting for it to finish
		mindctl demo --no-wait`)

const demoWaitTimeout = 2 * time.Minute

// DemoOptions holds the options for the 'demo' command.
type DemoOptions struct {
	NoWait bool

	factory *util.Factory
	util.IOStreams
}

// NewDemoOptions returns an initialized DemoOptions instance.
func NewDemoOptions(f *util.Factory, ioStreams util.IOStreams) *DemoOptions {
	return &DemoOptions{
		factory:   f,
		IOStreams: ioStreams,
	}
}

// NewCmdDemo returns the 'demo' command.
func NewCmdDemo(f *util.Factory, ioStreams util.IOStreams) *cobra.Command {
	o := NewDemoOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "demo",
		DisableFlagsInUseLine: true,
		Short:                 "Run the built-in demo workflow",
		Long: heredoc.Doc(`
			Create the demo user, submit the canned demo task and print progress
			updates until the task reaches a terminal state.`),
		Example: demoExample,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Run(cmd.Context()))
		},
	}

	cmd.Flags().BoolVar(&o.NoWait, "no-wait", false, "Submit the demo task and exit without waiting")

	return cmd
}

// Run executes the 'demo' command.
func (o *DemoOptions) Run(ctx context.Context) error {
	client := o.factory.Client()

	userID, err := client.DemoUser(ctx)
	if err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}
	fmt.Fprintf(o.Out, "Demo user ready (id %d)\n", userID)

	result, err := client.DemoTask(ctx)
	if err != nil {
		return fmt.Errorf("create demo task: %w", err)
	}
	fmt.Fprintf(o.Out, "Task %d %s: %s\n", result.TaskID, result.Status, result.Message)

	if o.NoWait {
		fmt.Fprintf(o.Out, "Follow it with: mindctl monitor %d\n", result.TaskID)
		return nil
	}
	return o.wait(ctx, result.TaskID)
}

// wait follows the task via the polling monitor, printing one line per
// applied snapshot until a terminal status arrives.
func (o *DemoOptions) wait(ctx context.Context, taskID int64) error {
	done := make(chan *taskwatch.TaskSnapshot, 1)
	cfg := &taskwatch.Config{
		Gateway: o.factory.Client(),
		OnUpdate: func(snap *taskwatch.TaskSnapshot) {
			fmt.Fprintf(o.Out, "  %3d%%  %-10s %s\n", snap.ProgressPercent(), snap.Status, snap.CurrentStep)
			if snap.Phase().Terminal() {
				select {
				case done <- snap:
				default:
				}
			}
		},
		OnError: func(err error) {
			fmt.Fprintf(o.ErrOut, "  poll error: %v\n", err)
		},
	}
	mon, err := cfg.Complete().New()
	if err != nil {
		return err
	}
	defer mon.Close()

	if _, err := mon.Select(ctx, taskID); err != nil {
		return fmt.Errorf("fetch task %d: %w", taskID, err)
	}

	timeout := time.NewTimer(demoWaitTimeout)
	defer timeout.Stop()
	select {
	case snap := <-done:
		if snap.Phase() == taskwatch.PhaseError {
			return fmt.Errorf("demo task %d ended with status %s", taskID, snap.Status)
		}
		fmt.Fprintf(o.Out, "Demo task finished. Results: mindctl tasks results %d\n", taskID)
		return nil
	case <-timeout.C:
		return fmt.Errorf("demo task %d did not finish within %s", taskID, demoWaitTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
