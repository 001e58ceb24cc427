package tasks

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/minimind-ai/minimind/internal/mindctl/cmd/util"
)

var listExample = heredoc.Doc(`
		# List the tasks of user 1, newest first
		mindctl tasks list --user 1`)

// ListOptions holds the options for the 'tasks list' sub command.
type ListOptions struct {
	UserID int64

	factory *util.Factory
	util.IOStreams
}

// NewListOptions returns an initialized ListOptions instance.
func NewListOptions(f *util.Factory, ioStreams util.IOStreams) *ListOptions {
	return &ListOptions{
		factory:   f,
		IOStreams: ioStreams,
	}
}

// NewCmdList returns the 'tasks list' sub command.
func NewCmdList(f *util.Factory, ioStreams util.IOStreams) *cobra.Command {
	o := NewListOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "list",
		DisableFlagsInUseLine: true,
		Short:                 "List a user's tasks",
		Long:                  "List a user's tasks, newest first.",
		Example:               listExample,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Validate())
			util.CheckErr(o.Run(cmd.Context()))
		},
	}

	cmd.Flags().Int64Var(&o.UserID, "user", 0, "User id whose tasks to list")

	return cmd
}

// Validate checks the provided options.
func (o *ListOptions) Validate() error {
	if o.UserID <= 0 {
		return fmt.Errorf("--user is required and must be positive")
	}
	return nil
}

// Run executes the 'tasks list' sub command.
func (o *ListOptions) Run(ctx context.Context) error {
	tasks, err := o.factory.Client().UserTasks(ctx, o.UserID)
	if err != nil {
		return fmt.Errorf("list tasks for user %d: %w", o.UserID, err)
	}
	if len(tasks) == 0 {
		fmt.Fprintf(o.Out, "No tasks found for user %d.\n", o.UserID)
		return nil
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("ID", "TITLE", "STATUS", "PROGRESS", "SUBTASKS", "CREATED")
	for _, t := range tasks {
		table.AddRow(
			t.ID,
			t.Title,
			colorStatus(t.Status),
			fmt.Sprintf("%.0f%%", t.Progress),
			fmt.Sprintf("%d/%d", t.CompletedSubtasks, t.SubtaskCount),
			t.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	fmt.Fprintln(o.Out, table)
	return nil
}
