package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/minimind-ai/minimind/internal/mindctl/cmd/util"
	"github.com/minimind-ai/minimind/pkg/json"
	"github.com/minimind-ai/minimind/pkg/taskwatch"
)

var createExample = heredoc.Doc(`
		# Submit a task for user 1
		mindctl tasks create --user 1 "Plan a weekend trip to NYC under $500"

		# Submit a task with extra context
		mindctl tasks create --user 1 --context '{"budget": 500}' "Plan a weekend trip"`)

// CreateOptions holds the options for the 'tasks create' sub command.
type CreateOptions struct {
	UserID      int64
	ContextJSON string

	factory *util.Factory
	util.IOStreams
}

// NewCreateOptions returns an initialized CreateOptions instance.
func NewCreateOptions(f *util.Factory, ioStreams util.IOStreams) *CreateOptions {
	return &CreateOptions{
		factory:   f,
		IOStreams: ioStreams,
	}
}

// NewCmdCreate returns the 'tasks create' sub command.
func NewCmdCreate(f *util.Factory, ioStreams util.IOStreams) *cobra.Command {
	o := NewCreateOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "create [request]",
		DisableFlagsInUseLine: true,
		Short:                 "Submit a task for decomposition and execution",
		Long: heredoc.Doc(`
			Submit a natural-language request as a new task. The server decomposes it
			into subtasks and starts executing them immediately; use 'mindctl monitor'
			to follow the progress.`),
		Example: createExample,
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Validate(args))
			util.CheckErr(o.Run(cmd.Context(), args))
		},
	}

	cmd.Flags().Int64Var(&o.UserID, "user", 0, "User id to create the task for")
	cmd.Flags().StringVar(&o.ContextJSON, "context", "", "Extra task context as a JSON object")

	return cmd
}

// Validate checks the provided options and arguments.
func (o *CreateOptions) Validate(args []string) error {
	if o.UserID <= 0 {
		return fmt.Errorf("--user is required and must be positive")
	}
	if len(args) == 0 {
		return fmt.Errorf("a request message is required")
	}
	return nil
}

// Run executes the 'tasks create' sub command.
func (o *CreateOptions) Run(ctx context.Context, args []string) error {
	req := taskwatch.CreateTaskRequest{
		UserID:  o.UserID,
		Request: strings.Join(args, " "),
	}
	if o.ContextJSON != "" {
		if err := json.Unmarshal([]byte(o.ContextJSON), &req.Context); err != nil {
			return fmt.Errorf("parse --context: %w", err)
		}
	}

	result, err := o.factory.Client().CreateTask(ctx, req)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	fmt.Fprintf(o.Out, "Task %d %s: %s\n", result.TaskID, result.Status, result.Message)
	if result.EstimatedDuration > 0 {
		fmt.Fprintf(o.Out, "Estimated duration: %ds\n", result.EstimatedDuration)
	}
	fmt.Fprintf(o.Out, "Follow it with: mindctl monitor %d\n", result.TaskID)
	return nil
}
