package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/glamour"
	"github.com/mitchellh/go-wordwrap"
	"github.com/moby/term"
	"github.com/spf13/cobra"

	"github.com/minimind-ai/minimind/internal/mindctl/cmd/util"
	"github.com/minimind-ai/minimind/pkg/json"
	"github.com/minimind-ai/minimind/pkg/taskwatch"
)

var resultsExample = heredoc.Doc(`
		# Show the final results of task 42
		mindctl tasks results 42

		# Show the results without terminal rendering
		mindctl tasks results 42 --plain`)

const resultsWrapWidth = 100

// ResultsOptions holds the options for the 'tasks results' sub command.
type ResultsOptions struct {
	Plain bool

	factory *util.Factory
	util.IOStreams
}

// NewResultsOptions returns an initialized ResultsOptions instance.
func NewResultsOptions(f *util.Factory, ioStreams util.IOStreams) *ResultsOptions {
	return &ResultsOptions{
		factory:   f,
		IOStreams: ioStreams,
	}
}

// NewCmdResults returns the 'tasks results' sub command.
func NewCmdResults(f *util.Factory, ioStreams util.IOStreams) *cobra.Command {
	o := NewResultsOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "results <task-id>",
		DisableFlagsInUseLine: true,
		Short:                 "Show the final results of a task",
		Long: heredoc.Doc(`
			Show the results produced by each completed agent execution of a task,
			rendered as markdown when stdout is a terminal.`),
		Example: resultsExample,
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			util.CheckErr(o.Run(cmd.Context(), args))
		},
	}

	cmd.Flags().BoolVar(&o.Plain, "plain", false, "Disable terminal markdown rendering")

	return cmd
}

// Run executes the 'tasks results' sub command.
func (o *ResultsOptions) Run(ctx context.Context, args []string) error {
	taskID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}

	snap, err := o.factory.Client().TaskSnapshot(ctx, taskID)
	if err != nil {
		return fmt.Errorf("fetch task %d: %w", taskID, err)
	}

	md := resultsMarkdown(snap)
	if o.Plain || !isTerminal(o.Out) {
		fmt.Fprintln(o.Out, wordwrap.WrapString(md, resultsWrapWidth))
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(resultsWrapWidth),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("render results: %w", err)
	}
	fmt.Fprint(o.Out, out)
	return nil
}

func isTerminal(w any) bool {
	_, isTTY := term.GetFdInfo(w)
	return isTTY
}

// resultsMarkdown builds the markdown document for a snapshot's final
// results, one section per completed execution with output.
func resultsMarkdown(snap *taskwatch.TaskSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Task %d results\n\n", snap.TaskID)
	fmt.Fprintf(&b, "Status: **%s** (%d%% complete)\n\n", snap.Status, snap.ProgressPercent())

	results := snap.FinalResults()
	if len(results) == 0 {
		b.WriteString("No results yet.\n")
		return b.String()
	}

	for _, r := range results {
		fmt.Fprintf(&b, "## %s agent (execution %d)\n\n", r.AgentType, r.ExecutionID)
		switch {
		case r.Result != nil:
			fmt.Fprintf(&b, "%v\n\n", r.Result)
		case len(r.ToolCalls) > 0:
			for _, call := range r.ToolCalls {
				fmt.Fprintf(&b, "- `%s`", call.Name)
				if len(call.Arguments) > 0 {
					fmt.Fprintf(&b, " %s", compactJSON(call.Arguments))
				}
				if call.Result != nil {
					fmt.Fprintf(&b, " -> %s", compactJSON(call.Result))
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		default:
			fmt.Fprintf(&b, "```json\n%s\n```\n\n", compactJSON(r.Raw))
		}
	}

	if failed := snap.FailedExecutions(); len(failed) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range failed {
			fmt.Fprintf(&b, "- %s agent (execution %d): %s\n", e.AgentType, e.ID, e.ErrorMessage)
		}
	}
	return b.String()
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
