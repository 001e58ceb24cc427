package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
)

func TestPlannerCreatesFixedPlan(t *testing.T) {
	env := newWorkflowEnv(t)
	ctx := context.Background()

	planner := NewPlannerAgent(env.tasks)
	out, err := planner.Execute(ctx, &Input{Task: env.task})
	require.NoError(t, err)

	require.Equal(t, 3, out["subtasks_created"])
	require.Equal(t, 330, out["estimated_duration"])
	require.Equal(t, "simple", out["complexity_level"])

	subtasks, err := env.tasks.ListSubtasks(ctx, env.task.ID)
	require.NoError(t, err)
	require.Len(t, subtasks, 3)

	wantAgents := []string{"memory", "research", "executor"}
	for i, st := range subtasks {
		require.Equal(t, wantAgents[i], st.AgentType)
		require.Equal(t, entity.SubtaskStatusPending, st.Status)
		require.Equal(t, env.task.ID, st.TaskID)
	}
}

func TestMemoryAgentLoadsAndTouchesContext(t *testing.T) {
	env := newWorkflowEnv(t)
	ctx := context.Background()

	stored := &entity.Memory{
		UserID:     env.user.ID,
		MemoryType: "context",
		Key:        "general_travel",
		Value:      map[string]any{"budget": "low"},
		Importance: 8,
	}
	require.NoError(t, env.memories.Create(ctx, stored))
	// A memory whose key does not mention the context key is ignored.
	require.NoError(t, env.memories.Create(ctx, &entity.Memory{
		UserID:     env.user.ID,
		MemoryType: "preference",
		Key:        "food",
		Importance: 9,
	}))

	agent := NewMemoryAgent(env.users, env.tasks, env.memories)
	out, err := agent.Execute(ctx, &Input{Task: env.task})
	require.NoError(t, err)

	require.Equal(t, 1, out["memories_accessed"])
	require.Equal(t, true, out["user_context_loaded"])

	summary, ok := out["context_summary"].(map[string]any)
	require.True(t, ok)
	taskCtx, ok := summary["current_task_context"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "travel", taskCtx["task_type"])

	// Accessing the memory must bump its recency.
	after, err := env.memories.ListByUser(ctx, env.user.ID, "context")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.True(t, after[0].LastAccessed.After(stored.CreatedAt) || after[0].LastAccessed.Equal(stored.CreatedAt))
}

func TestMemoryAgentUnknownUser(t *testing.T) {
	env := newWorkflowEnv(t)
	agent := NewMemoryAgent(env.users, env.tasks, env.memories)

	task := &entity.Task{ID: env.task.ID, UserID: 404, Title: "x", Description: "x"}
	_, err := agent.Execute(context.Background(), &Input{Task: task})
	require.Error(t, err)
}

func TestResearchAgentRecordsSearch(t *testing.T) {
	env := newWorkflowEnv(t)
	subtask := &entity.Subtask{Title: "Research and Gather Information"}

	out, err := NewResearchAgent().Execute(context.Background(), &Input{Task: env.task, Subtask: subtask})
	require.NoError(t, err)
	require.Equal(t, "medium", out["confidence_level"])

	calls, ok := out["tool_calls"].([]any)
	require.True(t, ok)
	require.Len(t, calls, 1)
	call, ok := calls[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "web_search", call["name"])
	args, ok := call["arguments"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, subtask.Title, args["query"])
}

func TestExecutorAgentProducesResult(t *testing.T) {
	env := newWorkflowEnv(t)

	out, err := NewExecutorAgent().Execute(context.Background(), &Input{Task: env.task})
	require.NoError(t, err)
	result, ok := out["result"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, result)
}

func TestCategorizeTask(t *testing.T) {
	cases := map[string]string{
		"Plan a weekend trip to NYC": "travel",
		"Prepare the board meeting":  "meeting",
		"Study for the Go course":    "learning",
		"Organize a birthday party":  "event",
		"Do the dishes":              "general",
	}
	for title, want := range cases {
		assert.Equal(t, want, categorizeTask(title), title)
	}
}
