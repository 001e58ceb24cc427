package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/store/inmemory"
)

// failingAgent always errors, masquerading as the given agent type.
type failingAgent struct {
	agentType string
}

func (a failingAgent) Type() string { return a.agentType }

func (a failingAgent) Execute(context.Context, *Input) (map[string]any, error) {
	return nil, errors.New("agent blew up")
}

type workflowEnv struct {
	users    *inmemory.UserStore
	tasks    *inmemory.TaskStore
	memories *inmemory.MemoryStore
	user     *entity.User
	task     *entity.Task
}

func newWorkflowEnv(t *testing.T) *workflowEnv {
	t.Helper()
	env := &workflowEnv{
		users:    inmemory.NewUserStore(),
		tasks:    inmemory.NewTaskStore(),
		memories: inmemory.NewMemoryStore(),
	}

	env.user = &entity.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, env.users.Create(context.Background(), env.user))

	env.task = &entity.Task{
		UserID:      env.user.ID,
		Title:       "Plan a weekend trip to NYC under $500",
		Description: "Plan a weekend trip to NYC under $500",
		Status:      entity.TaskStatusPending,
		Priority:    "medium",
	}
	require.NoError(t, env.tasks.CreateTask(context.Background(), env.task))
	return env
}

// newController wires the standard agent set, with overrides taking priority
// in the registry.
func (env *workflowEnv) newController(overrides ...Agent) *Controller {
	memory := NewMemoryAgent(env.users, env.tasks, env.memories)
	planner := NewPlannerAgent(env.tasks)
	agents := append([]Agent{memory, planner, NewResearchAgent()}, overrides...)
	registry := NewRegistry(NewExecutorAgent(), agents...)
	return NewController(env.tasks, memory, planner, registry, 0)
}

func TestControllerCompletesTask(t *testing.T) {
	env := newWorkflowEnv(t)
	ctx := context.Background()

	require.NoError(t, env.newController().Run(ctx, env.task.ID))

	task, err := env.tasks.GetTask(ctx, env.task.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	require.NotNil(t, task.UpdatedAt)

	subtasks, err := env.tasks.ListSubtasks(ctx, env.task.ID)
	require.NoError(t, err)
	require.Len(t, subtasks, 3)
	for i, st := range subtasks {
		require.Equal(t, i, st.OrderIndex)
		require.Equal(t, entity.SubtaskStatusCompleted, st.Status)
		require.NotNil(t, st.CompletedAt)
	}
	require.Equal(t, "Load User Context", subtasks[0].Title)
	require.Equal(t, "Research and Gather Information", subtasks[1].Title)
	require.Equal(t, "Execute Task", subtasks[2].Title)
}

func TestControllerRecordsExecutions(t *testing.T) {
	env := newWorkflowEnv(t)
	ctx := context.Background()

	require.NoError(t, env.newController().Run(ctx, env.task.ID))

	executions, err := env.tasks.ListExecutions(ctx, env.task.ID)
	require.NoError(t, err)
	require.Len(t, executions, 5)

	// Orchestration steps first, then one execution per subtask in order.
	wantTypes := []string{"memory", "planner", "memory", "research", "executor"}
	for i, e := range executions {
		require.Equal(t, wantTypes[i], e.AgentType)
		require.Equal(t, entity.ExecutionStatusCompleted, e.Status)
		require.NotNil(t, e.CompletedAt)
		require.NotNil(t, e.OutputData)
		require.Equal(t, env.task.Description, e.InputData["request"])
	}

	// Orchestration-level executions are not tied to a subtask.
	require.Nil(t, executions[0].SubtaskID)
	require.Nil(t, executions[1].SubtaskID)
	for _, e := range executions[2:] {
		require.NotNil(t, e.SubtaskID)
	}
}

func TestControllerPartialOnSingleFailure(t *testing.T) {
	env := newWorkflowEnv(t)
	ctx := context.Background()

	// 2 of 3 subtasks succeed: below the completed threshold, above partial.
	ctrl := env.newController(failingAgent{agentType: "research"})
	require.NoError(t, ctrl.Run(ctx, env.task.ID))

	task, err := env.tasks.GetTask(ctx, env.task.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TaskStatusPartial, task.Status)
	require.Nil(t, task.CompletedAt)

	subtasks, err := env.tasks.ListSubtasks(ctx, env.task.ID)
	require.NoError(t, err)
	require.Equal(t, entity.SubtaskStatusFailed, subtasks[1].Status)
	require.Nil(t, subtasks[1].CompletedAt)
}

func TestControllerErrorWhenMostSubtasksFail(t *testing.T) {
	env := newWorkflowEnv(t)
	ctx := context.Background()

	ctrl := env.newController(
		failingAgent{agentType: "research"},
		failingAgent{agentType: "executor"},
	)
	require.NoError(t, ctrl.Run(ctx, env.task.ID))

	task, err := env.tasks.GetTask(ctx, env.task.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TaskStatusError, task.Status)
	require.Nil(t, task.CompletedAt)
}

func TestControllerFailedExecutionCarriesError(t *testing.T) {
	env := newWorkflowEnv(t)
	ctx := context.Background()

	ctrl := env.newController(failingAgent{agentType: "research"})
	require.NoError(t, ctrl.Run(ctx, env.task.ID))

	executions, err := env.tasks.ListExecutions(ctx, env.task.ID)
	require.NoError(t, err)

	var failed *entity.AgentExecution
	for _, e := range executions {
		if e.Status == entity.ExecutionStatusFailed {
			require.Nil(t, failed, "expected exactly one failed execution")
			failed = e
		}
	}
	require.NotNil(t, failed)
	require.Equal(t, "research", failed.AgentType)
	require.Equal(t, "agent blew up", failed.ErrorMessage)
	require.Nil(t, failed.OutputData)
}

func TestControllerUnknownTask(t *testing.T) {
	env := newWorkflowEnv(t)
	err := env.newController().Run(context.Background(), 9999)
	require.Error(t, err)
}

func TestRegistryFallsBackToExecutor(t *testing.T) {
	fallback := NewExecutorAgent()
	registry := NewRegistry(fallback, NewResearchAgent())

	require.Equal(t, "research", registry.Resolve("research").Type())
	require.Same(t, fallback, registry.Resolve("no-such-agent"))
}
