package workflow

import (
	"context"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
)

// Input carries everything an agent may consult for one invocation.
type Input struct {
	Task     *entity.Task
	Subtask  *entity.Subtask
	Memories []*entity.Memory
}

// Agent executes one unit of work against a task. The returned document
// becomes the execution's output payload; tool invocations are recorded
// under the "tool_calls" key.
type Agent interface {
	Type() string
	Execute(ctx context.Context, in *Input) (map[string]any, error)
}

func toolCallDoc(name string, args map[string]any, result any) map[string]any {
	return map[string]any{
		"name":      name,
		"arguments": args,
		"result":    result,
	}
}
