package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/repo"
)

const maxRelevantMemories = 10

// MemoryAgent loads user preferences, task history and stored context so
// later steps run with the owner's accumulated knowledge.
type MemoryAgent struct {
	users    repo.UserRepository
	tasks    repo.TaskRepository
	memories repo.MemoryRepository
}

func NewMemoryAgent(users repo.UserRepository, tasks repo.TaskRepository, memories repo.MemoryRepository) *MemoryAgent {
	return &MemoryAgent{users: users, tasks: tasks, memories: memories}
}

func (a *MemoryAgent) Type() string { return "memory" }

func (a *MemoryAgent) Execute(ctx context.Context, in *Input) (map[string]any, error) {
	user, err := a.users.Get(ctx, in.Task.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", in.Task.UserID, err)
	}

	history, err := a.taskHistory(ctx, in.Task.UserID)
	if err != nil {
		return nil, err
	}

	relevant, err := a.relevantMemories(ctx, in.Task.UserID, "general")
	if err != nil {
		return nil, err
	}
	for _, m := range relevant {
		if err := a.memories.Touch(ctx, m.ID); err != nil {
			return nil, fmt.Errorf("failed to touch memory %d: %w", m.ID, err)
		}
	}

	summary := map[string]any{
		"user_preferences":  user.Preferences,
		"task_history":      history,
		"relevant_memories": memoryDocs(relevant),
		"current_task_context": map[string]any{
			"task_id":   in.Task.ID,
			"task_type": categorizeTask(in.Task.Title),
			"user_id":   in.Task.UserID,
		},
	}

	return map[string]any{
		"context_summary":     summary,
		"memories_accessed":   len(relevant),
		"user_context_loaded": true,
		"task_history_loaded": len(history),
		"tool_calls": []any{
			toolCallDoc("load_memories",
				map[string]any{"user_id": in.Task.UserID, "context_key": "general"},
				len(relevant)),
		},
	}, nil
}

func (a *MemoryAgent) taskHistory(ctx context.Context, userID int64) ([]map[string]any, error) {
	tasks, err := a.tasks.ListTasksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task history: %w", err)
	}
	history := make([]map[string]any, 0, 5)
	for _, t := range tasks {
		if t.Status != entity.TaskStatusCompleted {
			continue
		}
		history = append(history, map[string]any{
			"task_id":  t.ID,
			"title":    t.Title,
			"category": categorizeTask(t.Title),
		})
		if len(history) == 5 {
			break
		}
	}
	return history, nil
}

func (a *MemoryAgent) relevantMemories(ctx context.Context, userID int64, contextKey string) ([]*entity.Memory, error) {
	all, err := a.memories.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load memories: %w", err)
	}
	relevant := make([]*entity.Memory, 0, maxRelevantMemories)
	for _, m := range all {
		if !strings.Contains(m.Key, contextKey) {
			continue
		}
		relevant = append(relevant, m)
		if len(relevant) == maxRelevantMemories {
			break
		}
	}
	return relevant, nil
}

func memoryDocs(memories []*entity.Memory) []map[string]any {
	docs := make([]map[string]any, 0, len(memories))
	for _, m := range memories {
		docs = append(docs, map[string]any{
			"id":         m.ID,
			"type":       m.MemoryType,
			"key":        m.Key,
			"value":      m.Value,
			"importance": m.Importance,
		})
	}
	return docs
}

func categorizeTask(title string) string {
	lower := strings.ToLower(title)
	switch {
	case containsAny(lower, "trip", "travel", "vacation", "flight", "hotel"):
		return "travel"
	case containsAny(lower, "meeting", "agenda", "presentation"):
		return "meeting"
	case containsAny(lower, "learn", "study", "course", "education"):
		return "learning"
	case containsAny(lower, "event", "party", "celebration"):
		return "event"
	default:
		return "general"
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
