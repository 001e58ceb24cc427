package service

import (
	"context"
	"fmt"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/repo"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service/workflow"
	"github.com/minimind-ai/minimind/pkg/log"
)

const maxTitleLength = 200

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	userRepo   repo.UserRepository
	taskRepo   repo.TaskRepository
	memoryRepo repo.MemoryRepository
	controller *workflow.Controller
}

func NewTaskService(userRepo repo.UserRepository, taskRepo repo.TaskRepository,
	memoryRepo repo.MemoryRepository, controller *workflow.Controller) TaskService {
	return &taskServiceImpl{
		userRepo:   userRepo,
		taskRepo:   taskRepo,
		memoryRepo: memoryRepo,
		controller: controller,
	}
}

func (s *taskServiceImpl) CreateUser(ctx context.Context, user *entity.User) error {
	return s.userRepo.Create(ctx, user)
}

func (s *taskServiceImpl) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.Get(ctx, id)
}

func (s *taskServiceImpl) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *taskServiceImpl) UpdateUserPreferences(ctx context.Context, userID int64, preferences map[string]any) (*entity.User, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Preferences == nil {
		user.Preferences = make(map[string]any, len(preferences))
	}
	for k, v := range preferences {
		user.Preferences[k] = v
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, userID int64, request string, taskContext map[string]any) (*entity.Task, error) {
	if _, err := s.userRepo.Get(ctx, userID); err != nil {
		return nil, err
	}

	title := request
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}
	priority := "medium"
	if p, ok := taskContext["priority"].(string); ok && p != "" {
		priority = p
	}

	task := &entity.Task{
		UserID:      userID,
		Title:       title,
		Description: request,
		Status:      entity.TaskStatusPending,
		Priority:    priority,
	}
	if err := s.taskRepo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// The workflow outlives the request.
	go func() {
		if err := s.controller.Run(context.Background(), task.ID); err != nil {
			log.Error("workflow for task %d aborted: %v", task.ID, err)
		}
	}()

	return task, nil
}

func (s *taskServiceImpl) GetTaskDetail(ctx context.Context, taskID int64) (*TaskDetail, error) {
	task, err := s.taskRepo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	subtasks, err := s.taskRepo.ListSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}
	executions, err := s.taskRepo.ListExecutions(ctx, taskID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, st := range subtasks {
		if st.Status == entity.SubtaskStatusCompleted {
			completed++
		}
	}

	return &TaskDetail{
		Task:        task,
		Subtasks:    subtasks,
		Executions:  executions,
		Progress:    progressPercent(completed, len(subtasks)),
		CurrentStep: currentStep(subtasks),
	}, nil
}

func (s *taskServiceImpl) ListUserTasks(ctx context.Context, userID int64) ([]*TaskOverview, error) {
	if _, err := s.userRepo.Get(ctx, userID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListTasksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overviews := make([]*TaskOverview, 0, len(tasks))
	for _, task := range tasks {
		subtasks, err := s.taskRepo.ListSubtasks(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		completed := 0
		for _, st := range subtasks {
			if st.Status == entity.SubtaskStatusCompleted {
				completed++
			}
		}
		overviews = append(overviews, &TaskOverview{
			Task:              task,
			SubtaskCount:      len(subtasks),
			CompletedSubtasks: completed,
			Progress:          progressPercent(completed, len(subtasks)),
		})
	}
	return overviews, nil
}

func (s *taskServiceImpl) StoreMemory(ctx context.Context, memory *entity.Memory) error {
	if _, err := s.userRepo.Get(ctx, memory.UserID); err != nil {
		return err
	}
	if memory.Importance == 0 {
		memory.Importance = 5
	}
	return s.memoryRepo.Create(ctx, memory)
}

func (s *taskServiceImpl) ListUserMemories(ctx context.Context, userID int64, memoryType string) ([]*entity.Memory, error) {
	if _, err := s.userRepo.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.memoryRepo.ListByUser(ctx, userID, memoryType)
}

func progressPercent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// currentStep reports the subtask being executed, or the next pending one.
func currentStep(subtasks []*entity.Subtask) string {
	if len(subtasks) == 0 {
		return ""
	}
	for _, st := range subtasks {
		switch st.Status {
		case entity.SubtaskStatusExecuting:
			return st.Title
		case entity.SubtaskStatusPending:
			return "Next: " + st.Title
		}
	}
	for _, st := range subtasks {
		if st.Status != entity.SubtaskStatusCompleted {
			return "Unknown"
		}
	}
	return "Completed"
}
