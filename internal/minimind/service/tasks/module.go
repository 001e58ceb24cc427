package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/repo"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service/workflow"
	boltdbStore "github.com/minimind-ai/minimind/internal/minimind/service/tasks/store/boltdb"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/store/inmemory"
	sqliteStore "github.com/minimind-ai/minimind/internal/minimind/service/tasks/store/sqlite"
	"github.com/minimind-ai/minimind/pkg/log"
)

// Config holds the configuration for the Tasks module.
// Follows K8S-style: Config → Complete() → New(ctx).
type Config struct {
	// StoreType selects the persistence backend: "inmemory", "boltdb"
	// or "sqlite". Default: "inmemory".
	StoreType string `json:"store_type,omitempty"`

	// BoltDBPath is the file path for BoltDB storage (when StoreType="boltdb").
	// Default: "data/minimind.db".
	BoltDBPath string `json:"boltdb_path,omitempty"`

	// SQLitePath is the file path for SQLite storage (when StoreType="sqlite").
	// Default: "data/minimind.sqlite".
	SQLitePath string `json:"sqlite_path,omitempty"`

	// StepDelay is the pause between subtask executions (default: 1s).
	StepDelay time.Duration `json:"step_delay,omitempty"`
}

// CompletedConfig is the validated and completed configuration.
type CompletedConfig struct {
	*Config
}

// Complete validates and fills defaults.
func (c *Config) Complete() CompletedConfig {
	if c.StoreType == "" {
		c.StoreType = "inmemory"
	}
	if c.BoltDBPath == "" {
		c.BoltDBPath = "data/minimind.db"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "data/minimind.sqlite"
	}
	if c.StepDelay <= 0 {
		c.StepDelay = workflow.DefaultStepDelay
	}
	return CompletedConfig{c}
}

// Module is the top-level Tasks module, holding all domain services.
type Module struct {
	Service service.TaskService

	boltDB   *boltdbStore.DB
	sqliteDB *sqliteStore.DB
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m.boltDB != nil {
		return m.boltDB.Close()
	}
	if m.sqliteDB != nil {
		return m.sqliteDB.Close()
	}
	return nil
}

// New creates and initializes the Tasks module from a completed config.
func (c CompletedConfig) New(_ context.Context) (*Module, error) {
	log.Info("[Tasks] creating Tasks module...")

	var (
		userStore   repo.UserRepository
		taskStore   repo.TaskRepository
		memoryStore repo.MemoryRepository
		boltDB      *boltdbStore.DB
		sqliteDB    *sqliteStore.DB
	)

	switch c.StoreType {
	case "boltdb":
		var err error
		boltDB, err = boltdbStore.Open(c.BoltDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open boltdb at %s: %w", c.BoltDBPath, err)
		}
		userStore = boltdbStore.NewUserStore(boltDB)
		taskStore = boltdbStore.NewTaskStore(boltDB)
		memoryStore = boltdbStore.NewMemoryStore(boltDB)
		log.Info("[Tasks] using BoltDB store at %s", c.BoltDBPath)
	case "sqlite":
		var err error
		sqliteDB, err = sqliteStore.Open(c.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", c.SQLitePath, err)
		}
		userStore = sqliteStore.NewUserStore(sqliteDB)
		taskStore = sqliteStore.NewTaskStore(sqliteDB)
		memoryStore = sqliteStore.NewMemoryStore(sqliteDB)
		log.Info("[Tasks] using SQLite store at %s", c.SQLitePath)
	default:
		userStore = inmemory.NewUserStore()
		taskStore = inmemory.NewTaskStore()
		memoryStore = inmemory.NewMemoryStore()
		log.Info("[Tasks] using in-memory store")
	}

	// Workflow: deterministic agents behind a registry, executor as fallback.
	executor := workflow.NewExecutorAgent()
	memory := workflow.NewMemoryAgent(userStore, taskStore, memoryStore)
	planner := workflow.NewPlannerAgent(taskStore)
	registry := workflow.NewRegistry(executor,
		memory,
		planner,
		workflow.NewResearchAgent(),
	)
	controller := workflow.NewController(taskStore, memory, planner, registry, c.StepDelay)

	svc := service.NewTaskService(userStore, taskStore, memoryStore, controller)

	log.Info("[Tasks] Tasks module initialized (store=%s, step_delay=%s)", c.StoreType, c.StepDelay)

	return &Module{
		Service:  svc,
		boltDB:   boltDB,
		sqliteDB: sqliteDB,
	}, nil
}
