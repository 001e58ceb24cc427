package minimind

import (
	"github.com/gin-gonic/gin"

	"github.com/minimind-ai/minimind/internal/minimind/handler/middleware"
	v1 "github.com/minimind-ai/minimind/internal/minimind/handler/v1"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service"
)

// routerDeps holds the dependencies needed for route registration.
type routerDeps struct {
	taskService service.TaskService
	authConfig  *middleware.AuthConfig
}

func initRouter(g *gin.Engine, deps *routerDeps) {
	installMiddleware(g, deps)
	installController(g, deps)
}

func installMiddleware(g *gin.Engine, deps *routerDeps) {
	g.Use(gin.Recovery())
	g.Use(middleware.RequestID())
	g.Use(middleware.CORS())

	if deps.authConfig != nil {
		g.Use(middleware.BearerAuth(deps.authConfig))
	}
}

func installController(g *gin.Engine, deps *routerDeps) {
	// Handlers.
	userHandler := v1.NewUserHandler(deps.taskService)
	taskHandler := v1.NewTaskHandler(deps.taskService)
	memoryHandler := v1.NewMemoryHandler(deps.taskService)
	eventHandler := v1.NewEventHandler(deps.taskService)
	reportHandler := v1.NewReportHandler(deps.taskService)
	demoHandler := v1.NewDemoHandler(deps.taskService)

	// Users.
	g.POST("/users", userHandler.Create)
	g.GET("/users/:id", userHandler.Get)
	g.PUT("/users/:id/preferences", userHandler.UpdatePreferences)

	// Tasks.
	g.POST("/tasks", taskHandler.Create)
	g.GET("/tasks/:id", taskHandler.GetStatus)
	g.GET("/tasks/:id/progress", taskHandler.GetProgress)
	g.GET("/tasks/:id/events", eventHandler.Stream)
	g.GET("/tasks/:id/report", reportHandler.Render)
	g.GET("/users/:id/tasks", taskHandler.ListByUser)

	// Memories.
	g.POST("/users/:id/memories", memoryHandler.Store)
	g.GET("/users/:id/memories", memoryHandler.List)

	// Demo shortcuts.
	g.POST("/demo/create-user", demoHandler.CreateUser)
	g.POST("/demo/task", demoHandler.CreateTask)
	g.GET("/demo/tasks/:id", demoHandler.GetProgress)
}
