package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskpilot/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	AI      *apiHandler.AIHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/auth/login", handlers.Auth.Login)
	r.POST("/api/auth/refresh", handlers.Auth.Refresh)

	// Protected routes
	r.GET("/api/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/profile", authMiddleware(handlers.Profile.UpdateProfile))

	// Stats is registered before {id} so the literal path wins.
	r.GET("/api/tasks/stats", authMiddleware(handlers.Task.GetStats))
	r.GET("/api/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PUT("/api/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	r.POST("/api/ai/suggestions/{taskId}", authMiddleware(handlers.AI.GenerateSuggestions))
	r.POST("/api/ai/description", authMiddleware(handlers.AI.GenerateDescription))
	r.POST("/api/ai/breakdown/{taskId}", authMiddleware(handlers.AI.GenerateBreakdown))
	r.POST("/api/ai/categorize", authMiddleware(handlers.AI.CategorizeTask))

	return r
}
