package router

import (
	"taskpilot/backend/internal/config"
	"taskpilot/backend/internal/handlers"
	"taskpilot/backend/internal/middleware"
	"taskpilot/backend/internal/monitoring"
	"taskpilot/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Users       *handlers.UserHandler
	Tasks       *handlers.TaskHandler
	Suggestions *handlers.SuggestionHandler
	Health      *handlers.HealthHandler
}

// Setup builds the gin engine with the full middleware chain and route
// table. Every /tasks route sits behind the auth gate.
func Setup(cfg *config.Config, tokens *services.TokenService, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryWithLog())
	r.Use(cors.Default())

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		r.Use(limiter.Middleware())
	}

	r.Use(monitoring.MetricsMiddleware())

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", h.Health.Metrics)

	users := r.Group("/users")
	{
		users.POST("/register", h.Users.Register)
		users.POST("/login", h.Users.Login)
		users.POST("/logout", h.Users.Logout)
	}

	tasks := r.Group("/tasks")
	tasks.Use(middleware.AuthRequired(tokens))
	{
		tasks.POST("/create", h.Tasks.CreateTask)
		tasks.GET("", h.Tasks.GetTasks)
		tasks.GET("/:id", h.Tasks.GetTaskByID)
		tasks.PUT("/:id", h.Tasks.UpdateTask)
		tasks.DELETE("/:id", h.Tasks.DeleteTask)
		tasks.POST("/ai-suggestions", h.Suggestions.Suggest)
	}

	return r
}
