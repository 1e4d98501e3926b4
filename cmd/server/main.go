package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskpilot/backend/internal/ai"
	"taskpilot/backend/internal/cache"
	"taskpilot/backend/internal/config"
	"taskpilot/backend/internal/database"
	"taskpilot/backend/internal/handlers"
	"taskpilot/backend/internal/monitoring"
	"taskpilot/backend/internal/router"
	"taskpilot/backend/internal/services"
	"taskpilot/backend/internal/worker"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	poolConfig := database.DefaultPoolConfig()
	poolConfig.DSN = cfg.GetDatabaseDSN()
	poolConfig.MaxOpenConns = cfg.Database.MaxOpenConns
	poolConfig.MaxIdleConns = cfg.Database.MaxIdleConns
	poolConfig.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.ConnMaxIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := database.NewDatabasePool(poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Connected to DB")

	tokens := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var taskService services.TaskService = services.NewTaskService()

	healthChecker := monitoring.NewHealthChecker()
	healthChecker.Register("database", func(ctx context.Context) error {
		return pool.Health()
	})

	var reminderQueue *worker.JobQueue
	var reminderWorker *worker.Worker

	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(&cache.CacheConfig{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		defer redisCache.Close()

		taskService = services.NewCachedTaskService(taskService, redisCache)

		healthChecker.Register("redis", func(ctx context.Context) error {
			return redisCache.Health()
		})

		reminderQueue = worker.NewJobQueue(redisCache.Client())
		reminderWorker = worker.NewWorker(worker.WorkerConfig{
			RedisClient:  redisCache.Client(),
			Queues:       cfg.Worker.Queues,
			PollInterval: cfg.Worker.PollInterval,
		})
		reminderWorker.RegisterHandler(worker.JobTypeTaskReminder, worker.LogReminderHandler)
		reminderWorker.Start(cfg.Worker.Concurrency)
		defer reminderWorker.Stop()
	}

	gemini := ai.NewGeminiClient(ai.GeminiConfig{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
		Timeout: cfg.AI.Timeout,
	})

	h := router.Handlers{
		Users:       handlers.NewUserHandler(pool.DB, services.NewRegisterService(cfg.Auth.BCryptCost), services.NewAuthService(tokens)),
		Tasks:       handlers.NewTaskHandler(pool.DB, taskService, reminderQueue),
		Suggestions: handlers.NewSuggestionHandler(services.NewSuggestionService(gemini)),
		Health:      handlers.NewHealthHandler(healthChecker),
	}

	engine := router.Setup(cfg, tokens, h)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server is running on %s", cfg.GetServerAddr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
