package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo_api/internal/agent"
	"todo_api/internal/config"
	"todo_api/internal/db"
	httpServer "todo_api/internal/http"
	"todo_api/internal/http/handlers"
	"todo_api/internal/logger"
	"todo_api/internal/migrations"
	"todo_api/internal/repository"
	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const redisKeyPrefix = "todo"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	gin.SetMode(gin.ReleaseMode)

	checks := map[string]handlers.CheckFunc{}
	var (
		taskStore service.TaskStore
		convStore service.ConversationStore
		pool      *pgxpool.Pool
	)

	// postgres also backs conversations under the redis driver when configured
	if cfg.StoreDriver == config.StorePostgres || (cfg.StoreDriver == config.StoreRedis && cfg.DatabaseURL != "") {
		pool = db.Connect(cfg.DatabaseURL)
		defer pool.Close()
		checks["database"] = pool.Ping

		if cfg.AutoMigrate {
			applied, err := migrations.Apply(context.Background(), pool)
			if err != nil {
				logger.Fatal("migrations failed", "error", err)
			}
			logger.Info("migrations applied", "files", applied)
		}
		convStore = repository.NewConversationRepository(pool)
	}

	switch cfg.StoreDriver {
	case config.StorePostgres:
		taskStore = repository.NewTaskRepository(pool)
	case config.StoreRedis:
		client := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		taskStore = repository.NewRedisTaskStore(client, redisKeyPrefix)
	case config.StoreMemory:
		taskStore = repository.NewMemoryTaskStore()
	}
	if convStore == nil {
		convStore = repository.NewMemoryConversationStore()
	}
	logger.Info("stores ready", "driver", cfg.StoreDriver)

	tasks := service.NewTaskService(taskStore)
	interpreter := service.NewCommandInterpreter(tasks)

	var delegate agent.Delegate
	if cfg.AgentEnabled() {
		toolbox, err := agent.NewToolbox(tasks)
		if err != nil {
			logger.Fatal("failed to build agent tools", "error", err)
		}
		delegate = agent.NewOpenAIDelegate(agent.OpenAIConfig{
			APIKey:       cfg.OpenAIAPIKey,
			BaseURL:      cfg.OpenAIBaseURL,
			Model:        cfg.OpenAIModel,
			MaxSteps:     cfg.AgentMaxSteps,
			HistoryLimit: cfg.AgentHistoryLimit,
		}, toolbox, convStore)
		logger.Info("chat delegate: openai", "model", cfg.OpenAIModel)
	} else {
		delegate = agent.NewCommandDelegate(interpreter, convStore)
		logger.Info("chat delegate: commands")
	}

	h := handlers.NewHandler(handlers.Deps{
		Tasks:          tasks,
		Commands:       interpreter,
		Conversations:  service.NewConversationService(convStore),
		Agent:          delegate,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	r := httpServer.NewRouter(httpServer.Options{
		Handler:        h,
		Health:         handlers.NewHealthHandler(checks, cfg.AppVersion),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited")
}
