package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/questlog/questlog-api/internal/config"
	"github.com/questlog/questlog-api/internal/database"
	"github.com/questlog/questlog-api/internal/handlers"
	"github.com/questlog/questlog-api/internal/middleware"
	"github.com/questlog/questlog-api/internal/repository"
	"github.com/questlog/questlog-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Set Gin mode
	if cfg.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	authService := services.NewAuthService(userRepo, services.TokenConfig{
		Secret:          []byte(cfg.Auth.JWTSecret),
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}, logger)
	taskService := services.NewTaskService(taskRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Questlog is running successfully, let the adventures begin",
		})
	})

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/signin", authHandler.Signin)
		auth.POST("/refresh", authHandler.RefreshAccessToken)
	}

	// Task routes (protected)
	tasks := r.Group("/api/tasks")
	tasks.Use(middleware.RequireAuth(authService, logger))
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:parent_id/children", taskHandler.GetChildren)
		tasks.PATCH("/:id", taskHandler.PatchTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	// Start server
	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	logger.Info("server starting", "address", cfg.HTTPServer.Address)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
