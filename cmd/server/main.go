package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/equipehub/team-dashboard-api/internal/board"
	"github.com/equipehub/team-dashboard-api/internal/config"
	"github.com/equipehub/team-dashboard-api/internal/database"
	"github.com/equipehub/team-dashboard-api/internal/handlers"
	"github.com/equipehub/team-dashboard-api/internal/logging"
	"github.com/equipehub/team-dashboard-api/internal/middleware"
	"github.com/equipehub/team-dashboard-api/internal/realtime"
	"github.com/equipehub/team-dashboard-api/internal/repository"
	"github.com/equipehub/team-dashboard-api/internal/services"
	"github.com/equipehub/team-dashboard-api/internal/workflow"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogFile)

	gin.SetMode(cfg.GinMode)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logging.Logger.WithError(err).WithField("timezone", cfg.Timezone).
			Warn("unknown timezone, falling back to UTC")
		loc = time.UTC
	}

	if err := database.Connect(cfg); err != nil {
		logging.Logger.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(); err != nil {
		logging.Logger.WithError(err).Fatal("failed to run migrations")
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logging.Logger.WithError(err).Fatal("failed to create indexes")
	}

	db := database.GetDB()
	hub := realtime.NewHub()

	// Repositories
	taskRepo := repository.NewTaskRepository(db, hub)
	instanceRepo := repository.NewTaskInstanceRepository(db, hub)
	recurringRepo := repository.NewRecurringTaskRepository(db, hub)
	activityRepo := repository.NewActivityRepository(db, hub)
	departmentRepo := repository.NewDepartmentRepository(db, hub)
	customerRepo := repository.NewCustomerRepository(db, hub)
	userRepo := repository.NewUserRepository(db)

	// Services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	recurringService := services.NewRecurringService(recurringRepo, instanceRepo)
	regenService := services.NewRegenerationService(instanceRepo, recurringRepo, activityRepo)
	departmentService := services.NewDepartmentService(departmentRepo)
	customerService := services.NewCustomerService(customerRepo)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	machine := workflow.NewStateMachine(taskRepo, instanceRepo, activityRepo)
	boardSessions := board.NewSessionManager(machine)

	scheduler := services.NewSweepScheduler(regenService, loc)
	if err := scheduler.Start(); err != nil {
		logging.Logger.WithError(err).Fatal("failed to start sweep scheduler")
	}

	r := gin.Default()

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logging.Logger.WithError(err).Fatal("failed to create redis session store")
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions("dashboard_session", store))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, aiService, machine)
	boardHandler := handlers.NewBoardHandler(boardSessions, taskRepo, instanceRepo)
	recurringHandler := handlers.NewRecurringHandler(recurringService, regenService)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	activityHandler := handlers.NewActivityHandler(activityRepo)
	eventsHandler := handlers.NewEventsHandler(hub)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Team Dashboard API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		api.GET("/users", middleware.RequireAuth(), authHandler.ListUsers)

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		boardGroup := api.Group("/board")
		boardGroup.Use(middleware.RequireAuth())
		{
			boardGroup.GET("", boardHandler.GetBoard)
			boardGroup.POST("/drag-start", boardHandler.DragStart)
			boardGroup.POST("/drag-over", boardHandler.DragOver)
			boardGroup.POST("/drop", boardHandler.Drop)
			boardGroup.DELETE("/session", boardHandler.ReleaseSession)
		}

		recurring := api.Group("/recurring")
		recurring.Use(middleware.RequireAuth())
		{
			recurring.GET("", recurringHandler.ListRecurring)
			recurring.POST("", recurringHandler.CreateRecurring)
			recurring.POST("/sweep", recurringHandler.TriggerSweep)
			recurring.GET("/:id", recurringHandler.GetRecurring)
			recurring.PATCH("/:id", recurringHandler.UpdateRecurring)
			recurring.DELETE("/:id", recurringHandler.DeleteRecurring)
			recurring.GET("/:id/instances", recurringHandler.ListInstances)
		}

		departments := api.Group("/departments")
		departments.Use(middleware.RequireAuth())
		{
			departments.GET("", departmentHandler.ListDepartments)
			departments.GET("/:id", departmentHandler.GetDepartment)
			departments.POST("", middleware.RequireAdmin(), departmentHandler.CreateDepartment)
			departments.PUT("/:id", middleware.RequireAdmin(), departmentHandler.UpdateDepartment)
			departments.DELETE("/:id", middleware.RequireAdmin(), departmentHandler.DeleteDepartment)
		}

		customers := api.Group("/customers")
		customers.Use(middleware.RequireAuth())
		{
			customers.GET("", customerHandler.ListCustomers)
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PUT("/:id", customerHandler.UpdateCustomer)
			customers.DELETE("/:id", customerHandler.DeleteCustomer)
		}

		api.GET("/activity", middleware.RequireAuth(), activityHandler.ListActivity)
		api.GET("/events", middleware.RequireAuth(), eventsHandler.Stream)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		logging.Logger.Info("server starting on :8080")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.WithError(err).Error("forced shutdown")
	}
}
