package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taskmasterpro/taskmaster-api/internal/config"
	"github.com/taskmasterpro/taskmaster-api/internal/database"
	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/handlers"
	"github.com/taskmasterpro/taskmaster-api/internal/identity"
	"github.com/taskmasterpro/taskmaster-api/internal/middleware"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
	"github.com/taskmasterpro/taskmaster-api/internal/scheduler"
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.GinMode)
	apierrors.SetVerboseDetails(!cfg.IsProduction())

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	integrationRepo := repository.NewCalendarIntegrationRepository(db)

	// Services
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}
	mailer := services.NewMailerService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppBaseURL)
	taskService := services.NewTaskService(taskRepo)
	categoryService := services.NewCategoryService(categoryRepo, taskRepo)
	analyticsService := services.NewAnalyticsService(taskRepo, categoryRepo, integrationRepo, aiService)
	scheduleService := services.NewScheduleService(taskRepo, categoryRepo, integrationRepo)
	assessmentService := services.NewAssessmentService(userRepo, taskRepo, notificationRepo, aiService)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, mailer)
	taskHandler := handlers.NewTaskHandler(taskService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	aiHandler := handlers.NewAIHandler(aiService, integrationRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	cronHandler := handlers.NewCronHandler(assessmentService)

	provider := identity.NewJWTProvider(cfg.IdentitySecret)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.AppBaseURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskMasterPro API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(middleware.RequireAuth(provider))
		{
			auth.GET("/profile", authHandler.GetProfile)
			auth.POST("/profile", authHandler.SyncProfile)
			auth.POST("/send-confirmation", authHandler.SendConfirmation)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(provider), middleware.ResolveUser(userRepo))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		categories := api.Group("/categories")
		categories.Use(middleware.RequireAuth(provider), middleware.ResolveUser(userRepo))
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		ai := api.Group("/ai")
		ai.Use(middleware.RequireAuth(provider), middleware.ResolveUser(userRepo))
		{
			ai.POST("/expand-task", aiHandler.ExpandTask)
			ai.POST("/task-assistance", aiHandler.TaskAssistance)
			ai.POST("/task-review", aiHandler.TaskReview)
			ai.POST("/context-questions", aiHandler.ContextQuestions)
		}

		analytics := api.Group("/analytics")
		analytics.Use(middleware.RequireAuth(provider), middleware.ResolveUser(userRepo))
		{
			analytics.POST("/project/:id", analyticsHandler.ProjectAnalytics)
		}

		schedule := api.Group("/schedule")
		schedule.Use(middleware.RequireAuth(provider), middleware.ResolveUser(userRepo))
		{
			schedule.POST("/suggest", scheduleHandler.Suggest)
		}

		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth(provider), middleware.ResolveUser(userRepo))
		{
			notifications.GET("", notificationHandler.ListNotifications)
		}

		cronGroup := api.Group("/cron")
		cronGroup.Use(middleware.RequireCronSecret(cfg.CronSecret))
		{
			cronGroup.GET("/daily-assessment", cronHandler.DailyAssessment)
			cronGroup.GET("/dependency-check", cronHandler.DependencyCheck)
		}
	}

	// Optional in-process scheduling; the HTTP cron endpoints remain the
	// primary trigger in deployments with an external runner.
	if cfg.DailyAssessmentAt != "" || cfg.DependencyCheckAt != "" {
		sched := scheduler.New()
		if cfg.DailyAssessmentAt != "" {
			err := sched.ScheduleDaily("daily-assessment", cfg.DailyAssessmentAt, func() {
				if _, err := assessmentService.RunDailyAssessment(context.Background()); err != nil {
					log.Printf("daily assessment run failed: %v", err)
				}
			})
			if err != nil {
				log.Fatalf("Failed to schedule daily assessment: %v", err)
			}
		}
		if cfg.DependencyCheckAt != "" {
			err := sched.ScheduleDaily("dependency-check", cfg.DependencyCheckAt, func() {
				if _, err := assessmentService.RunDependencyCheck(context.Background()); err != nil {
					log.Printf("dependency check run failed: %v", err)
				}
			})
			if err != nil {
				log.Fatalf("Failed to schedule dependency check: %v", err)
			}
		}
		sched.Start()
		defer sched.Stop()
	}

	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
