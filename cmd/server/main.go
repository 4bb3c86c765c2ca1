package main

import (
	"log"

	"github.com/EricRode/EcoScrum/internal/config"
	"github.com/EricRode/EcoScrum/internal/constants"
	"github.com/EricRode/EcoScrum/internal/database"
	"github.com/EricRode/EcoScrum/internal/handlers"
	"github.com/EricRode/EcoScrum/internal/middleware"
	"github.com/EricRode/EcoScrum/internal/repository"
	"github.com/EricRode/EcoScrum/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup cookie-backed session middleware
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	itemRepo := repository.NewWorkItemRepository(db)
	effectRepo := repository.NewEffectRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	sprintService := services.NewSprintService(sprintRepo, itemRepo)
	itemService := services.NewItemService(itemRepo, sprintService)
	boardService := services.NewBoardService(itemRepo, sprintService)
	susafService := services.NewSusafService(cfg.SusafBaseURL, effectRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService, sprintService)
	sprintHandler := handlers.NewSprintHandler(sprintService)
	itemHandler := handlers.NewItemHandler(itemService, boardService)
	susafHandler := handlers.NewSusafHandler(susafService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "EcoScrum API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", authHandler.ListUsers)
			users.GET("/:id", authHandler.GetUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.POST("/join", projectHandler.JoinProject)
			projects.GET("/:projectId", middleware.RequireProjectAccess("projectId"), projectHandler.GetProject)
			projects.POST("/:projectId/members", middleware.RequireProjectAccess("projectId"), projectHandler.AddTeamMember)
			projects.GET("/:projectId/sprints", middleware.RequireProjectAccess("projectId"), projectHandler.ListProjectSprints)

			// SusAF integration (project-scoped)
			projects.GET("/:projectId/susaf/effects", middleware.RequireProjectAccess("projectId"), susafHandler.GetEffects)
			projects.POST("/:projectId/susaf/effects/sync", middleware.RequireProjectAccess("projectId"), susafHandler.SyncEffects)
			projects.POST("/:projectId/susaf/recommendations/sync", middleware.RequireProjectAccess("projectId"), susafHandler.SyncRecommendations)
			projects.GET("/:projectId/susaf/token", middleware.RequireProjectAccess("projectId"), susafHandler.GetToken)
			projects.PUT("/:projectId/susaf/token", middleware.RequireProjectAccess("projectId"), susafHandler.SetToken)
		}

		// Sprint routes (protected)
		sprints := api.Group("/sprints")
		sprints.Use(middleware.RequireAuth())
		{
			sprints.POST("", sprintHandler.CreateSprint)
			sprints.GET("/:id", sprintHandler.GetSprint)
			sprints.PATCH("/:id/retrospective", sprintHandler.SaveRetrospective)
			sprints.PATCH("/:id/complete", sprintHandler.CompleteSprint)
		}

		// Work item routes (protected)
		items := api.Group("/items")
		items.Use(middleware.RequireAuth())
		{
			items.GET("", itemHandler.ListItems)
			items.POST("", itemHandler.CreateItem)
			items.GET("/:id", middleware.RequireItemAccess(), itemHandler.GetItem)
			items.PATCH("/:id", middleware.RequireItemAccess(), itemHandler.UpdateItem)
			items.DELETE("/:id", middleware.RequireItemAccess(), itemHandler.DeleteItem)
			items.POST("/:id/move", middleware.RequireItemAccess(), itemHandler.MoveItem)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
