package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/GustavoLino728/linos-finance/internal/config"
	"github.com/GustavoLino728/linos-finance/internal/database"
	"github.com/GustavoLino728/linos-finance/internal/handlers"
	"github.com/GustavoLino728/linos-finance/internal/logger"
	"github.com/GustavoLino728/linos-finance/internal/middleware"
	"github.com/GustavoLino728/linos-finance/internal/services"
	"github.com/GustavoLino728/linos-finance/internal/validator"

	_ "github.com/GustavoLino728/linos-finance/internal/docs" // Import swagger docs
)

// @title           Linos Finance API
// @version         1.0
// @description     Linos Finance is a personal bookkeeping backend with Telegram account linking, so entries can be recorded straight from a chat.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey RelayAPIKey
// @in header
// @name X-API-Key
// @description Shared secret for the Telegram relay.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	favoriteService := services.NewFavoriteService(db)
	goalService := services.NewGoalService(db)
	telegramService := services.NewTelegramService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	telegramHandler := handlers.NewTelegramHandler(telegramService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and spend goal
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/user/spend-goal", authHandler.SetSpendGoal)
	protected.GET("/user/spend-goal/progress", transactionHandler.GetSpendGoalProgress)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/recent", transactionHandler.GetRecentTransactions)
	protected.GET("/balance", transactionHandler.GetBalance)

	// Favorite routes
	favorites := protected.Group("/favorites")
	favorites.POST("", favoriteHandler.CreateFavorite)
	favorites.GET("", favoriteHandler.GetUserFavorites)
	favorites.PUT("/:id", favoriteHandler.UpdateFavorite)
	favorites.DELETE("/:id", favoriteHandler.DeleteFavorite)

	// Savings goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetUserGoals)
	goals.PUT("/:id/progress", goalHandler.UpdateGoalProgress)

	// Telegram linking (user side)
	telegram := protected.Group("/integrations/telegram")
	telegram.POST("/generate-code", telegramHandler.GenerateCode)
	telegram.GET("/status", telegramHandler.GetStatus)

	// Relay routes, authenticated with the shared X-API-Key secret
	relay := v1.Group("/")
	relay.Use(middleware.RelayAuthMiddleware(appConfig.RelayAPIKey))
	relay.POST("/integrations/telegram/sync", telegramHandler.Sync)
	relay.GET("/user/by-telegram/:telegram_id", telegramHandler.ResolveUser)

	log.Infof("Starting Linos Finance backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
