package router

import (
	"log"

	"cloud.google.com/go/storage"
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/content"
	"github.com/pinstash/pinstash/backend/internal/handlers"
	"github.com/pinstash/pinstash/backend/internal/middleware"
	"github.com/pinstash/pinstash/backend/internal/models"
	"github.com/pinstash/pinstash/backend/internal/repositories"
	"github.com/pinstash/pinstash/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	config.SetupMiddleware(e)
	log.Println("Global middleware configured.")
}

// Deps are the external clients the routes are wired against
type Deps struct {
	Postgres     *gorm.DB
	Mongo        *mongo.Client
	FirebaseAuth *auth.Client
	Bucket       *storage.BucketHandle
	BucketName   string
	JWTSecret    string
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	// AutoMigrate PostgreSQL models
	if err := deps.Postgres.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize stores and repositories ---
	store := content.NewStore(deps.Mongo.Database("pinstash"))
	assetStore := content.NewBucketAssetStore(deps.Bucket, deps.BucketName)
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	pinRepo := repositories.NewContentPinRepository(store)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, deps.FirebaseAuth, deps.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require an authenticated session) ---
	api := e.Group("/api/v1")
	api.Use(middleware.SessionMiddleware(deps.JWTSecret))
	log.Println("Session middleware applied to /api/v1 group.")

	// Session accessor
	sessionHandler := handlers.NewSessionHandler()
	sessionHandler.RegisterSessionRoutes(api)

	// Feed routes
	feedHandler := handlers.NewFeedHandler(pinRepo, userRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Pin routes
	pinHandler := handlers.NewPinHandler(pinRepo, userRepo)
	pinHandler.RegisterPinRoutes(api)
	log.Println("Pin routes configured.")

	// Save routes
	saveHandler := handlers.NewSaveHandler(pinRepo)
	saveHandler.RegisterSaveRoutes(api)
	log.Println("Save routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(pinRepo, userRepo)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, pinRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("User profile routes configured.")

	// Asset upload routes
	uploadHandler := handlers.NewUploadHandler(assetStore)
	uploadHandler.RegisterUploadRoutes(api)
	log.Println("Upload routes configured.")

	log.Println("All routes configured.")
}
