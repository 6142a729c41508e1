package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/pinstash/pinstash/backend/internal/router"
	"github.com/pinstash/pinstash/backend/pkg/config"
	"github.com/pinstash/pinstash/backend/pkg/firebase"
	"github.com/pinstash/pinstash/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase (auth provider + asset bucket)
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Deps{
		Postgres:     db.Postgres,
		Mongo:        db.Mongo,
		FirebaseAuth: firebaseApp.AuthClient,
		Bucket:       firebaseApp.Bucket,
		BucketName:   firebaseApp.BucketName,
		JWTSecret:    cfg.JWTSecret,
	})

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
