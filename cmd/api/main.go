package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hospitalcore/hospital-api/internal/config"
	"github.com/hospitalcore/hospital-api/internal/database"
	"github.com/hospitalcore/hospital-api/internal/handlers"
	"github.com/hospitalcore/hospital-api/internal/middleware"
	"github.com/hospitalcore/hospital-api/internal/models"
	"github.com/hospitalcore/hospital-api/internal/services"
	"github.com/hospitalcore/hospital-api/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	cfg := config.Load()

	log.Printf("API_PORT: %s", cfg.Port)
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is NOT SET.")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is NOT SET.")
	}

	// --- Database Connection ---
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Successfully connected to the database.")

	// --- Initialize Services ---
	mailer, err := services.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatalf("Failed to initialize mailer: %v", err)
	}
	tokens := utils.NewTokenManager(cfg.JWTSecret, 24*time.Hour)

	// --- Initialize Handlers ---
	h := handlers.NewHandler(db, mailer, tokens)

	// --- Gin Router ---
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	v1 := r.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/sign-up", h.Signup)
		authRoutes.POST("/verify-email", h.VerifyEmail)
		authRoutes.POST("/resend-verification", h.ResendVerification)
		authRoutes.POST("/signin", h.Signin)
	}

	userRoutes := v1.Group("/users")
	userRoutes.Use(middleware.Authenticate(db, tokens))
	{
		adminOnly := middleware.RequireRole(models.RoleAdministrator)
		userRoutes.GET("", adminOnly, h.ListUsers)
		userRoutes.GET("/stats", adminOnly, h.GetUserStats)
		userRoutes.GET("/role/:role", adminOnly, h.GetUsersByRole)
		userRoutes.GET("/doctors/all", h.GetAllDoctors)
		userRoutes.GET("/doctors/by-specialty", h.GetDoctorsBySpecialty)
		userRoutes.GET("/:id", h.GetUserByID)
	}

	// Uploaded assets are served as-is from a local directory.
	r.Static("/uploads", cfg.UploadsDir)

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
