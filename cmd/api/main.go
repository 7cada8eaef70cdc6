package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/insuraloop/backend/internal/config"
	"github.com/insuraloop/backend/internal/database"
	"github.com/insuraloop/backend/internal/handlers"
	"github.com/insuraloop/backend/internal/jobs"
	"github.com/insuraloop/backend/internal/middleware"
	"github.com/insuraloop/backend/internal/queue"
	"github.com/insuraloop/backend/internal/routes"
	"github.com/insuraloop/backend/internal/services/assessor"
	"github.com/insuraloop/backend/internal/services/email"
	"github.com/insuraloop/backend/internal/services/leads"
	"github.com/insuraloop/backend/internal/services/referral"
	"github.com/insuraloop/backend/internal/services/reward"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Invalid Redis URL: %v", err)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	redisOpts.DB = cfg.Redis.DB
	redisClient := redis.NewClient(redisOpts)

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Queue and workers
	redisQueue := queue.NewRedisClient(redisClient, db)
	workers := queue.NewWorkerManager(redisQueue)

	// Services
	emailService := email.NewEmailService()
	rewardService := reward.NewService(db)
	referralService := referral.NewService(db)
	leadStore := leads.NewLeadStore(db)
	leadService := leads.NewLeadService(db, leadStore, rewardService)

	riskAssessor := assessor.NewOpenAIAssessor(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.Model,
		time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second,
	)
	validationService := leads.NewValidationService(db, leadStore, riskAssessor, cfg.Validation)

	jobs.RegisterAllJobHandlers(workers, db, emailService, rewardService, validationService)
	if err := jobs.ScheduleRecurringJobs(workers); err != nil {
		log.Printf("Warning: failed to schedule recurring jobs: %v", err)
	}
	workers.StartAll()
	defer workers.StopAll()

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	rateLimiter := middleware.NewRateLimiter(10, 20)
	defer rateLimiter.Stop()

	routes.RegisterRoutes(router, routes.Handlers{
		Auth:       handlers.NewAuthHandler(db, emailService),
		Referral:   handlers.NewReferralHandler(referralService),
		Lead:       handlers.NewLeadHandler(leadService, leadStore, validationService, referralService, workers),
		Validation: handlers.NewValidationHandler(leadStore, validationService),
		Admin:      handlers.NewAdminHandler(db, rewardService),
	}, rateLimiter)

	fmt.Printf("InsuraLoop API server running on port %s\n", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
