package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mix-service/internal/config"
	"mix-service/internal/db"
	"mix-service/internal/engine"
	"mix-service/internal/event"
	"mix-service/internal/handlers"
	"mix-service/internal/readiness"
	"mix-service/internal/repository"
	"mix-service/internal/service"
	"mix-service/pkg/discovery"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db.InitMongo(cfg.MongoURI)

	redisClient := db.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURL != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURL, cfg.EventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
	} else {
		log.Println("RabbitMQ not configured, session events will not be published")
	}

	database := db.Client.Database(cfg.MongoDatabase)

	sessionRepo := repository.NewSessionRepository(database)
	flashcardRepo := repository.NewFlashcardRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)

	engineConfig := engine.DefaultConfig()
	engineConfig.MaxRounds = cfg.MaxRounds
	mixEngine := engine.New(engineConfig)

	sessionService := service.NewSessionService(sessionRepo, flashcardRepo, attemptRepo, mixEngine, publisher)
	flashcardService := service.NewFlashcardService(flashcardRepo)

	readinessCache := readiness.NewCache(redisClient, time.Duration(cfg.ReadinessCacheTTLSeconds)*time.Second)
	readinessService := readiness.NewService(attemptRepo, flashcardRepo, readinessCache)

	sessionHandler := handlers.NewSessionHandler(sessionService)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardService)
	readinessHandler := handlers.NewReadinessHandler(readinessService)

	r := setupRoutes(cfg, sessionHandler, flashcardHandler, readinessHandler, publisher)

	var registry *discovery.ServiceRegistry
	if cfg.ConsulAddress != "" {
		var err error
		registry, err = discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Fatalf("Service discovery init failed: %v", err)
		}
		if err := registry.Register(); err != nil {
			log.Fatalf("Failed to register with Consul: %v", err)
		}
		log.Printf("Registered with Consul at %s", cfg.ConsulAddress)
	} else {
		log.Println("Consul not configured, skipping service registration")
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting mix-service on port %s", cfg.Port)
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutting down server...")
	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Printf("Error deregistering from Consul: %v", err)
		}
	}
	if publisher != nil {
		publisher.Close()
	}
	db.Disconnect()
	log.Println("Server exited, goodbye!")
}

func setupRoutes(
	cfg *config.Config,
	sessionHandler *handlers.SessionHandler,
	flashcardHandler *handlers.FlashcardHandler,
	readinessHandler *handlers.ReadinessHandler,
	publisher *event.EventPublisher,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(handlers.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", handlers.MetricsHandler())

	// === MIX-MODE SESSION ROUTES ===

	mixGroup := r.Group("/mix")
	mixGroup.Use(handlers.RequireUser())
	{
		mixGroup.POST("/start", sessionHandler.StartSession)
		mixGroup.GET("/session/:id", sessionHandler.GetSession)
		mixGroup.GET("/session/:id/status", sessionHandler.GetStatus)
		mixGroup.POST("/session/:id/answer", sessionHandler.SubmitAnswer)
		mixGroup.POST("/session/:id/reveal", sessionHandler.RevealAnswer)

		mixGroup.GET("/session/:id/next", func(c *gin.Context) {
			sessionHandler.NextActivity(c)
			if publisher != nil {
				publisher.Publish("mix.activity.requested", gin.H{
					"session_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
					"timestamp":  time.Now(),
				})
			}
		})

		mixGroup.POST("/deck-readiness", func(c *gin.Context) {
			readinessHandler.DeckReadiness(c)
			if publisher != nil {
				publisher.Publish("mix.readiness.checked", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})

		// Referral side channel for the flashcard overlay
		mixGroup.GET("/flashcard/:courseId/:flashcardId", flashcardHandler.GetContent)
	}

	// === READINESS RING ===

	readinessGroup := r.Group("/api/v1/readiness")
	readinessGroup.Use(handlers.RequireUser())
	{
		readinessGroup.GET("/lectures", readinessHandler.LectureReadiness)
	}

	// === FLASHCARD MANAGEMENT ===

	protectedFlashcard := r.Group("/protected/mix/flashcard")
	protectedFlashcard.Use(handlers.RequireUser())
	{
		protectedFlashcard.GET("/", flashcardHandler.ListFlashcards)
		protectedFlashcard.GET("/:id", flashcardHandler.GetFlashcard)
		protectedFlashcard.POST("/", flashcardHandler.CreateFlashcard)
		protectedFlashcard.POST("/bulk", flashcardHandler.BulkCreateFlashcards)
		protectedFlashcard.PUT("/:id", flashcardHandler.UpdateFlashcard)
		protectedFlashcard.DELETE("/:id", flashcardHandler.DeleteFlashcard)
	}

	return r
}
