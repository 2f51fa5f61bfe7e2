package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fveracoechea/hyperlog-sub000/internal/config"
	"github.com/fveracoechea/hyperlog-sub000/internal/database"
	"github.com/fveracoechea/hyperlog-sub000/internal/handlers"
	"github.com/fveracoechea/hyperlog-sub000/internal/kafka"
	"github.com/fveracoechea/hyperlog-sub000/internal/middleware"
	"github.com/fveracoechea/hyperlog-sub000/internal/redis"
	"github.com/fveracoechea/hyperlog-sub000/internal/router"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.AccessTokenSecret == "" {
		log.Fatal("ACCESS_TOKEN_SECRET must be set")
	}

	logger.InitLogger()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Redis and Kafka are optional; handlers degrade to database-only when
	// either is unavailable.
	redisService := redis.NewService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	kafkaProducer := kafka.NewProducer(cfg.KafkaBrokers)
	defer kafkaProducer.Close()

	// Setup Gin router
	r := gin.Default()

	middleware.SetupPrometheus(r)
	r.Use(middleware.LoggerMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Initialize handlers
	linkHandler := handlers.NewLinkHandler(db, kafkaProducer)
	collectionHandler := handlers.NewCollectionHandler(db, kafkaProducer, redisService)
	tagHandler := handlers.NewTagHandler(db, kafkaProducer)
	importHandler := handlers.NewImportHandler(db)

	router.Setup(r, linkHandler, collectionHandler, tagHandler, importHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
