package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"quiz-service/internal/cache"
	"quiz-service/internal/db"
	"quiz-service/internal/event"
	"quiz-service/internal/handlers"
	"quiz-service/internal/ratelimit"
	"quiz-service/internal/repository"
	"quiz-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, attempt events will not be published")
	}

	// Redis backs the leaderboard and the shared rate limiter; both are
	// best-effort, so the service runs without it.
	var board service.Leaderboard
	var limiter *ratelimit.Limiter
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		redisClient, err := db.InitRedis(redisAddr, os.Getenv("REDIS_PWD"), redisDB)
		if err != nil {
			log.Printf("Redis unavailable, leaderboard and rate limiting disabled: %v", err)
		} else {
			board = cache.NewXPLeaderboard(redisClient)
			limiter = ratelimit.NewLimiter(redisClient, 120, time.Minute)
		}
	} else {
		log.Println("Redis not configured, leaderboard and rate limiting disabled")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	mongoClient := db.Client
	database := mongoClient.Database("quiz_service")

	// Repositories
	attemptRepo := repository.NewAttemptRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	assignmentRepo := repository.NewAssignmentRepository(database)
	statsRepo := repository.NewStatsRepository(database)

	// Services
	statsService := service.NewStatsService(attemptRepo, statsRepo, board)
	attemptService := service.NewAttemptService(attemptRepo, quizRepo, assignmentRepo, statsService)
	reportService := service.NewReportService(attemptRepo, quizRepo)

	// Handlers
	attemptHandler := handlers.NewAttemptHandler(attemptService)
	reportHandler := handlers.NewReportHandler(reportService)
	statsHandler := handlers.NewStatsHandler(statsService)
	quizHandler := handlers.NewQuizHandler(quizRepo)

	// Public routes - quiz catalog (answer keys stripped)
	publicQuiz := r.Group("/public/quiz")
	{
		publicQuiz.GET("/", quizHandler.ListPublished)
		publicQuiz.GET("/:id", quizHandler.GetQuiz)
	}

	// Public routes - leaderboard
	r.GET("/public/quiz/leaderboard", statsHandler.GetLeaderboard)

	setupAttemptRoutes(r, attemptHandler, statsHandler, reportHandler, publisher, limiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "6666"
	}
	r.Run(":" + port)
}

func setupAttemptRoutes(
	r *gin.Engine,
	attemptHandler *handlers.AttemptHandler,
	statsHandler *handlers.StatsHandler,
	reportHandler *handlers.ReportHandler,
	publisher *event.EventPublisher,
	limiter *ratelimit.Limiter,
) {
	protected := r.Group("/protected/quiz")

	// Authentication middleware: the gateway verifies credentials and
	// forwards the identity as headers; missing identity is rejected here.
	protected.Use(func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	})

	if limiter != nil {
		protected.Use(limiter.Middleware())
	}

	protected.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[ATTEMPT] %v | %3d | %13v | %15s | %-7s %#v\n%s",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
			param.ErrorMessage,
		)
	}))

	attempt := protected.Group("/attempt")
	{
		// === ATTEMPT LIFECYCLE ===

		attempt.POST("/", func(c *gin.Context) {
			attemptHandler.StartAttempt(c)
			if c.Writer.Status() == http.StatusCreated {
				publisher.Publish(event.AttemptStarted, gin.H{
					"user_id": c.GetHeader("X-User-ID"),
				})
			}
		})

		attempt.PUT("/:id/answers", func(c *gin.Context) {
			attemptHandler.SaveProgress(c)
			if c.Writer.Status() == http.StatusOK {
				publisher.Publish(event.AttemptSaved, gin.H{
					"attempt_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
				})
			}
		})

		attempt.POST("/:id/submit", func(c *gin.Context) {
			attemptHandler.SubmitAttempt(c)
			if c.Writer.Status() == http.StatusOK {
				publisher.Publish(event.AttemptSubmitted, gin.H{
					"attempt_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
				})
			}
		})

		attempt.GET("/:id", attemptHandler.GetAttempt)

		// === ADMIN OPERATIONS ===

		attempt.POST("/:id/reset", func(c *gin.Context) {
			attemptHandler.ResetAttempt(c)
			if c.Writer.Status() == http.StatusOK {
				publisher.Publish(event.AttemptReset, gin.H{
					"attempt_id": c.Param("id"),
					"admin_id":   c.GetHeader("X-User-ID"),
				})
			}
		})

		attempt.DELETE("/:id", func(c *gin.Context) {
			attemptHandler.DeleteAttempt(c)
			if c.Writer.Status() == http.StatusOK {
				publisher.Publish(event.AttemptDeleted, gin.H{
					"attempt_id": c.Param("id"),
					"admin_id":   c.GetHeader("X-User-ID"),
				})
			}
		})

		attempt.POST("/sweep", func(c *gin.Context) {
			attemptHandler.AbandonStale(c)
			if c.Writer.Status() == http.StatusOK {
				publisher.Publish(event.AttemptAbandoned, gin.H{
					"admin_id": c.GetHeader("X-User-ID"),
				})
			}
		})
	}

	user := protected.Group("/user")
	{
		user.GET("/:id/attempts", attemptHandler.GetUserAttempts)
		user.GET("/:id/stats", statsHandler.GetUserStats)
		user.POST("/:id/stats/recompute", func(c *gin.Context) {
			statsHandler.RecomputeUserStats(c)
			if c.Writer.Status() == http.StatusOK {
				publisher.Publish(event.StatsRecomputed, gin.H{
					"user_id": c.Param("id"),
				})
			}
		})
	}

	protected.GET("/report/:id", reportHandler.GetQuizReport)
}
