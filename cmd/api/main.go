// @title Quiz Tube API
// @version 1.0
// @description Generates multiple choice quizzes from YouTube videos.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize, or send the access_token cookie.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-tube/cmd/api/docs"
	"quiz-tube/internal/adapter"
	"quiz-tube/internal/adapter/audio"
	"quiz-tube/internal/adapter/llm"
	"quiz-tube/internal/adapter/quizgen"
	"quiz-tube/internal/adapter/speech"
	"quiz-tube/internal/cache"
	"quiz-tube/internal/config"
	"quiz-tube/internal/database"
	"quiz-tube/internal/handler"
	"quiz-tube/internal/logger"
	"quiz-tube/internal/middleware"
	"quiz-tube/internal/repository"
	"quiz-tube/internal/service"
	"quiz-tube/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	// Quiz generation
	baseModel, err := llm.NewModel(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err), zap.String("provider", cfg.LLM.Provider))
	}
	generator := quizgen.NewGenerator(llm.NewLangchainModel(baseModel, cfg.LLM.Temperature, cfg.LLM.RequestsPerMinute))
	appLogger.Info("Quiz generator initialized", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))

	// Media
	audioSource := audio.NewYtDlp(cfg.YtDlp.Path, audio.DefaultYtDlpConfig())
	recognizer, err := speech.NewWhisperClient(cfg.Speech, &http.Client{})
	if err != nil {
		appLogger.Fatal("Failed to create speech client", zap.Error(err))
	}

	scratch, err := service.NewScratchSpace(cfg.Pipeline.ScratchDir)
	if err != nil {
		appLogger.Fatal("Failed to prepare scratch directory", zap.Error(err))
	}

	// The transcript cache is optional.
	var transcripts *service.TranscriptCache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		transcripts = service.NewTranscriptCache(adapter.NewRedisCacheAdapter(redisClient), cfg.Pipeline.TranscriptCacheTTL, appLogger)
		appLogger.Info("Transcript cache enabled", zap.Duration("ttl", cfg.Pipeline.TranscriptCacheTTL))
	} else {
		appLogger.Info("Redis address not set, transcript cache disabled")
	}

	pipeline := service.NewQuizPipeline(
		audioSource,
		recognizer,
		generator,
		validation.NewQuizValidator(),
		transcripts,
		scratch,
		cfg.Pipeline,
		appLogger.Named("pipeline"),
	)

	// Persistence
	db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	quizRepository := repository.NewQuizDatabaseAdapter(db, repository.NewTransactionManagerAdapter(db))

	quizService := service.NewQuizCreationService(pipeline, quizRepository, appLogger)
	authService, err := service.NewAuthService(cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    64 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")
	quizHandler.RegisterRoutes(apiGroup, middleware.Protected(authService), middleware.NewValidationMiddleware())

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	appLogger.Info("Server exited gracefully")
}
