package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/peerview/peerview-api/internal/config"
	"github.com/peerview/peerview-api/internal/database"
	"github.com/peerview/peerview-api/internal/handler"
	"github.com/peerview/peerview-api/internal/queue"
	"github.com/peerview/peerview-api/internal/repository"
	"github.com/peerview/peerview-api/internal/router"
	queue_publisher "github.com/peerview/peerview-api/internal/service"
	"github.com/peerview/peerview-api/internal/storage"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Redis is optional: with no client the cache and rate limiter
	// degrade to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	blobs, err := storage.NewFSStore(cfg.MediaDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.MediaDir).Msg("media store init failed")
	}

	users := repository.NewUserRepo(db)
	questions := repository.NewQuestionRepo(db)
	answers := repository.NewAnswerRepo(questions)
	moderation := repository.NewModerationRepo(questions)

	workflow := queue_publisher.Publisher{}
	go queue.NewWorkflowConsumer(os.Getenv("RABBITMQ_URL"), cfg.WorkflowURL, cfg.WorkflowKey).Run()

	authH := handler.NewAuthHandler(cfg, users)
	questionH := handler.NewQuestionHandler(questions, workflow)
	answerH := handler.NewAnswerHandler(answers, workflow)
	adminH := handler.NewAdminHandler(users, questions, moderation, workflow)
	mediaH := handler.NewMediaHandler(blobs)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))

	router.RegisterRoutes(e, mediaH)
	router.RegisterAuth(e, authH, config.LoadRateLimitConfig(), rdb, cfg.JWTSecret)
	router.RegisterQuestions(e, questionH, answerH, config.LoadCacheConfig(), rdb, cfg.JWTSecret)
	router.RegisterMedia(e, mediaH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
