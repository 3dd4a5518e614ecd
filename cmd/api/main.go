package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edudesk/edudesk-api/internal/config"
	"github.com/edudesk/edudesk-api/internal/database"
	"github.com/edudesk/edudesk-api/internal/handler"
	"github.com/edudesk/edudesk-api/internal/middleware"
	"github.com/edudesk/edudesk-api/internal/repository"
	"github.com/edudesk/edudesk-api/internal/router"
	"github.com/edudesk/edudesk-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	mongoDB, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Client().Disconnect(ctx); err != nil {
			logger.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(mongoDB, logger)
	roleInfoRepo := repository.NewRoleInfoRepository(mongoDB)
	classRepo := repository.NewClassRepository(mongoDB)
	gradeRepo := repository.NewGradeRepository(mongoDB)
	feedbackRepo := repository.NewFeedbackRepository(mongoDB)
	reportRepo := repository.NewReportRepository(mongoDB)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, logger)
	userService := service.NewUserService(userRepo, roleInfoRepo, validate, cfg.BcryptCost, logger)
	teacherService := service.NewTeacherService(userRepo, classRepo, validate, logger)
	studentService := service.NewStudentService(userRepo, classRepo, logger)
	classService := service.NewClassService(classRepo, userRepo, validate, logger)
	gradeService := service.NewGradeService(gradeRepo, userRepo, classRepo, validate, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, userRepo, validate, logger)
	reportService := service.NewReportService(reportRepo, validate, logger)
	statsService := service.NewStatsService(userRepo, redisClient, cfg.StatsCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		UserHandler:     handler.NewUserHandler(userService, logger),
		RoleViewHandler: handler.NewRoleViewHandler(teacherService, studentService, logger),
		ClassHandler:    handler.NewClassHandler(classService, logger),
		GradeHandler:    handler.NewGradeHandler(gradeService, logger),
		FeedbackHandler: handler.NewFeedbackHandler(feedbackService, logger),
		ReportHandler:   handler.NewReportHandler(reportService, logger),
		StatsHandler:    handler.NewStatsHandler(statsService, logger),
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
