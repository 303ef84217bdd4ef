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

	"github.com/fast-connect/connect-go-api/internal/config"
	"github.com/fast-connect/connect-go-api/internal/database"
	"github.com/fast-connect/connect-go-api/internal/handler"
	"github.com/fast-connect/connect-go-api/internal/middleware"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/observability"
	"github.com/fast-connect/connect-go-api/internal/repository"
	"github.com/fast-connect/connect-go-api/internal/router"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/pkg/ai"
	cloud "github.com/fast-connect/connect-go-api/pkg/cloudinary"
)

const eventChannelBase = "connect"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.FriendEdge{},
		&models.Conversation{},
		&models.ConversationMember{},
		&models.Message{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Material{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
		&models.Event{},
		&models.FacultyMember{},
		&models.UploadRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	var aiClient *ai.OpenAIClient
	if cfg.OpenAIAPIKey != "" {
		aiClient, err = ai.NewOpenAIClient(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai client: %v", err)
		}
	} else {
		logger.Warn().Msg("openai api key missing, quiz generation and email drafting disabled")
	}

	observability.RegisterMetrics()

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	socialRepo := repository.NewSocialRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	eventRepo := repository.NewEventRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	authService := service.NewAuthService(userRepo, redisClient, service.AuthTokenConfig{
		Secret:        cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}, validate, logger)
	socialService := service.NewSocialService(socialRepo, userRepo, redisClient, cfg.PresenceTTL, validate, logger)
	conversationService := service.NewConversationService(conversationRepo, socialRepo, userRepo, validate, logger)
	messageService := service.NewMessageService(messageRepo, conversationRepo, redisClient, eventChannelBase, natsConn, cfg.TypingTTL, validate, logger)
	discussionService := service.NewDiscussionService(discussionRepo, validate, logger)
	materialService := service.NewMaterialService(materialRepo, validate, logger)
	eventService := service.NewEventService(eventRepo, redisClient, cfg.EventsCacheTTL, validate, logger)
	uploadService := service.NewUploadService(uploader, uploadRepo, conversationRepo, cfg.UploadMaxMB, logger)

	var quizService service.QuizService
	var facultyService service.FacultyService
	if aiClient != nil {
		quizService = service.NewQuizService(quizRepo, aiClient, validate, logger)
		facultyService = service.NewFacultyService(facultyRepo, aiClient, validate, logger)
	} else {
		quizService = service.NewQuizService(quizRepo, nil, validate, logger)
		facultyService = service.NewFacultyService(facultyRepo, nil, validate, logger)
	}

	serviceCtx, cancelServices := context.WithCancel(context.Background())
	defer cancelServices()
	messageService.Start(serviceCtx)

	authHandler := handler.NewAuthHandler(authService, validate, logger)
	socialHandler := handler.NewSocialHandler(socialService, validate, logger)
	conversationHandler := handler.NewConversationHandler(conversationService, validate, logger)
	messageHandler := handler.NewMessageHandler(messageService, validate, logger)
	discussionHandler := handler.NewDiscussionHandler(discussionService, validate, logger)
	materialHandler := handler.NewMaterialHandler(materialService, validate, logger)
	quizHandler := handler.NewQuizHandler(quizService, validate, logger)
	eventHandler := handler.NewEventHandler(eventService, validate, logger)
	facultyHandler := handler.NewFacultyHandler(facultyService, validate, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         authHandler,
		SocialHandler:       socialHandler,
		ConversationHandler: conversationHandler,
		MessageHandler:      messageHandler,
		DiscussionHandler:   discussionHandler,
		MaterialHandler:     materialHandler,
		QuizHandler:         quizHandler,
		EventHandler:        eventHandler,
		FacultyHandler:      facultyHandler,
		UploadHandler:       uploadHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
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
