package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	httpadapter "github.com/autozona/car-service/internal/adapter/http"
	"github.com/autozona/car-service/internal/adapter/messaging/nats"
	"github.com/autozona/car-service/internal/adapter/repository/cache"
	"github.com/autozona/car-service/internal/adapter/repository/mongodb"
	"github.com/autozona/car-service/internal/adapter/storage/s3"
	"github.com/autozona/car-service/internal/car/usecase"
	"github.com/autozona/car-service/internal/config"
	"github.com/autozona/car-service/internal/mailer"
	"github.com/autozona/car-service/internal/platform/logger"
	"github.com/autozona/car-service/internal/platform/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewLogger()

	tp := tracer.InitTracer("car-service")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Warn("main: tracer shutdown failed", "error", err.Error())
		}
	}()

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)

	listingRepo := mongodb.NewListingRepository(db, appLogger)
	imageRepo := mongodb.NewImageRepository(db, appLogger)
	favoriteListRepo := mongodb.NewFavoriteListRepository(db, appLogger)
	favoriteItemRepo := mongodb.NewFavoriteItemRepository(db, appLogger)
	userRepo := mongodb.NewUserRepository(db, appLogger)
	transactor := mongodb.NewTransactor(mongoClient)

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelIndex()
	if err := imageRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create image indexes: %v", err)
	}
	if err := favoriteListRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create favorite list indexes: %v", err)
	}
	if err := favoriteItemRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to create favorite item indexes: %v", err)
	}

	listingCache, err := cache.NewListingCache(cfg.RedisAddress)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer listingCache.Close()

	natsPublisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to initialize NATS: %v", err)
	}
	defer natsPublisher.Close()

	storageClient, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)

	listingUc := usecase.NewListingUsecase(listingRepo, imageRepo, userRepo, appLogger)
	imageUc := usecase.NewImageUsecase(imageRepo, listingRepo, storageClient, transactor, usecase.ParseReorderPolicy(cfg.ReorderPolicy), appLogger)
	favoriteUc := usecase.NewFavoriteUsecase(favoriteListRepo, favoriteItemRepo, listingRepo, transactor, appLogger)

	listingHandler := httpadapter.NewListingHandler(listingUc, userRepo, listingCache, natsPublisher, smtpMailer, appLogger)
	imageHandler := httpadapter.NewImageHandler(imageUc, listingCache, appLogger)
	favoriteHandler := httpadapter.NewFavoriteHandler(favoriteUc, appLogger)
	authMiddleware := httpadapter.RequireAuth(cfg.JWTSecret, appLogger)

	app := fiber.New(fiber.Config{
		AppName:      "car-service",
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	httpadapter.RegisterRoutes(app, listingHandler, imageHandler, favoriteHandler, authMiddleware)

	go func() {
		appLogger.Info("main: HTTP server starting", "port", cfg.HTTPPort)
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("main: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("main: server shutdown failed", "error", err.Error())
	}
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
