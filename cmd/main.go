package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	mongoadapter "github.com/husanahmedov/nestar/internal/adapter/mongo"
	natsadapter "github.com/husanahmedov/nestar/internal/adapter/nats"
	redisadapter "github.com/husanahmedov/nestar/internal/adapter/redis"
	"github.com/husanahmedov/nestar/internal/config"
	"github.com/husanahmedov/nestar/internal/usecase"
)

func main() {
	configPath := "config.yaml"
	if cp := os.Getenv("CONFIG_PATH"); cp != "" {
		configPath = cp
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("mongo_uri", cfg.Mongo.URI),
		zap.String("mongo_database", cfg.Mongo.Database),
		zap.String("redis_address", cfg.Redis.Address),
		zap.String("nats_url", cfg.NATS.URL),
	)

	mongoClient, err := mongoadapter.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)
	logger.Info("Successfully connected to MongoDB")

	redisClient, err := redisadapter.NewClient(context.Background(), &cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Successfully connected to Redis")

	publisher, err := natsadapter.NewNATSPublisher(&cfg.NATS, logger)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	memberRepo := mongoadapter.NewMemberRepository(db, logger)
	propertyRepo := mongoadapter.NewPropertyRepository(db, logger)
	viewRepo := mongoadapter.NewViewRepository(db, logger)
	likeRepo := mongoadapter.NewLikeRepository(db, logger)
	tokenCache := redisadapter.NewTokenCache(redisClient)

	authUC := usecase.NewAuthUsecase(cfg.JWT.Secret, cfg.JWT.TTL, tokenCache, logger)
	engagementUC := usecase.NewEngagementUsecase(viewRepo, likeRepo, publisher, logger)
	memberUC := usecase.NewMemberUsecase(memberRepo, authUC, engagementUC, publisher, logger)
	propertyUC := usecase.NewPropertyUsecase(propertyRepo, memberRepo, engagementUC, publisher, logger)

	logger.Info("Service setup complete. Ready to serve the transport layer.",
		zap.Bool("memberService", memberUC != nil),
		zap.Bool("propertyService", propertyUC != nil),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	received := <-quit
	logger.Info("Received shutdown signal, closing connections", zap.String("signal", received.String()))
}
