package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"skycast/internal/config"
	"skycast/internal/db"
	apihttp "skycast/internal/http"
	"skycast/internal/repository"
	"skycast/internal/service"
	"skycast/internal/weather"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// La clave del proveedor de clima es obligatoria; sin ella el servicio
	// no arranca. Las credenciales de Google solo degradan el login federado.
	if cfg.WeatherAPIKey == "" {
		logger.Fatal("WEATHER_API_KEY not set")
	}
	if cfg.SecretKey == config.InsecureSecretFallback {
		logger.Warn("using insecure default signing key; set SECRET_KEY in production")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		logger.Warn("google oauth credentials not configured; federated login disabled")
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)

	var stateStore service.StateStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			stateStore = service.NewRedisStateStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(cfg.SecretKey, service.AccessTokenTTL)
	authSvc := service.NewAuthService(logger, userRepo)
	googleAuth := service.NewGoogleAuthenticator(logger, userRepo, stateStore, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	weatherClient := weather.NewHTTPClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, logger)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc, googleAuth, cfg.FrontendOrigin)
	weatherHandler := apihttp.NewWeatherHandler(logger, weatherClient)
	router := apihttp.NewRouter(logger, authHandler, weatherHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
