package main

import (
	"log"
	"net/http"
	"time"

	"skycast/internal/config"
	"skycast/internal/web"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadWebConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	api := web.NewAPIClient(cfg.APIBaseURL)
	handler := web.NewHandler(logger, api)
	router := web.NewRouter(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting web frontend", zap.String("port", cfg.WebPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
