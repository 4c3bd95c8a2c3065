package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"farm-shop/config"
	_ "farm-shop/docs"
	"farm-shop/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Wamugunda Farm API
// @version 1.0
// @description Farm produce storefront with a session cart and WhatsApp checkout.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.InitLogger(os.Getenv("APP_ENV")); err != nil {
		panic(err)
	}
	defer config.SyncLogger()

	config.LoadConfig()

	if config.AppConfig.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if err := config.ConnectDB(); err != nil {
		config.Logger.Fatal("database setup failed", zap.Error(err))
	}
	defer config.CloseDB()

	config.InitRedis()
	defer config.CloseRedis()

	if err := os.MkdirAll(config.AppConfig.UploadDir, os.ModePerm); err != nil {
		config.Logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, err := routes.NewRouter(ctx, config.AppConfig, config.DB, config.RedisClient)
	if err != nil {
		config.Logger.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + config.AppConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", config.AppConfig.AppEnv),
			zap.String("swagger", "http://localhost:"+config.AppConfig.Port+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	config.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
