package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	_ "time/tzdata"

	"farm-shop/config"
	"farm-shop/models"
	"farm-shop/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	router  *gin.Engine
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)
		if err := config.InitLogger("production"); err != nil {
			initErr = err
			return
		}

		config.LoadConfig()
		if initErr = config.ConnectDB(); initErr != nil {
			config.Logger.Error("database setup failed", zap.Error(initErr))
			return
		}
		config.InitRedis()

		router, initErr = routes.NewRouter(context.Background(), config.AppConfig, config.DB, config.RedisClient)
	})
}

// Handler is the serverless entrypoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Success: false, Message: "Service unavailable"})
		return
	}
	router.ServeHTTP(w, r)
}
