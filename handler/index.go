package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"farm-shop/config"
)

// Handler reports liveness plus the state of the database and redis.
func Handler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{"database": "disabled", "redis": "disabled"}

	if config.DB != nil {
		checks["database"] = "ok"
		if err := config.DB.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if config.RedisClient != nil {
		checks["redis"] = "ok"
		if err := config.RedisClient.Ping(ctx).Err(); err != nil {
			// the app keeps serving from memory without redis
			checks["redis"] = err.Error()
		}
	}

	name := "Farm Shop API"
	if config.AppConfig != nil {
		name = config.AppConfig.ShopName + " API"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  http.StatusText(status),
		"message": name,
		"checks":  checks,
	})
}
