package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const devStorefrontOrigin = "http://localhost:5173"

// CORSMiddleware admits the storefront origins. origins is a comma separated
// list; the local dev server is always allowed. Credentials stay on so the
// session cookie reaches the cart endpoints, and the session header is
// exposed for clients that keep the id themselves.
func CORSMiddleware(origins string) gin.HandlerFunc {
	allowed := []string{devStorefrontOrigin}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" && origin != devStorefrontOrigin {
			allowed = append(allowed, origin)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", SessionHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
