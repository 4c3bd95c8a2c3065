package routes

import (
	"context"
	"errors"
	"time"

	"farm-shop/config"
	"farm-shop/controllers"
	"farm-shop/libs"
	"farm-shop/middleware"
	"farm-shop/models"
	"farm-shop/repositories"
	"farm-shop/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const productListTTL = 5 * time.Minute

// NewRouter wires repositories, services and controllers into a gin engine.
// rdb may be nil, in which case sessions, the checkout lock and the product
// list cache live in process memory.
func NewRouter(ctx context.Context, cfg *config.Config, db *pgxpool.Pool, rdb *redis.Client) (*gin.Engine, error) {
	loc := cfg.Location()
	shipping := models.DefaultShippingTable

	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)
	users := repositories.NewUserRepository(db)

	var (
		sessions repositories.SessionStore
		locker   repositories.Locker
		cache    repositories.ProductListCache
	)
	if rdb != nil {
		sessions = repositories.NewRedisSessionStore(rdb, cfg.SessionTTL)
		locker = repositories.NewRedisLocker(rdb)
		cache = repositories.NewRedisProductCache(rdb, productListTTL)
	} else {
		config.Logger.Warn("redis unavailable, sessions and cache are in-process only")
		sessions = repositories.NewMemorySessionStore()
		locker = repositories.NewMemoryLocker()
		cache = repositories.NopProductCache{}
	}

	local := libs.NewLocalStore(cfg.UploadDir, cfg.MaxUploadSize)
	var (
		documents services.DocumentStore = local
		images    services.ImageStore    = local
	)
	cld, err := libs.NewCloudinaryStore(cfg)
	switch {
	case err == nil:
		documents, images = cld, cld
		config.Logger.Info("storing invoices and images in cloudinary")
	case errors.Is(err, libs.ErrCloudinaryNotConfigured):
		config.Logger.Info("cloudinary not configured, storing files locally", zap.String("dir", cfg.UploadDir))
	default:
		return nil, err
	}

	var notifier services.OrderNotifier
	mailer, err := libs.NewOrderMailer(cfg, loc)
	if err == nil {
		notifier = mailer
	} else {
		config.Logger.Info("order notification mail disabled", zap.Error(err))
	}

	renderer := libs.NewPDFRenderer(cfg.ShopName, cfg.Currency, loc)

	cartSvc := services.NewCartService(sessions, products, shipping, cfg.ShopName, cfg.Currency)
	checkoutSvc := services.NewCheckoutService(sessions, locker, cartSvc, orders, renderer, documents, notifier, shipping,
		services.CheckoutConfig{
			LinkBase: cfg.WhatsAppLinkBase(),
			Currency: cfg.Currency,
			Location: loc,
		})
	productSvc := services.NewProductService(products, cache, images, cfg.ReviewAutoApprove)
	contentSvc := services.NewContentService(
		repositories.NewRecipeRepository(db),
		repositories.NewGalleryRepository(db),
		repositories.NewTestimonialRepository(db),
		renderer,
	)
	orderSvc := services.NewOrderService(orders, renderer)
	authSvc := services.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL())

	if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(config.Logger))
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))

	SetupRoutes(router, Controllers{
		Shop:    controllers.NewShopController(productSvc),
		Content: controllers.NewContentController(contentSvc),
		Cart:    controllers.NewCartController(cartSvc, checkoutSvc, shipping, cfg.Currency),
		Auth:    controllers.NewAuthController(authSvc),
		Admin:   controllers.NewAdminController(orderSvc, productSvc, contentSvc, local),
	}, Options{
		JWTSecret: cfg.JWTSecret,
		UploadDir: cfg.UploadDir,
		Session: middleware.SessionOptions{
			CookieName: cfg.SessionCookie,
			TTL:        cfg.SessionTTL,
			Secure:     cfg.AppEnv == "production",
		},
	})
	return router, nil
}
