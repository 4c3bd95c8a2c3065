package routes

import (
	"path/filepath"

	"farm-shop/controllers"
	"farm-shop/handler"
	"farm-shop/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Shop    *controllers.ShopController
	Content *controllers.ContentController
	Cart    *controllers.CartController
	Auth    *controllers.AuthController
	Admin   *controllers.AdminController
}

type Options struct {
	JWTSecret string
	UploadDir string
	Session   middleware.SessionOptions
}

func SetupRoutes(router *gin.Engine, ctrl Controllers, opts Options) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", gin.WrapF(handler.Handler))
	router.Static("/uploads/products", filepath.Join(opts.UploadDir, "products"))

	router.POST("/auth/login", ctrl.Auth.Login)

	public := router.Group("/")
	public.Use(middleware.SessionMiddleware(opts.Session))
	{
		public.GET("/", ctrl.Shop.Home)
		public.GET("/shop", ctrl.Shop.Shop)
		public.GET("/shop/category/:slug", ctrl.Shop.Category)
		public.GET("/shop/product/:slug", ctrl.Shop.Product)
		public.POST("/shop/product/:slug/reviews", ctrl.Shop.SubmitReview)
		public.GET("/shop/recipes", ctrl.Content.Recipes)
		public.GET("/shop/recipe/:slug", ctrl.Content.Recipe)
		public.GET("/shop/recipe/:slug/download-pdf", ctrl.Content.RecipePDF)
		public.GET("/gallery", ctrl.Content.Gallery)
		public.GET("/testimonials", ctrl.Content.Testimonials)
		public.POST("/submit-testimonial", ctrl.Content.SubmitTestimonial)

		public.GET("/cart", ctrl.Cart.Detail)
		public.POST("/cart/add/:product_id", ctrl.Cart.Add)
		public.POST("/cart/remove/:product_id", ctrl.Cart.Remove)
		public.POST("/cart/update", ctrl.Cart.Update)
		public.POST("/cart/set-shipping", ctrl.Cart.SetShipping)
		public.POST("/cart/create-whatsapp-order", ctrl.Cart.CreateWhatsAppOrder)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(opts.JWTSecret), middleware.AdminMiddleware())
	{
		admin.GET("/orders", ctrl.Admin.ListOrders)
		admin.GET("/orders/:id", ctrl.Admin.GetOrder)
		admin.GET("/orders/:id/invoice", ctrl.Admin.OrderInvoice)
		admin.PATCH("/orders/:id/notified", ctrl.Admin.MarkOrderNotified)

		admin.POST("/products", ctrl.Admin.CreateProduct)
		admin.PATCH("/products/:id", ctrl.Admin.UpdateProduct)
		admin.DELETE("/products/:id", ctrl.Admin.DeleteProduct)
		admin.POST("/products/:id/images", ctrl.Admin.UploadProductImage)
		admin.DELETE("/products/:id/images/:image_id", ctrl.Admin.DeleteProductImage)

		admin.PATCH("/reviews/:id/approve", ctrl.Admin.ApproveReview)
		admin.PATCH("/testimonials/:id/approve", ctrl.Admin.ApproveTestimonial)
	}
}
