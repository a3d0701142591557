package router

import (
	"github.com/gin-gonic/gin"
	"github.com/petstoryclub/petstory-backend/config"
	"github.com/petstoryclub/petstory-backend/internal/app/controller"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
)

type Router struct {
	productController  *controller.ProductController
	categoryController *controller.CategoryController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	settingsController *controller.SettingsController
	profileController  *controller.ProfileController
	paymentController  *controller.PaymentController
	feedController     *controller.FeedController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	settingsController *controller.SettingsController,
	profileController *controller.ProfileController,
	paymentController *controller.PaymentController,
	feedController *controller.FeedController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:  productController,
		categoryController: categoryController,
		cartController:     cartController,
		orderController:    orderController,
		settingsController: settingsController,
		profileController:  profileController,
		paymentController:  paymentController,
		feedController:     feedController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "PETSTORY API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:slug", r.productController.GetProductBySlug)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:slug", r.categoryController.GetCategoryBySlug)
		}

		v1.GET("/settings", r.settingsController.GetSettings)

		me := v1.Group("/me")
		me.Use(r.authMiddleware.Authenticate())
		{
			me.GET("", r.profileController.GetMe)
			me.PUT("", r.profileController.UpdateMe)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.GET("/count", r.cartController.GetCartCount)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
			orders.POST("", r.orderController.CreateOrder)
			orders.POST("/:id/slip", r.orderController.AttachPaymentSlip)
		}

		payments := v1.Group("/payments")
		payments.Use(r.authMiddleware.Authenticate())
		{
			payments.POST("/promptpay", r.paymentController.CreatePromptPayPayload)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())
		{
			admin.GET("/dashboard", r.orderController.GetDashboardStats)

			admin.GET("/products", r.productController.ListAllProducts)
			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)
			admin.POST("/products/:id/images", r.productController.UploadProductImages)

			admin.POST("/categories", r.categoryController.CreateCategory)
			admin.PUT("/categories/:id", r.categoryController.UpdateCategory)
			admin.DELETE("/categories/:id", r.categoryController.DeleteCategory)
			admin.POST("/categories/:id/image", r.categoryController.UploadCategoryImage)

			admin.GET("/orders", r.orderController.ListOrders)
			admin.GET("/orders/export", r.orderController.ExportOrders)
			admin.GET("/orders/feed", r.feedController.StreamOrders)
			admin.PATCH("/orders/:id/status", r.orderController.UpdateOrderStatus)

			admin.GET("/users", r.profileController.ListUsers)
			admin.PATCH("/users/:id/role", r.profileController.UpdateUserRole)

			admin.PUT("/settings", r.settingsController.UpdateSettings)
			admin.POST("/settings/assets/:kind", r.settingsController.UploadSiteAsset)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
