package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/config"
	"github.com/noirparfum/noir-backend/internal/app/controller"
	"github.com/noirparfum/noir-backend/internal/middleware"
)

// Controllers groups every HTTP handler set the API exposes
type Controllers struct {
	Auth         *controller.AuthController
	Product      *controller.ProductController
	Category     *controller.CategoryController
	Cart         *controller.CartController
	Wishlist     *controller.WishlistController
	Order        *controller.OrderController
	Coupon       *controller.CouponController
	Blog         *controller.BlogController
	Review       *controller.ReviewController
	Contact      *controller.ContactController
	Settings     *controller.SettingsController
	Notification *controller.NotificationController
	Upload       *controller.UploadController
	Admin        *controller.AdminController
}

type Router struct {
	ctrl           Controllers
	authMiddleware *middleware.AuthMiddleware
	limiter        middleware.WindowCounter
	config         *config.Config
}

// NewRouter wires the routes; a nil limiter disables rate limiting
func NewRouter(
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiter middleware.WindowCounter,
	cfg *config.Config,
) *Router {
	return &Router{
		ctrl:           ctrl,
		authMiddleware: authMiddleware,
		limiter:        limiter,
		config:         cfg,
	}
}

func (r *Router) rateLimit(bucket string) gin.HandlerFunc {
	return middleware.RateLimit(r.limiter, bucket, r.config.RateLimit.Requests, r.config.RateLimit.Window)
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": r.config.Store.Name + " API is running",
		})
	})

	authn := r.authMiddleware.Authenticate()
	optional := r.authMiddleware.OptionalAuthenticate()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.rateLimit("register"), r.ctrl.Auth.Register)
			auth.POST("/login", r.rateLimit("login"), r.ctrl.Auth.Login)
			auth.POST("/refresh", r.ctrl.Auth.Refresh)
			auth.POST("/forgot-password", r.rateLimit("forgot_password"), r.ctrl.Auth.ForgotPassword)
			auth.POST("/reset-password", r.rateLimit("reset_password"), r.ctrl.Auth.ResetPassword)
			auth.POST("/logout", authn, r.ctrl.Auth.Logout)
			auth.GET("/me", authn, r.ctrl.Auth.GetMe)
			auth.PUT("/me", authn, r.ctrl.Auth.UpdateMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.ctrl.Product.ListProducts)
			products.GET("/featured", r.ctrl.Product.GetFeaturedProducts)
			products.GET("/:slug", r.ctrl.Product.GetProduct)
			products.GET("/:slug/reviews", r.ctrl.Review.ListProductReviews)
			products.POST("/:slug/reviews", r.rateLimit("review"), optional, r.ctrl.Review.SubmitProductReview)
			products.GET("/:slug/questions", r.ctrl.Contact.ListProductQuestions)
			products.POST("/:slug/questions", r.rateLimit("question"), r.ctrl.Contact.AskQuestion)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.ctrl.Category.GetTree)
			categories.GET("/:slug", r.ctrl.Category.GetBySlug)
		}

		cart := v1.Group("/cart")
		cart.Use(authn)
		{
			cart.GET("", r.ctrl.Cart.GetCart)
			cart.POST("", r.ctrl.Cart.AddToCart)
			cart.DELETE("", r.ctrl.Cart.ClearCart)
			cart.PUT("/:id", r.ctrl.Cart.UpdateCartItem)
			cart.DELETE("/:id", r.ctrl.Cart.RemoveFromCart)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(authn)
		{
			wishlist.GET("", r.ctrl.Wishlist.GetWishlist)
			wishlist.POST("", r.ctrl.Wishlist.AddToWishlist)
			wishlist.DELETE("/:productId", r.ctrl.Wishlist.RemoveFromWishlist)
			wishlist.POST("/:productId/move-to-cart", r.ctrl.Wishlist.MoveToCart)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", r.rateLimit("checkout"), optional, r.ctrl.Order.CreateOrder)
			orders.GET("/track", r.rateLimit("track"), r.ctrl.Order.TrackOrder)
			orders.GET("", authn, r.ctrl.Order.GetMyOrders)
			orders.GET("/:id", authn, r.ctrl.Order.GetMyOrder)
		}

		v1.POST("/coupons/validate", r.rateLimit("coupon"), r.ctrl.Coupon.Validate)

		blogs := v1.Group("/blogs")
		{
			blogs.GET("", r.ctrl.Blog.ListBlogs)
			blogs.GET("/:slug", r.ctrl.Blog.GetBlog)
			blogs.POST("/:slug/like", r.ctrl.Blog.ToggleLike)
			blogs.GET("/:slug/comments", r.ctrl.Blog.ListComments)
			blogs.POST("/:slug/comments", r.rateLimit("comment"), optional, r.ctrl.Blog.SubmitComment)
			blogs.GET("/:slug/reviews", r.ctrl.Blog.ListReviews)
			blogs.POST("/:slug/reviews", r.rateLimit("review"), optional, r.ctrl.Blog.SubmitReview)
		}

		v1.POST("/contact", r.rateLimit("contact"), r.ctrl.Contact.SubmitContact)
		v1.GET("/settings", r.ctrl.Settings.GetSettings)
		v1.GET("/pages", r.ctrl.Settings.ListPages)
		v1.GET("/pages/:slug", r.ctrl.Settings.GetPage)

		admin := v1.Group("/admin")
		admin.Use(authn, r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/dashboard", r.ctrl.Admin.Dashboard)
			admin.GET("/ws", r.ctrl.Admin.Events)
			admin.POST("/import", r.ctrl.Admin.Import)

			admin.GET("/users", r.ctrl.Auth.ListUsers)
			admin.PUT("/users/:id/role", r.ctrl.Auth.UpdateUserRole)
			admin.DELETE("/users/:id", r.ctrl.Auth.DeleteUser)

			admin.GET("/products", r.ctrl.Product.AdminListProducts)
			admin.GET("/products/:id", r.ctrl.Product.AdminGetProduct)
			admin.POST("/products", r.ctrl.Product.CreateProduct)
			admin.PUT("/products/:id", r.ctrl.Product.UpdateProduct)
			admin.PATCH("/products/:id/stock", r.ctrl.Product.AdjustStock)
			admin.DELETE("/products/:id", r.ctrl.Product.DeleteProduct)

			admin.GET("/categories", r.ctrl.Category.ListAll)
			admin.POST("/categories", r.ctrl.Category.Create)
			admin.PUT("/categories/:id", r.ctrl.Category.Update)
			admin.DELETE("/categories/:id", r.ctrl.Category.Delete)

			admin.GET("/orders", r.ctrl.Order.ListOrders)
			admin.GET("/orders/export", r.ctrl.Order.ExportOrders)
			admin.GET("/orders/:id", r.ctrl.Order.GetOrder)
			admin.GET("/orders/:id/label", r.ctrl.Order.PrintLabel)
			admin.PUT("/orders/:id/status", r.ctrl.Order.UpdateStatus)
			admin.PUT("/orders/:id/tracking", r.ctrl.Order.UpdateTracking)
			admin.DELETE("/orders/:id", r.ctrl.Order.DeleteOrder)

			admin.GET("/coupons", r.ctrl.Coupon.List)
			admin.POST("/coupons", r.ctrl.Coupon.Create)
			admin.PATCH("/coupons/:id", r.ctrl.Coupon.SetActive)
			admin.DELETE("/coupons/:id", r.ctrl.Coupon.Delete)

			admin.GET("/blogs", r.ctrl.Blog.AdminListBlogs)
			admin.GET("/blogs/:id", r.ctrl.Blog.AdminGetBlog)
			admin.POST("/blogs", r.ctrl.Blog.CreateBlog)
			admin.PUT("/blogs/:id", r.ctrl.Blog.UpdateBlog)
			admin.DELETE("/blogs/:id", r.ctrl.Blog.DeleteBlog)

			admin.GET("/reviews", r.ctrl.Review.ListReviews)
			admin.PUT("/reviews/:id/status", r.ctrl.Review.ModerateReview)
			admin.DELETE("/reviews/:id", r.ctrl.Review.DeleteReview)
			admin.GET("/comments", r.ctrl.Review.ListComments)
			admin.PUT("/comments/:id/status", r.ctrl.Review.ModerateComment)
			admin.DELETE("/comments/:id", r.ctrl.Review.DeleteComment)

			admin.GET("/contact", r.ctrl.Contact.ListMessages)
			admin.GET("/contact/:id", r.ctrl.Contact.GetMessage)
			admin.PUT("/contact/:id/status", r.ctrl.Contact.UpdateMessageStatus)
			admin.POST("/contact/:id/reply", r.ctrl.Contact.ReplyToMessage)
			admin.DELETE("/contact/:id", r.ctrl.Contact.DeleteMessage)

			admin.GET("/questions", r.ctrl.Contact.ListQuestions)
			admin.POST("/questions/:id/answer", r.ctrl.Contact.AnswerQuestion)
			admin.PUT("/questions/:id/status", r.ctrl.Contact.UpdateQuestionStatus)
			admin.DELETE("/questions/:id", r.ctrl.Contact.DeleteQuestion)

			admin.GET("/settings", r.ctrl.Settings.GetSettings)
			admin.PUT("/settings", r.ctrl.Settings.UpdateSettings)
			admin.GET("/pages", r.ctrl.Settings.ListAllPages)
			admin.POST("/pages", r.ctrl.Settings.SavePage)
			admin.PUT("/pages/:slug", r.ctrl.Settings.SavePage)
			admin.DELETE("/pages/:slug", r.ctrl.Settings.DeletePage)

			admin.POST("/notifications/order-confirmation", r.ctrl.Notification.SendOrderConfirmation)
			admin.POST("/notifications/tracking", r.ctrl.Notification.SendOrderTracking)
			admin.GET("/notifications/logs", r.ctrl.Notification.ListLogs)

			admin.POST("/upload", r.ctrl.Upload.UploadImage)
			admin.POST("/upload/presigned-url", r.ctrl.Upload.GeneratePresignedURL)
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
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
