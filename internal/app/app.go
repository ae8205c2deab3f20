package app

import (
	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/config"
	"github.com/noirparfum/noir-backend/internal/app/controller"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/internal/router"
	"github.com/noirparfum/noir-backend/internal/storage"
	"github.com/noirparfum/noir-backend/internal/websocket"
	"github.com/noirparfum/noir-backend/pkg/mailer"
	redisstore "github.com/noirparfum/noir-backend/pkg/redis"
	"github.com/noirparfum/noir-backend/pkg/whatsapp"
	"gorm.io/gorm"
)

// Dependencies are the external resources the API is built on.
// Mailer, WhatsApp, Redis and Hub may be nil; the matching feature is then off.
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Hub         *websocket.Hub
	ObjectStore storage.ObjectStore
	Publisher   events.Publisher
	Mailer      mailer.Sender
	WhatsApp    whatsapp.Sender
	Redis       *redisstore.Store

	// InlineOrderEmails sends the confirmation email from the request path.
	// Leave it off when cmd/notifier consumes order.placed from Kafka.
	InlineOrderEmails bool
}

type Services struct {
	Auth          service.AuthService
	PasswordReset service.PasswordResetService
	Product       service.ProductService
	Category      service.CategoryService
	Cart          service.CartService
	Wishlist      service.WishlistService
	Order         service.OrderService
	Coupon        service.CouponService
	Blog          service.BlogService
	Review        service.ReviewService
	Comment       service.CommentService
	Contact       service.ContactService
	Question      service.QuestionService
	Settings      service.SettingsService
	Page          service.PageService
	Import        service.ImportService
	Notification  service.NotificationService
	Dashboard     service.DashboardService
	Label         service.LabelService
	StockReport   service.StockReportService
}

type Application struct {
	Engine   *gin.Engine
	Services Services
}

// New builds repositories, services, controllers and the gin engine
func New(deps Dependencies) *Application {
	cfg := deps.Config
	database := deps.DB

	apperrors.SetDebug(cfg.Server.IsDevelopment())
	apperrors.RegisterJSONFieldNames()

	// keep typed nils out of the interfaces
	var blacklist service.TokenBlacklist
	var limiter middleware.WindowCounter
	var tokenCheck middleware.TokenBlacklist
	if deps.Redis != nil {
		blacklist = deps.Redis
		limiter = deps.Redis
		tokenCheck = deps.Redis
	}
	var broadcaster service.Broadcaster
	if deps.Hub != nil {
		broadcaster = deps.Hub
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	userRepo := repository.NewUserRepository(database)
	productRepo := repository.NewProductRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	cartRepo := repository.NewCartRepository(database)
	wishlistRepo := repository.NewWishlistRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	couponRepo := repository.NewCouponRepository(database)
	blogRepo := repository.NewBlogRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	commentRepo := repository.NewCommentRepository(database)
	contactRepo := repository.NewContactRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	pageRepo := repository.NewPageRepository(database)
	logRepo := repository.NewNotificationLogRepository(database)
	resetRepo := repository.NewPasswordResetRepository(database)

	storeInfo := service.StoreInfo{
		Name:          cfg.Store.Name,
		StorefrontURL: cfg.Store.StorefrontURL,
		AdminEmail:    cfg.Store.AdminEmail,
	}
	notifications := service.NewNotificationService(
		orderRepo,
		settingsRepo,
		logRepo,
		deps.Mailer,
		deps.WhatsApp,
		service.NewOrderEvents(publisher, broadcaster),
		storeInfo,
	)

	var orderNotifier service.OrderNotifier
	if deps.InlineOrderEmails {
		orderNotifier = notifications
	}

	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(service.OrderServiceDeps{
		DB:           database,
		OrderRepo:    orderRepo,
		ProductRepo:  productRepo,
		CouponRepo:   couponRepo,
		SettingsRepo: settingsRepo,
		CartRepo:     cartRepo,
		Publisher:    publisher,
		Broadcaster:  broadcaster,
		Notifier:     orderNotifier,
	})

	svc := Services{
		Auth:          service.NewAuthService(userRepo, blacklist, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry),
		PasswordReset: service.NewPasswordResetService(resetRepo, userRepo, deps.Mailer, storeInfo),
		Product:       service.NewProductService(productRepo, categoryRepo),
		Category:      service.NewCategoryService(categoryRepo, productRepo),
		Cart:          cartService,
		Wishlist:      service.NewWishlistService(wishlistRepo, productRepo, cartService),
		Order:         orderService,
		Coupon:        service.NewCouponService(couponRepo),
		Blog:          service.NewBlogService(blogRepo),
		Review:        service.NewReviewService(reviewRepo, productRepo, blogRepo, settingsRepo),
		Comment:       service.NewCommentService(commentRepo, blogRepo, settingsRepo),
		Contact:       service.NewContactService(contactRepo, notifications, broadcaster),
		Question:      service.NewQuestionService(questionRepo, productRepo, broadcaster),
		Settings:      service.NewSettingsService(settingsRepo),
		Page:          service.NewPageService(pageRepo),
		Import:        service.NewImportService(database, reviewRepo, commentRepo, productRepo, blogRepo),
		Notification:  notifications,
		Dashboard: service.NewDashboardService(service.DashboardRepos{
			Orders:    orderRepo,
			Products:  productRepo,
			Reviews:   reviewRepo,
			Comments:  commentRepo,
			Questions: questionRepo,
			Contacts:  contactRepo,
			Blogs:     blogRepo,
			Users:     userRepo,
			Settings:  settingsRepo,
		}),
		Label:       service.NewLabelService(orderService, settingsRepo),
		StockReport: service.NewStockReportService(productRepo, settingsRepo, notifications),
	}

	controllers := router.Controllers{
		Auth:         controller.NewAuthController(svc.Auth, svc.PasswordReset),
		Product:      controller.NewProductController(svc.Product),
		Category:     controller.NewCategoryController(svc.Category),
		Cart:         controller.NewCartController(svc.Cart),
		Wishlist:     controller.NewWishlistController(svc.Wishlist),
		Order:        controller.NewOrderController(svc.Order, svc.Dashboard, svc.Label),
		Coupon:       controller.NewCouponController(svc.Coupon),
		Blog:         controller.NewBlogController(svc.Blog, svc.Comment, svc.Review),
		Review:       controller.NewReviewController(svc.Product, svc.Review, svc.Comment),
		Contact:      controller.NewContactController(svc.Contact, svc.Question, svc.Product),
		Settings:     controller.NewSettingsController(svc.Settings, svc.Page),
		Notification: controller.NewNotificationController(svc.Notification),
		Upload:       controller.NewUploadController(deps.ObjectStore),
		Admin: controller.NewAdminController(
			svc.Dashboard,
			svc.Import,
			deps.Hub,
			websocket.NewUpgrader(cfg.CORS.AllowedOrigins),
		),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, tokenCheck)
	engine := router.NewRouter(controllers, authMiddleware, limiter, cfg).Setup()

	return &Application{Engine: engine, Services: svc}
}
