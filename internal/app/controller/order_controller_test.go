package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderTest struct {
	router     *gin.Engine
	db         *gorm.DB
	adminToken string
	buyer      *model.User
	buyerToken string
}

func setupOrderControllerTest(t *testing.T) *orderTest {
	router, authMiddleware := newTestRouter()
	testDB := setupTestDB(t)

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	settingsRepo := repository.NewSettingsRepository(testDB)
	orderService := service.NewOrderService(service.OrderServiceDeps{
		DB:           testDB,
		OrderRepo:    orderRepo,
		ProductRepo:  productRepo,
		CouponRepo:   repository.NewCouponRepository(testDB),
		SettingsRepo: settingsRepo,
		CartRepo:     repository.NewCartRepository(testDB),
	})
	dashboardService := service.NewDashboardService(service.DashboardRepos{
		Orders:    orderRepo,
		Products:  productRepo,
		Reviews:   repository.NewReviewRepository(testDB),
		Comments:  repository.NewCommentRepository(testDB),
		Questions: repository.NewQuestionRepository(testDB),
		Contacts:  repository.NewContactRepository(testDB),
		Blogs:     repository.NewBlogRepository(testDB),
		Users:     repository.NewUserRepository(testDB),
		Settings:  settingsRepo,
	})
	ctrl := NewOrderController(orderService, dashboardService, service.NewLabelService(orderService, settingsRepo))

	authn := authMiddleware.Authenticate()
	router.POST("/orders", authMiddleware.OptionalAuthenticate(), ctrl.CreateOrder)
	router.GET("/orders/track", ctrl.TrackOrder)
	router.GET("/orders", authn, ctrl.GetMyOrders)
	router.GET("/orders/:id", authn, ctrl.GetMyOrder)

	admin := router.Group("/admin", authn, authMiddleware.RequireRole("admin"))
	admin.GET("/orders", ctrl.ListOrders)
	admin.GET("/orders/export", ctrl.ExportOrders)
	admin.GET("/orders/:id", ctrl.GetOrder)
	admin.GET("/orders/:id/label", ctrl.PrintLabel)
	admin.PUT("/orders/:id/status", ctrl.UpdateStatus)
	admin.PUT("/orders/:id/tracking", ctrl.UpdateTracking)
	admin.DELETE("/orders/:id", ctrl.DeleteOrder)

	buyer := createUser(t, testDB, "camille@example.com", model.RoleUser)
	return &orderTest{
		router:     router,
		db:         testDB,
		adminToken: tokenFor(t, createUser(t, testDB, "admin@example.com", model.RoleAdmin)),
		buyer:      buyer,
		buyerToken: tokenFor(t, buyer),
	}
}

func checkoutRequest(lines ...model.OrderLineRequest) model.CreateOrderRequest {
	return model.CreateOrderRequest{
		CustomerName:  "Camille Laurent",
		CustomerEmail: "camille@example.com",
		CustomerPhone: "+33612345678",
		AddressLine1:  "12 rue des Lilas",
		City:          "Lyon",
		PostalCode:    "69001",
		Items:         lines,
	}
}

func (ot *orderTest) placeOrder(t *testing.T, token string, lines ...model.OrderLineRequest) model.Order {
	t.Helper()
	w := doJSON(ot.router, http.MethodPost, "/orders", checkoutRequest(lines...), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order model.Order
	decodeSuccess(t, w, &order)
	return order
}

func TestOrderController_CreateOrder(t *testing.T) {
	t.Run("guest checkout", func(t *testing.T) {
		ot := setupOrderControllerTest(t)
		product := createProduct(t, ot.db, "Oud Nocturne", 40, 5)

		order := ot.placeOrder(t, "", model.OrderLineRequest{ProductID: product.ID, Quantity: 2})

		assert.Equal(t, "ORD-000001", order.OrderNumber)
		assert.Nil(t, order.UserID)
		assert.Equal(t, model.OrderStatusPending, order.Status)

		var stored model.Product
		require.NoError(t, ot.db.First(&stored, product.ID).Error)
		assert.Equal(t, 3, stored.StockQuantity)
	})

	t.Run("signed-in checkout is attached to the account", func(t *testing.T) {
		ot := setupOrderControllerTest(t)
		product := createProduct(t, ot.db, "Oud Nocturne", 40, 5)

		order := ot.placeOrder(t, ot.buyerToken, model.OrderLineRequest{ProductID: product.ID, Quantity: 1})

		require.NotNil(t, order.UserID)
		assert.Equal(t, ot.buyer.ID, *order.UserID)
	})

	t.Run("insufficient stock leaves stock untouched", func(t *testing.T) {
		ot := setupOrderControllerTest(t)
		product := createProduct(t, ot.db, "Oud Nocturne", 40, 1)

		w := doJSON(ot.router, http.MethodPost, "/orders",
			checkoutRequest(model.OrderLineRequest{ProductID: product.ID, Quantity: 2}), "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ProductOutOfStock, decodeError(t, w).Error)

		var stored model.Product
		require.NoError(t, ot.db.First(&stored, product.ID).Error)
		assert.Equal(t, 1, stored.StockQuantity)
		var count int64
		ot.db.Model(&model.Order{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("missing items", func(t *testing.T) {
		ot := setupOrderControllerTest(t)

		w := doJSON(ot.router, http.MethodPost, "/orders", checkoutRequest(), "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Fields, "items")
	})

	t.Run("guest checkout disabled", func(t *testing.T) {
		ot := setupOrderControllerTest(t)
		product := createProduct(t, ot.db, "Oud Nocturne", 40, 5)
		require.NoError(t, ot.db.Model(&model.Settings{}).Where("id = ?", model.SettingsID).
			Update("enable_guest_checkout", false).Error)

		w := doJSON(ot.router, http.MethodPost, "/orders",
			checkoutRequest(model.OrderLineRequest{ProductID: product.ID, Quantity: 1}), "")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperrors.OrderGuestDisabled, decodeError(t, w).Error)
	})
}

func TestOrderController_TrackOrder(t *testing.T) {
	ot := setupOrderControllerTest(t)
	product := createProduct(t, ot.db, "Oud Nocturne", 40, 5)
	order := ot.placeOrder(t, "", model.OrderLineRequest{ProductID: product.ID, Quantity: 1})

	t.Run("matching email", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodGet, "/orders/track?order_number="+strings.ToLower(order.OrderNumber)+"&email=CAMILLE@example.com", nil, "")

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got model.Order
		decodeSuccess(t, w, &got)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("wrong email looks like a missing order", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodGet, "/orders/track?order_number="+order.OrderNumber+"&email=someone@example.com", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("email required", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodGet, "/orders/track?order_number="+order.OrderNumber, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderController_MyOrders(t *testing.T) {
	ot := setupOrderControllerTest(t)
	product := createProduct(t, ot.db, "Oud Nocturne", 40, 5)
	mine := ot.placeOrder(t, ot.buyerToken, model.OrderLineRequest{ProductID: product.ID, Quantity: 1})
	guest := ot.placeOrder(t, "", model.OrderLineRequest{ProductID: product.ID, Quantity: 1})

	w := doJSON(ot.router, http.MethodGet, "/orders", nil, ot.buyerToken)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []model.Order
	decodeSuccess(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	w = doJSON(ot.router, http.MethodGet, "/orders/"+uintPath(guest.ID), nil, ot.buyerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderController_UpdateStatus(t *testing.T) {
	ot := setupOrderControllerTest(t)
	product := createProduct(t, ot.db, "Oud Nocturne", 40, 5)
	order := ot.placeOrder(t, "", model.OrderLineRequest{ProductID: product.ID, Quantity: 2})
	path := "/admin/orders/" + uintPath(order.ID) + "/status"

	t.Run("customers are forbidden", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodPut, path, model.UpdateOrderStatusRequest{Status: model.OrderStatusShipped}, ot.buyerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodPut, path, map[string]string{"status": "lost"}, ot.adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("cancel restores stock", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodPut, path, model.UpdateOrderStatusRequest{Status: model.OrderStatusCancelled}, ot.adminToken)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got model.Order
		decodeSuccess(t, w, &got)
		assert.Equal(t, model.OrderStatusCancelled, got.Status)

		var stored model.Product
		require.NoError(t, ot.db.First(&stored, product.ID).Error)
		assert.Equal(t, 5, stored.StockQuantity)
	})

	t.Run("cancelled is final", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodPut, path, model.UpdateOrderStatusRequest{Status: model.OrderStatusProcessing}, ot.adminToken)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.OrderInvalidTransition, decodeError(t, w).Error)
	})
}

func TestOrderController_AdminListing(t *testing.T) {
	ot := setupOrderControllerTest(t)
	product := createProduct(t, ot.db, "Oud Nocturne", 40, 10)
	ot.placeOrder(t, "", model.OrderLineRequest{ProductID: product.ID, Quantity: 1})
	order := ot.placeOrder(t, "", model.OrderLineRequest{ProductID: product.ID, Quantity: 1})

	t.Run("list with meta", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodGet, "/admin/orders?limit=1", nil, ot.adminToken)

		require.Equal(t, http.StatusOK, w.Code)
		var orders []model.Order
		body := decodeSuccess(t, w, &orders)
		assert.Len(t, orders, 1)
		require.NotNil(t, body.Meta)
		assert.Equal(t, int64(2), body.Meta.Total)
	})

	t.Run("bad date", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodGet, "/admin/orders?from=yesterday", nil, ot.adminToken)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Fields, "from")
	})

	t.Run("inverted range", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodGet, "/admin/orders?from=2024-02-01&to=2024-01-01", nil, ot.adminToken)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.ValidationInvalidRange, decodeError(t, w).Error)
	})

	t.Run("export is a spreadsheet", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/orders/export", nil)
		req.Header.Set("Authorization", "Bearer "+ot.adminToken)
		w := httptest.NewRecorder()
		ot.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxMIME, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
		// xlsx files are zip archives
		assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
	})

	t.Run("label is html", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodGet, "/admin/orders/"+uintPath(order.ID)+"/label", nil, ot.adminToken)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), order.OrderNumber)
		assert.Contains(t, w.Body.String(), "Camille Laurent")
	})

	t.Run("tracking", func(t *testing.T) {
		w := doJSON(ot.router, http.MethodPut, "/admin/orders/"+uintPath(order.ID)+"/tracking", model.UpdateTrackingRequest{
			Carrier:        "Colissimo",
			TrackingNumber: "6A12345678901",
		}, ot.adminToken)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got model.Order
		decodeSuccess(t, w, &got)
		assert.Equal(t, "6A12345678901", got.TrackingNumber)
	})
}
