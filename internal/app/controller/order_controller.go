package controller

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/pkg/response"
)

const (
	dateLayout = "2006-01-02"
	xlsxMIME   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type OrderController struct {
	orderService     service.OrderService
	dashboardService service.DashboardService
	labelService     service.LabelService
}

func NewOrderController(
	orderService service.OrderService,
	dashboardService service.DashboardService,
	labelService service.LabelService,
) *OrderController {
	return &OrderController{
		orderService:     orderService,
		dashboardService: dashboardService,
		labelService:     labelService,
	}
}

// CreateOrder places an order for a guest or a signed-in customer
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	userID := currentUserID(c)
	order, err := ctrl.orderService.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		log.Warn("Order placement failed", map[string]interface{}{
			"email": req.CustomerEmail,
			"items": len(req.Items),
			"error": err.Error(),
		})
		respondError(c, err, "create order")
		return
	}

	log.Info("Order placed", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total.String(),
		"guest":        userID == nil,
	})

	response.Created(c, order)
}

// TrackOrder lets a guest look up an order by number and email
// GET /api/v1/orders/track
func (ctrl *OrderController) TrackOrder(c *gin.Context) {
	var q model.TrackOrderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	order, err := ctrl.orderService.TrackOrder(q.OrderNumber, q.Email)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	response.OK(c, order)
}

// GetMyOrders lists the signed-in customer's orders
// GET /api/v1/orders
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		respondError(c, err, "list orders")
		return
	}

	response.OK(c, orders)
}

// GetMyOrder returns one of the customer's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetMyOrder(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetUserOrder(userID, id)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	response.OK(c, order)
}

// orderFilter reads status, search and an inclusive from/to date range
func orderFilter(c *gin.Context) (model.OrderFilter, bool) {
	p := pagination(c)
	filter := model.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
		Search: strings.TrimSpace(c.Query("search")),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			apperrors.RespondWithValidationError(c, map[string]string{"from": "must be a date like 2024-01-31"})
			return filter, false
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			apperrors.RespondWithValidationError(c, map[string]string{"to": "must be a date like 2024-01-31"})
			return filter, false
		}
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "from must be before to")
		return filter, false
	}
	return filter, true
}

// ListOrders is the back-office order list
// GET /api/v1/admin/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	filter, ok := orderFilter(c)
	if !ok {
		return
	}

	orders, total, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		respondError(c, err, "list orders")
		return
	}

	response.Paginated(c, orders, pagination(c), total)
}

// GET /api/v1/admin/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(id)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	response.OK(c, order)
}

// UpdateStatus moves an order through its lifecycle
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	order, err := ctrl.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "update order")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   order.Status,
	})

	response.OK(c, order)
}

// UpdateTracking stores carrier details without notifying the customer
// PUT /api/v1/admin/orders/:id/tracking
func (ctrl *OrderController) UpdateTracking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	order, err := ctrl.orderService.UpdateTracking(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "update order")
		return
	}

	response.OK(c, order)
}

// DELETE /api/v1/admin/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(id); err != nil {
		respondError(c, err, "delete order")
		return
	}

	response.Message(c, "Order deleted")
}

// ExportOrders downloads the filtered orders as a spreadsheet
// GET /api/v1/admin/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	filter, ok := orderFilter(c)
	if !ok {
		return
	}

	data, err := ctrl.dashboardService.ExportOrders(filter)
	if err != nil {
		respondError(c, err, "export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxMIME, data)
}

// PrintLabel renders a printable delivery label
// GET /api/v1/admin/orders/:id/label
func (ctrl *OrderController) PrintLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	html, err := ctrl.labelService.RenderLabel(id)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
