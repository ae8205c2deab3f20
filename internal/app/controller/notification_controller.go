package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/pkg/response"
)

// NotificationController lets the back office (re)send customer messages
type NotificationController struct {
	service service.NotificationService
}

func NewNotificationController(service service.NotificationService) *NotificationController {
	return &NotificationController{service: service}
}

// SendOrderConfirmation emails and/or messages the order confirmation.
// Channel failures are reported in the results, not as an error status.
// POST /api/v1/admin/notifications/order-confirmation
func (ctrl *NotificationController) SendOrderConfirmation(c *gin.Context) {
	var req model.OrderConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	results, err := ctrl.service.SendOrderConfirmation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	logNotificationResults(c, "order_confirmation", req.OrderID, results)
	response.OK(c, gin.H{"results": results})
}

// SendOrderTracking stores tracking details and notifies the customer
// POST /api/v1/admin/notifications/tracking
func (ctrl *NotificationController) SendOrderTracking(c *gin.Context) {
	var req model.OrderTrackingNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	results, err := ctrl.service.SendOrderTracking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "order")
		return
	}

	logNotificationResults(c, "order_tracking", req.OrderID, results)
	response.OK(c, gin.H{"results": results})
}

// ListLogs returns delivery attempts, newest first
// GET /api/v1/admin/notifications/logs
func (ctrl *NotificationController) ListLogs(c *gin.Context) {
	orderID, ok := optionalUintQuery(c, "order_id")
	if !ok {
		return
	}

	p := pagination(c)
	logs, total, err := ctrl.service.ListLogs(repository.NotificationLogFilter{
		OrderID: orderID,
		Channel: model.NotificationChannel(c.Query("channel")),
		Kind:    model.NotificationKind(c.Query("kind")),
		Page:    p.Page,
		Limit:   p.Limit,
	})
	if err != nil {
		respondError(c, err, "list notifications")
		return
	}

	response.Paginated(c, logs, p, total)
}

func logNotificationResults(c *gin.Context, kind string, orderID uint, results *model.NotificationResults) {
	fields := map[string]interface{}{
		"kind":          kind,
		"order_id":      orderID,
		"email_sent":    results.EmailSent,
		"whatsapp_sent": results.WhatsAppSent,
	}
	log := middleware.GetLoggerFromContext(c)
	if len(results.Errors) > 0 {
		fields["errors"] = results.Errors
		log.Warn("Notification partially delivered", fields)
		return
	}
	log.Info("Notification delivered", fields)
}
