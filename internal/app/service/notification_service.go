package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/noirparfum/noir-backend/pkg/mailer"
	"github.com/noirparfum/noir-backend/pkg/whatsapp"
	"gorm.io/gorm"
)

var (
	ErrEmailNotConfigured    = errors.New("email delivery is not configured")
	ErrWhatsAppNotConfigured = errors.New("whatsapp delivery is not configured")
	ErrEmailDisabled         = errors.New("email notifications are disabled")
	ErrWhatsAppDisabled      = errors.New("whatsapp notifications are disabled")
)

// StoreInfo identifies the shop in outbound messages
type StoreInfo struct {
	Name          string
	StorefrontURL string
	AdminEmail    string
}

type NotificationService interface {
	OrderPlaced(ctx context.Context, order *model.Order)
	SendOrderConfirmation(ctx context.Context, req model.OrderConfirmationRequest) (*model.NotificationResults, error)
	SendOrderTracking(ctx context.Context, req model.OrderTrackingNotificationRequest) (*model.NotificationResults, error)
	SendContactReply(ctx context.Context, message *model.ContactMessage) error
	SendLowStockReport(ctx context.Context, threshold int, products []model.Product) error
	ListLogs(filter repository.NotificationLogFilter) ([]model.NotificationLog, int64, error)
}

type notificationService struct {
	orderRepo    repository.OrderRepository
	settingsRepo repository.SettingsRepository
	logRepo      repository.NotificationLogRepository
	email        mailer.Sender
	whatsApp     whatsapp.Sender
	events       *OrderEvents
	store        StoreInfo
	now          func() time.Time
}

// NewNotificationService wires the delivery channels; a nil sender disables that channel.
// orderEvents announces the status change when a tracking notice ships an order and may be nil.
func NewNotificationService(
	orderRepo repository.OrderRepository,
	settingsRepo repository.SettingsRepository,
	logRepo repository.NotificationLogRepository,
	email mailer.Sender,
	whatsApp whatsapp.Sender,
	orderEvents *OrderEvents,
	store StoreInfo,
) NotificationService {
	return &notificationService{
		orderRepo:    orderRepo,
		settingsRepo: settingsRepo,
		logRepo:      logRepo,
		email:        email,
		whatsApp:     whatsApp,
		events:       orderEvents,
		store:        store,
		now:          time.Now,
	}
}

func (s *notificationService) record(orderID *uint, channel model.NotificationChannel, kind model.NotificationKind, recipient, providerID string, sendErr error) {
	entry := &model.NotificationLog{
		OrderID:    orderID,
		Channel:    channel,
		Kind:       kind,
		Recipient:  recipient,
		Success:    sendErr == nil,
		ProviderID: providerID,
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}
	if err := s.logRepo.Create(entry); err != nil {
		logger.Warn("Failed to record notification attempt", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
	}
}

func (s *notificationService) trackURL(order *model.Order) string {
	base := strings.TrimRight(s.store.StorefrontURL, "/")
	q := url.Values{}
	q.Set("order_number", order.OrderNumber)
	q.Set("email", order.CustomerEmail)
	return base + "/track-order?" + q.Encode()
}

func (s *notificationService) orderEmail(order *model.Order, currency string) mailer.OrderEmail {
	money := func(v string) string { return v + " " + currency }
	data := mailer.OrderEmail{
		StoreName:      s.store.Name,
		CustomerName:   order.CustomerName,
		OrderNumber:    order.OrderNumber,
		Subtotal:       money(order.Subtotal.StringFixed(2)),
		Discount:       money(order.Discount.StringFixed(2)),
		Shipping:       money(order.ShippingFee.StringFixed(2)),
		Tax:            money(order.Tax.StringFixed(2)),
		Total:          money(order.Total.StringFixed(2)),
		Currency:       currency,
		TrackURL:       s.trackURL(order),
		Carrier:        order.Carrier,
		TrackingNumber: order.TrackingNumber,
		TrackingURL:    order.TrackingURL,
	}
	for _, item := range order.OrderItems {
		data.Items = append(data.Items, mailer.OrderLine{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: money(item.FinalUnitPrice.StringFixed(2)),
			LineTotal: money(item.LineTotal.StringFixed(2)),
		})
	}
	return data
}

func (s *notificationService) sendEmail(build func() (mailer.Message, error)) error {
	if s.email == nil {
		return ErrEmailNotConfigured
	}
	msg, err := build()
	if err != nil {
		return err
	}
	return s.email.Send(msg)
}

func (s *notificationService) sendWhatsApp(ctx context.Context, phone, body string) (string, error) {
	if s.whatsApp == nil {
		return "", ErrWhatsAppNotConfigured
	}
	return s.whatsApp.SendText(ctx, phone, body)
}

func (s *notificationService) loadOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// channelSettings is read once per send
type channelSettings struct {
	currency        string
	emailEnabled    bool
	whatsAppEnabled bool
}

func (s *notificationService) channels() channelSettings {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		logger.Warn("Failed to load notification settings, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return channelSettings{currency: "EUR", emailEnabled: true}
	}
	cs := channelSettings{
		currency:        settings.Currency,
		emailEnabled:    settings.EnableEmailNotify,
		whatsAppEnabled: settings.EnableWhatsAppNotify,
	}
	if cs.currency == "" {
		cs.currency = "EUR"
	}
	return cs
}

// OrderPlaced sends the automatic confirmation for a new order according to settings
func (s *notificationService) OrderPlaced(ctx context.Context, order *model.Order) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		logger.Error("Failed to load settings for order notification", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return
	}
	// channels already confirmed are skipped so a redelivered event does not resend
	req := model.OrderConfirmationRequest{
		OrderID:      order.ID,
		SendEmail:    settings.EnableEmailNotify && s.email != nil && !order.ConfirmationEmailSent,
		SendWhatsApp: settings.EnableWhatsAppNotify && s.whatsApp != nil && !order.ConfirmationWhatsAppSent,
	}
	if !req.SendEmail && !req.SendWhatsApp {
		return
	}
	results, err := s.SendOrderConfirmation(ctx, req)
	if err != nil {
		logger.Error("Failed to send order confirmation", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return
	}
	if len(results.Errors) > 0 {
		logger.Warn("Order confirmation partially failed", map[string]interface{}{
			"order_id": order.ID,
			"errors":   results.Errors,
		})
	}
}

// SendOrderConfirmation only fails when the order cannot be loaded; channel
// failures, including channels switched off in settings, are collected in the results.
func (s *notificationService) SendOrderConfirmation(ctx context.Context, req model.OrderConfirmationRequest) (*model.NotificationResults, error) {
	order, err := s.loadOrder(req.OrderID)
	if err != nil {
		return nil, err
	}

	results := &model.NotificationResults{Errors: []string{}}
	cs := s.channels()
	currency := cs.currency
	fields := map[string]interface{}{}

	if req.SendEmail {
		err := ErrEmailDisabled
		if cs.emailEnabled {
			err = s.sendEmail(func() (mailer.Message, error) {
				return mailer.BuildOrderConfirmation(order.CustomerEmail, s.orderEmail(order, currency))
			})
		}
		s.record(&order.ID, model.ChannelEmail, model.KindOrderConfirmation, order.CustomerEmail, "", err)
		if err != nil {
			results.Errors = append(results.Errors, "email: "+err.Error())
		} else {
			results.EmailSent = true
			fields["confirmation_email_sent"] = true
			fields["confirmation_email_sent_at"] = s.now()
		}
	}

	if req.SendWhatsApp {
		var providerID string
		err := ErrWhatsAppDisabled
		if cs.whatsAppEnabled {
			body := fmt.Sprintf("Hello %s, thank you for your order %s at %s. Total: %s %s. Track it here: %s",
				order.CustomerName, order.OrderNumber, s.store.Name, order.Total.StringFixed(2), currency, s.trackURL(order))
			providerID, err = s.sendWhatsApp(ctx, order.CustomerPhone, body)
		}
		s.record(&order.ID, model.ChannelWhatsApp, model.KindOrderConfirmation, order.CustomerPhone, providerID, err)
		if err != nil {
			results.Errors = append(results.Errors, "whatsapp: "+err.Error())
		} else {
			results.WhatsAppSent = true
			fields["confirmation_whatsapp_sent"] = true
			fields["confirmation_whatsapp_sent_at"] = s.now()
		}
	}

	s.markSent(order.ID, fields)
	logger.Info("Order confirmation processed", map[string]interface{}{
		"order_id":      order.ID,
		"email_sent":    results.EmailSent,
		"whatsapp_sent": results.WhatsAppSent,
	})
	return results, nil
}

func (s *notificationService) markSent(orderID uint, fields map[string]interface{}) bool {
	if len(fields) == 0 {
		return false
	}
	if err := s.orderRepo.UpdateFields(orderID, fields); err != nil {
		logger.Warn("Failed to update notification flags", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return false
	}
	return true
}

func (s *notificationService) SendOrderTracking(ctx context.Context, req model.OrderTrackingNotificationRequest) (*model.NotificationResults, error) {
	order, err := s.loadOrder(req.OrderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	trackingChanged := false
	fields := map[string]interface{}{}
	if req.TrackingNumber != "" {
		trackingChanged = req.Carrier != order.Carrier || req.TrackingNumber != order.TrackingNumber || req.TrackingURL != order.TrackingURL
		order.Carrier = req.Carrier
		order.TrackingNumber = req.TrackingNumber
		order.TrackingURL = req.TrackingURL
		fields["carrier"] = req.Carrier
		fields["tracking_number"] = req.TrackingNumber
		fields["tracking_url"] = req.TrackingURL
	}
	if order.Status == model.OrderStatusConfirmed || order.Status == model.OrderStatusProcessing {
		order.Status = model.OrderStatusShipped
		fields["status"] = model.OrderStatusShipped
		fields["shipped_at"] = s.now()
	}

	results := &model.NotificationResults{Errors: []string{}}
	cs := s.channels()
	currency := cs.currency

	if req.SendEmail {
		err := ErrEmailDisabled
		if cs.emailEnabled {
			err = s.sendEmail(func() (mailer.Message, error) {
				return mailer.BuildOrderShipped(order.CustomerEmail, s.orderEmail(order, currency))
			})
		}
		s.record(&order.ID, model.ChannelEmail, model.KindOrderTracking, order.CustomerEmail, "", err)
		if err != nil {
			results.Errors = append(results.Errors, "email: "+err.Error())
		} else {
			results.EmailSent = true
			fields["tracking_email_sent"] = true
			fields["tracking_email_sent_at"] = s.now()
		}
	}

	if req.SendWhatsApp {
		var providerID string
		err := ErrWhatsAppDisabled
		if cs.whatsAppEnabled {
			body := fmt.Sprintf("Hello %s, your order %s from %s is on its way.", order.CustomerName, order.OrderNumber, s.store.Name)
			if order.TrackingNumber != "" {
				body += fmt.Sprintf(" Carrier: %s, tracking number: %s.", order.Carrier, order.TrackingNumber)
			}
			if order.TrackingURL != "" {
				body += " " + order.TrackingURL
			}
			providerID, err = s.sendWhatsApp(ctx, order.CustomerPhone, body)
		}
		s.record(&order.ID, model.ChannelWhatsApp, model.KindOrderTracking, order.CustomerPhone, providerID, err)
		if err != nil {
			results.Errors = append(results.Errors, "whatsapp: "+err.Error())
		} else {
			results.WhatsAppSent = true
			fields["tracking_whatsapp_sent"] = true
			fields["tracking_whatsapp_sent_at"] = s.now()
		}
	}

	if s.markSent(order.ID, fields) {
		s.events.shipmentUpdated(ctx, order, previous, trackingChanged)
	}
	return results, nil
}

func (s *notificationService) SendContactReply(ctx context.Context, message *model.ContactMessage) error {
	err := s.sendEmail(func() (mailer.Message, error) {
		return mailer.BuildContactReply(message.Email, mailer.ContactReplyEmail{
			StoreName:    s.store.Name,
			CustomerName: message.Name,
			Subject:      message.Subject,
			Original:     message.Message,
			Reply:        message.Reply,
		})
	})
	s.record(nil, model.ChannelEmail, model.KindContactReply, message.Email, "", err)
	return err
}

func (s *notificationService) SendLowStockReport(ctx context.Context, threshold int, products []model.Product) error {
	if s.store.AdminEmail == "" {
		return ErrEmailNotConfigured
	}
	data := mailer.LowStockEmail{StoreName: s.store.Name, Threshold: threshold}
	for _, p := range products {
		data.Products = append(data.Products, mailer.LowStockLine{Name: p.Name, Slug: p.Slug, Stock: p.StockQuantity})
	}
	err := s.sendEmail(func() (mailer.Message, error) {
		return mailer.BuildLowStockReport(s.store.AdminEmail, data)
	})
	s.record(nil, model.ChannelEmail, model.KindLowStockReport, s.store.AdminEmail, "", err)
	return err
}

func (s *notificationService) ListLogs(filter repository.NotificationLogFilter) ([]model.NotificationLog, int64, error) {
	return s.logRepo.FindWithFilter(filter)
}
