package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/noirparfum/noir-backend/config"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/internal/app/service"
	"github.com/noirparfum/noir-backend/internal/db"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/noirparfum/noir-backend/pkg/mailer"
	"github.com/noirparfum/noir-backend/pkg/whatsapp"
)

// orderLoader is the slice of the order repository the handler needs
type orderLoader interface {
	FindByID(id uint) (*model.Order, error)
}

// orderNotifier sends the confirmation for a freshly placed order
type orderNotifier interface {
	OrderPlaced(ctx context.Context, order *model.Order)
}

type eventHandler struct {
	orders   orderLoader
	notifier orderNotifier
}

// Handle sends confirmations for order.placed and logs everything else
func (h *eventHandler) Handle(ctx context.Context, envelope events.Envelope, raw json.RawMessage) error {
	var payload events.OrderEvent
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"event_id":     envelope.ID,
		"event_type":   envelope.Type,
		"order_id":     payload.OrderID,
		"order_number": payload.OrderNumber,
	}

	switch envelope.Type {
	case events.TypeOrderPlaced:
		order, err := h.orders.FindByID(payload.OrderID)
		if err != nil {
			return err
		}
		h.notifier.OrderPlaced(ctx, order)
		logger.Info("Order confirmation dispatched", fields)
	case events.TypeOrderStatusChanged, events.TypeOrderShipped:
		fields["status"] = payload.Status
		fields["previous_status"] = payload.PreviousStatus
		logger.Info("Order status event received", fields)
	default:
		logger.Debug("Ignoring event", fields)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logFormat := "json"
	if cfg.Server.IsDevelopment() {
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      logFormat,
		EnableColor: true,
	})

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Fatal("KAFKA_BROKERS is required for the notifier", errors.New("no brokers configured"))
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	var emailSender mailer.Sender
	if cfg.SMTP.Enabled() {
		emailSender = mailer.NewSMTPMailer(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		})
	}

	var whatsAppSender whatsapp.Sender
	if cfg.WhatsApp.Enabled() {
		client, err := whatsapp.NewClient(whatsapp.Config{
			BaseURL:       cfg.WhatsApp.BaseURL,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			AccessToken:   cfg.WhatsApp.AccessToken,
		})
		if err != nil {
			logger.Warn("WhatsApp client misconfigured, channel disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			whatsAppSender = client
		}
	}

	database := db.GetDB()
	orderRepo := repository.NewOrderRepository(database)
	notifications := service.NewNotificationService(
		orderRepo,
		repository.NewSettingsRepository(database),
		repository.NewNotificationLogRepository(database),
		emailSender,
		whatsAppSender,
		nil,
		service.StoreInfo{
			Name:          cfg.Store.Name,
			StorefrontURL: cfg.Store.StorefrontURL,
			AdminEmail:    cfg.Store.AdminEmail,
		},
	)

	handler := &eventHandler{orders: orderRepo, notifier: notifications}
	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.ConsumerGroup)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Notifier consuming order events", map[string]interface{}{
		"topic": cfg.Kafka.Topic,
		"group": cfg.Kafka.ConsumerGroup,
	})
	if err := consumer.Consume(ctx, handler.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", err)
	}
	logger.Info("Notifier stopped")
}
