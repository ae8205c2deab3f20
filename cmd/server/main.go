package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/noirparfum/noir-backend/config"
	"github.com/noirparfum/noir-backend/internal/app"
	"github.com/noirparfum/noir-backend/internal/db"
	"github.com/noirparfum/noir-backend/internal/events"
	"github.com/noirparfum/noir-backend/internal/scheduler"
	"github.com/noirparfum/noir-backend/internal/storage"
	"github.com/noirparfum/noir-backend/internal/websocket"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/noirparfum/noir-backend/pkg/mailer"
	redisstore "github.com/noirparfum/noir-backend/pkg/redis"
	"github.com/noirparfum/noir-backend/pkg/whatsapp"
	"github.com/shopspring/decimal"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.IsDevelopment() {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	// money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	logger.Info("Starting storefront API", map[string]interface{}{
		"store":       cfg.Store.Name,
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis is optional: without it there is no rate limiting or token revocation
	var redisStore *redisstore.Store
	if cfg.Redis.Enabled {
		if err := redisstore.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without rate limits and logout revocation", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			redisStore = redisstore.NewStore(redisstore.GetClient())
			defer redisstore.Close()
		}
	}

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	var publisher events.Publisher = events.NopPublisher{}
	inlineOrderEmails := true
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		// cmd/notifier sends the confirmation from the topic
		inlineOrderEmails = false
		logger.Info("Publishing order events to Kafka", map[string]interface{}{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.Topic,
		})
	}

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
	} else {
		logger.Warn("SMTP is not configured, email notifications are disabled")
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

	application := app.New(app.Dependencies{
		Config:            cfg,
		DB:                db.GetDB(),
		Hub:               hub,
		ObjectStore:       storage.NewS3Storage(context.Background(), cfg.S3),
		Publisher:         publisher,
		Mailer:            emailSender,
		WhatsApp:          whatsAppSender,
		Redis:             redisStore,
		InlineOrderEmails: inlineOrderEmails,
	})

	if cfg.Store.AdminEmail != "" && cfg.Scheduler.LowStockCron != "" {
		lowStock := scheduler.NewLowStockScheduler(cfg.Scheduler.LowStockCron, application.Services.StockReport)
		if err := lowStock.Start(); err != nil {
			logger.Warn("Low stock report disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer lowStock.Stop()
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           application.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
