package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/config"
	"gizmohub_back_end/internal/database"
	"gizmohub_back_end/internal/events"
	"gizmohub_back_end/internal/payment"
	"gizmohub_back_end/internal/routes"
	"gizmohub_back_end/internal/utils"
)

func main() {
	config.Load()
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	if err := database.ConnectDatabases(cfg); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(database.Postgres); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	if err := database.SeedAdmin(database.Postgres, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminFullName); err != nil {
		log.Printf("⚠️ Admin seed failed: %v", err)
	}

	deps := routes.Deps{
		DB:      database.Postgres,
		Config:  cfg,
		Tokens:  utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Redis:   database.Redis,
		Elastic: database.Elastic,
		MinIO:   database.MinIO,
		Mailer: utils.NewMailer(utils.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}),
		Ping: database.Ping,
	}

	if cfg.StripeSecretKey != "" {
		deps.Gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.Currency)
	} else {
		log.Println("⚠️ STRIPE_SECRET_KEY not set, card payments are recorded locally")
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		log.Printf("⚠️ Kafka unavailable, order events disabled: %v", err)
	}
	if producer != nil {
		deps.Events = producer
		defer producer.Close()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.Setup(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("🚀 GizmoHub API listening on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Graceful shutdown failed: %v", err)
	}
}
