package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/otp-dashboard/internal/config"
	"github.com/otp-dashboard/internal/infrastructure/devmail"
	"github.com/otp-dashboard/internal/infrastructure/dynamo"
	jwtinfra "github.com/otp-dashboard/internal/infrastructure/jwt"
	mailersendinfra "github.com/otp-dashboard/internal/infrastructure/mailersend"
	mongoinfra "github.com/otp-dashboard/internal/infrastructure/mongo"
	"github.com/otp-dashboard/internal/infrastructure/productapi"
	"github.com/otp-dashboard/internal/infrastructure/smtp"
	"github.com/otp-dashboard/internal/pkg/logger"
	transporthttp "github.com/otp-dashboard/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	users, closeStore, err := openUserStore(ctx, cfg)
	if err != nil {
		log.Fatalf("user store: %v", err)
	}
	defer closeStore()

	mailer, err := newMailer(cfg)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:    users,
		Mailer:      mailer,
		JWTProvider: jwtProvider,
		Products:    productapi.NewClient(cfg),
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "store", cfg.StoreDriver, "mail", cfg.MailDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	slog.Info("server stopped")
}

// openUserStore connects the configured document store and prepares its schema.
func openUserStore(ctx context.Context, cfg *config.Config) (transporthttp.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return dynamo.NewUserRepo(client, cfg.DynamoTables.Users), func() {}, nil

	case config.StoreMongo:
		client, err := mongoinfra.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoUsersCollection)
		if err := mongoinfra.EnsureIndexes(ctx, coll); err != nil {
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				slog.Warn("mongo disconnect", "err", err)
			}
		}
		return mongoinfra.NewUserRepo(coll), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func newMailer(cfg *config.Config) (transporthttp.Mailer, error) {
	switch cfg.MailDriver {
	case config.MailSMTP:
		return smtp.NewMailer(cfg), nil
	case config.MailMailerSend:
		m, err := mailersendinfra.NewMailer(cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.MailLog:
		return devmail.NewMailer(slog.Default()), nil
	}
	return nil, fmt.Errorf("unknown MAIL_DRIVER %q", cfg.MailDriver)
}
