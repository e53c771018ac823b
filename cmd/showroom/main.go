package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	showroom "github.com/goliatone/go-showroom"
	"github.com/goliatone/go-showroom/catalog"
	"github.com/goliatone/go-showroom/middleware"
	"github.com/goliatone/go-showroom/store"
	log "github.com/sirupsen/logrus"
)

// logrusLogger adapts logrus to the showroom.Logger interface.
type logrusLogger struct {
	entry *log.Entry
}

func newLogger(component string) logrusLogger {
	return logrusLogger{entry: log.WithFields(log.Fields{"component": component})}
}

func (l logrusLogger) Debug(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l logrusLogger) Info(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l logrusLogger) Warn(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l logrusLogger) Error(format string, args ...any) { l.entry.Errorf(format, args...) }

func main() {
	cfg := LoadConfig()

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.InsecureSigningKey() {
		log.Warn("SHOWROOM_SIGNING_SECRET is not set, using the insecure built-in key")
	}

	documents := store.New(cfg.GetDataDir())
	accounts := store.NewAccounts(documents)

	tokens := showroom.NewTokenServiceFromConfig(cfg, newLogger("tokens"))

	auth := showroom.NewAuthenticator(accounts, tokens).
		WithLogger(newLogger("auth")).
		WithBcryptCost(cfg.GetBcryptCost())

	bootstrap := showroom.NewEnsureSuperAdminHandler(accounts).
		WithLogger(newLogger("bootstrap")).
		WithBcryptCost(cfg.GetBcryptCost())

	err := bootstrap.Execute(context.Background(), showroom.EnsureSuperAdminMessage{
		FullName: cfg.SuperAdminName,
		Email:    cfg.SuperAdminEmail,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to ensure superadmin account")
	}

	authenticated := middleware.Authenticated(middleware.Config{
		Validator:  tokens,
		AuthScheme: cfg.GetAuthScheme(),
	})
	requireAdmin := middleware.RequireAdmin(auth)
	requireSuperAdmin := middleware.RequireSuperAdmin(auth)

	controller := showroom.NewAuthController(auth)
	controller.Logger = newLogger("http")
	controller.Debug = cfg.Debug

	products := catalog.NewController(documents)
	products.Logger = newLogger("catalog")

	admin := catalog.NewAdminController(documents, accounts).
		WithBcryptCost(cfg.GetBcryptCost())
	admin.Logger = newLogger("admin")

	app := fiber.New(fiber.Config{
		AppName:               "showroom",
		DisableStartupMessage: true,
	})

	api := app.Group("/api")
	showroom.RegisterAuthRoutes(api.Group("/auth"), controller, authenticated)
	catalog.RegisterRoutes(api, products, admin, authenticated, requireAdmin, requireSuperAdmin)

	go func() {
		log.WithFields(log.Fields{"addr": cfg.Addr, "data": cfg.GetDataDir()}).Info("showroom listening")
		if err := app.Listen(cfg.Addr); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}
