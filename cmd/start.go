package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"class-sync/core/loader"
	"class-sync/core/logger"
	"class-sync/core/middleware/auth"
	"class-sync/core/middleware/rayid"
	"class-sync/feature/coursesync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "class-sync/docs/swagger"
)

// @title Class Sync API
// @version 1.0
// @description Triggers and history of Canvas to Notion sync runs.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

const shutdownGrace = 30 * time.Second

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Serve the sync triggers over HTTP",
	Long:  `Starts the HTTP server exposing the sync triggers, run history and metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.logger.Sync()
		zap.ReplaceGlobals(a.logger)

		app, err := newServer(a)
		if err != nil {
			return err
		}

		addr := a.cfg.Server.Addr()
		go func() {
			a.logger.Info("Listening", zap.String("addr", addr))
			if err := app.Listen(addr); err != nil {
				a.logger.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		sig := <-stop
		a.logger.Info("Shutting down", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			a.logger.Warn("HTTP shutdown incomplete", zap.Error(err))
		}
		if err := a.service.Shutdown(ctx); err != nil {
			a.logger.Warn("Background runs cancelled at shutdown", zap.Error(err))
		}
		return nil
	},
}

// newServer builds the fiber app with middleware and the sync feature mounted.
func newServer(a *application) (*fiber.App, error) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(rayid.New())
	app.Use(requestLogger(a.logger))
	app.Get("/swagger/*", swagger.HandlerDefault)

	if !a.cfg.Server.AuthEnabled() {
		a.logger.Warn("SERVER_API_KEY is empty; sync triggers are public")
	}
	app.Use(auth.New(auth.Config{
		ApiKey: a.cfg.Server.ApiKey,
		Next:   auth.SkipPrefixes("/swagger", "/metrics"),
	}))

	mgr := loader.NewManager()
	mgr.Register(coursesync.NewFeature(a.service, a.metrics, a.cfg.Server.BackgroundSync))
	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

func requestLogger(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		l := logger.WithRayID(base, c).With(
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(started)),
		)
		if err != nil {
			l.Error("Request failed", zap.Error(err))
			return err
		}
		l.Info("Request served")
		return nil
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
