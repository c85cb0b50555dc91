package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "autosync/docs/swagger"

	"autosync/core/loader"
	"autosync/core/logger"
	"autosync/core/middleware/auth"
	"autosync/core/middleware/rayid"
	syncfeature "autosync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title AutoSync API
// @version 1.0
// @description Control surface for the AutoGestor to WooCommerce vehicle sync.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control surface",
	Long: `Starts the HTTP server exposing health, metrics, run history and a
trigger for sync runs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	logg := a.log
	zap.ReplaceGlobals(logg)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Ray id first so every later log line carries it.
	app.Use(rayid.New())
	app.Use(requestLogger(logg))

	// Swagger documentation is public.
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{
		ApiKey: a.cfg.Server.ApiKey,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	if !a.cfg.Server.IsProtected() {
		logg.Warn("No API key configured, control surface is open")
	}

	mgr := loader.NewManager()
	mgr.Register(syncfeature.NewFeature(a.service))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return err
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
		errCh <- app.Listen(a.cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	return app.ShutdownWithTimeout(a.cfg.Server.ShutdownTimeout())
}

// requestLogger logs each request with its ray id.
func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	}
}
