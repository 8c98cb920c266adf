package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"audio-loader/core/loader"
	"audio-loader/core/logger"
	"audio-loader/core/metrics"
	"audio-loader/core/middleware/auth"
	"audio-loader/core/middleware/rayid"
	"audio-loader/feature/catalog"
	"audio-loader/feature/integrity"
	"audio-loader/feature/resources"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "audio-loader/docs/swagger"
)

// @title Audio Loader API
// @version 1.0
// @description API for loading cooked audio resources.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the audio loader server",
	Long:  `Starts the HTTP server, loads the init bank and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Configuration, logger, storage and the optional catalog
		svc, err := bootstrap(ctx, false)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := svc.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Metrics
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m, err := metrics.New(registry)
		if err != nil {
			logg.Fatal("Failed to register metrics", zap.Error(err))
		}

		// 3. Loader (needs the catalog)
		var stack *loaderStack
		if svc.repo != nil {
			stack, err = svc.newLoader(ctx, m)
			if err != nil {
				logg.Fatal("Failed to create loader", zap.Error(err))
			}
		} else {
			logg.Warn("Resource loading disabled without a catalog database")
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 4. Features
		mgr := loader.NewManager()
		mgr.Register(catalog.NewFeature(svc.repo, logg))
		mgr.Register(integrity.NewFeature(svc.integrity()))
		if stack != nil {
			mgr.Register(resources.NewFeature(stack.service, registry))
		}

		// Middleware: ray id first so everything after is traceable
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
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
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{
			ApiKey: svc.cfg.Server.ApiKey,
			Public: []string{"/metrics"},
		}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", mgr.Enabled()))

		// 5. Init bank before anything else can be loaded
		if stack != nil {
			if err := stack.service.LoadInitBank(ctx); err != nil {
				logg.Error("Failed to load init bank", zap.Error(err))
			}
		}

		go func() {
			logg.Info("Starting server", zap.String("port", svc.cfg.Server.Port))
			if err := app.Listen(":" + svc.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()

		if stack != nil {
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := stack.Close(shutdownCtx); err != nil {
				logg.Warn("Unload on shutdown incomplete", zap.Error(err))
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
