package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auctiondelivery/cmd"
	httpin "auctiondelivery/internal/adapters/in/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if configs.JWTSecret == "" {
		log.Fatalf("AUCTION_JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error wiring application: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close outbound connections", "error", err)
		}
	}()

	e, err := newWebServer(app, configs, logger)
	if err != nil {
		log.Fatalf("Error configuring web server: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(ctx); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		jobManager.StopAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		e.Logger.Fatal(err)
	}
	logger.Info("shut down cleanly")
}

func newWebServer(app *cmd.CompositionRoot, configs cmd.Config, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := httpin.LoadSpec()
	if err != nil {
		return nil, err
	}
	validateRequests, err := httpin.ValidateRequests(doc)
	if err != nil {
		return nil, err
	}
	if err := httpin.RegisterSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpin.NewRequestValidator()
	e.HTTPErrorHandler = httpin.ErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("",
		validateRequests,
		httpin.Authenticate([]byte(configs.JWTSecret)),
		httpin.Idempotency(idempotencyStore(app), logger),
	)
	httpin.RegisterHandlers(api, httpin.NewServer(app.Handlers()))
	return e, nil
}

// idempotencyStore keeps a missing Redis a nil interface rather than a nil pointer.
func idempotencyStore(app *cmd.CompositionRoot) httpin.IdempotencyStore {
	if app.Idempotency == nil {
		return nil
	}
	return app.Idempotency
}
