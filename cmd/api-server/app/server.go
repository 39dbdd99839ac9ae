package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pquerna/ffjson/ffjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"measurement-api-server/cmd/api-server/app/options"
	"measurement-api-server/internal/api/measurement"
	"measurement-api-server/internal/api/weather"
	db "measurement-api-server/internal/database"
	"measurement-api-server/internal/scheduler"
	"measurement-api-server/internal/weatherapi"
)

type Server struct {
	app       *fiber.App
	db        *gorm.DB
	scheduler *scheduler.Scheduler
	logger    *zap.Logger
}

func NewServer(opts *options.Options, logger *zap.Logger) *Server {
	// connect postgres
	db, err := db.Connect()
	if err != nil {
		logger.Fatal("Unable to connect to database", zap.Error(err))
	}

	// upstream weather history client
	weatherClient, err := weatherapi.NewClient()
	if err != nil {
		logger.Fatal("Unable to configure weather client", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:     "Measurement API Server",
		Prefork:     false,
		JSONEncoder: ffjson.Marshal,
	})

	app.Use(cors.New())
	app.Use(compress.New())
	app.Use(etag.New())
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] [${ip}:${port}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	if *opts.Mode == "debug" {
		app.Use(pprof.New())
	}

	api := app.Group("/api/")

	// measurement query and aggregation
	measurementLogger := logger.Named("measurement")
	measurementRepository := measurement.NewMeasurementRepository(db)
	measurementService := measurement.NewMeasurementService(measurementRepository, measurementLogger)
	measurement.MeasurementRouter(api, measurementService, measurementLogger)

	// weather ingestion
	weatherLogger := logger.Named("weather")
	weatherRepository := weather.NewWeatherRepository(db)
	weatherService := weather.NewWeatherService(weatherClient, weatherRepository, weatherLogger)
	weather.WeatherRouter(api, weatherService, weatherLogger)

	// optional scheduled ingestion
	sched, err := scheduler.New(weatherService, logger.Named("scheduler"))
	if err != nil {
		logger.Fatal("Unable to configure scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		logger.Fatal("Unable to start scheduler", zap.Error(err))
	}

	app.Get("/dashboard", monitor.New())

	app.Get("/swagger/*", swagger.Handler) // default

	app.All("*", func(c *fiber.Ctx) error {
		errorMessage := fmt.Sprintf("Route '%s' does not exist in this API!", c.OriginalURL())

		return c.Status(fiber.StatusNotFound).JSON(&fiber.Map{
			"status":  "fail",
			"message": errorMessage,
		})
	})

	return &Server{
		app:       app,
		db:        db,
		scheduler: sched,
		logger:    logger,
	}
}

func (app *Server) Listen(port int, certFile, keyFile *string) error {
	app.logger.Info("Starting Measurement api-server ...")

	address := fmt.Sprintf(":%d", port)
	if certFile != nil && keyFile != nil {
		if *certFile != "" && *keyFile != "" {
			return app.app.ListenTLS(address, *certFile, *keyFile)
		}
	}
	return app.app.Listen(address)
}

func (app *Server) Shutdown(parentCtx context.Context) error {
	ctx, cancel := context.WithTimeout(parentCtx, time.Minute)
	defer cancel()

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.app.Shutdown()
	})
	g.Go(func() error {
		// close the pool only after the scheduler stopped writing
		app.scheduler.Stop()
		sqlDB, err := app.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	return g.Wait()
}

func Run(opts *options.Options, logger *zap.Logger) error {
	apiServerError := make(chan error)

	server := NewServer(opts, logger)

	go func() {
		if err := server.Listen(*opts.Port, opts.CertFile, opts.KeyFile); err != nil && err != http.ErrServerClosed {
			logger.Error("Listen for api-server failed", zap.Error(err))
			apiServerError <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutdown server ...")

		ctx := context.Background()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("close api-server failed", zap.Error(err))
			return err
		}
	case err := <-apiServerError:
		return err
	}

	return nil
}
