package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/location-search/internal/config"
	"github.com/location-search/internal/delivery/http/handler"
	"github.com/location-search/internal/delivery/http/middleware"
	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/metrics"
	"github.com/location-search/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app          *fiber.App
	config       *config.Config
	logger       *zap.Logger
	healthChecks map[string]func(ctx context.Context) error

	// Handlers
	locationHandler *handler.LocationHandler
	searchHandler   *handler.SearchHandler
	viewportHandler *handler.ViewportHandler
	reindexHandler  *handler.ReindexHandler
	categoryHandler *handler.CategoryHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	locationHandler *handler.LocationHandler,
	searchHandler *handler.SearchHandler,
	viewportHandler *handler.ViewportHandler,
	reindexHandler *handler.ReindexHandler,
	categoryHandler *handler.CategoryHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Location Search",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    16 * 1024 * 1024,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		healthChecks:    make(map[string]func(ctx context.Context) error),
		locationHandler: locationHandler,
		searchHandler:   searchHandler,
		viewportHandler: viewportHandler,
		reindexHandler:  reindexHandler,
		categoryHandler: categoryHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// AddHealthCheck - регистрация проверки зависимости (БД, redis)
func (s *Server) AddHealthCheck(name string, check func(ctx context.Context) error) {
	s.healthChecks[name] = check
}

// App - fiber-приложение (для тестов через app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.config.Metrics.Enabled {
		s.app.Get(s.config.Metrics.Path, adaptor.HTTPHandler(metrics.Handler()))
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	// Locations
	api.Post("/locations", s.locationHandler.Ingest)
	api.Post("/locations/batch", s.locationHandler.IngestBatch)
	api.Get("/locations/:id", s.locationHandler.GetByID)

	// Search
	api.Post("/search/polygon", s.searchHandler.SearchPolygon)
	api.Get("/viewport/locations", s.viewportHandler.GetLocationsInViewport)

	// Reindex
	api.Post("/reindex", s.reindexHandler.Start)
	api.Get("/reindex/:job_id", s.reindexHandler.Progress)

	// Categories
	api.Get("/categories", s.categoryHandler.List)
	api.Put("/categories", s.categoryHandler.Upsert)
}

// health godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	checks := fiber.Map{}
	for name, check := range s.healthChecks {
		if err := check(ctx); err != nil {
			status = "unhealthy"
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	code := fiber.StatusOK
	if status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
		"time":   time.Now(),
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные в хендлерах (404 маршрута, паники)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			if e.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(e.Code).JSON(utils.ErrorResponse{
				Error: errors.New("HTTP_ERROR", e.Message, e.Code),
			})
		}

		logger.Error("HTTP error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}
