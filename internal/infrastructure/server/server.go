package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/revijouer/core/docs"
	"github.com/revijouer/core/internal/adapters/anki"
	httpHandlers "github.com/revijouer/core/internal/adapters/http"
	"github.com/revijouer/core/internal/adapters/repository"
	"github.com/revijouer/core/internal/adapters/session"
	"github.com/revijouer/core/internal/application/services"
	"github.com/revijouer/core/internal/infrastructure/config"
	"github.com/revijouer/core/internal/infrastructure/logger"
	"github.com/revijouer/core/internal/infrastructure/metrics"
	"github.com/revijouer/core/internal/ports"
	"github.com/revijouer/core/web"
)

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	sessions ports.SessionStore
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type handlers struct {
	menu     *httpHandlers.MenuHandler
	settings *httpHandlers.SettingsHandler
	game     *httpHandlers.GameHandler
	tree     *httpHandlers.TreeHandler
	anki     *httpHandlers.AnkiHandler
}

// New creates a new server instance
func New(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	renderer, err := httpHandlers.NewRenderer(web.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	e.Renderer = renderer

	sessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &Server{
		echo:     e,
		config:   cfg,
		logger:   appLogger,
		sessions: sessions,
	}

	if cfg.Metrics.Enabled {
		server.registry = prometheus.NewRegistry()
		server.metrics = metrics.New(server.registry)
	}

	// Initialize repositories
	fillInBlankRoot := cfg.Data.FillInBlankPath()
	imageMatchingRoot := cfg.Data.ImageMatchingPath()
	settingsRepo := repository.NewSettingsRepository(cfg.Data.SettingsPath(), appLogger.WithComponent("settings"))
	scoreRepo := repository.NewScoreRepository(cfg.Data.ScoresPath(), appLogger.WithComponent("scores"))
	questionRepo := repository.NewQuestionRepository(fillInBlankRoot, imageMatchingRoot, appLogger.WithComponent("questions"))
	questionFiles := repository.NewTreeRepository(fillInBlankRoot, imageMatchingRoot, appLogger.WithComponent("tree"))

	// Initialize services
	settingsService := services.NewSettingsService(settingsRepo, appLogger)
	scoreService := services.NewScoreService(scoreRepo, sessions, appLogger)
	questionService := services.NewQuestionService(questionRepo, questionFiles, appLogger)
	treeService := services.NewTreeService(questionFiles, settingsService, appLogger)
	gameService := services.NewGameService(questionRepo, questionFiles, settingsService, scoreService, server.metrics, appLogger)
	ankiClient := anki.NewClient(cfg.Anki, appLogger.WithComponent("anki"), server.metrics)
	ankiService := services.NewAnkiService(ankiClient, cfg.Anki, sessions, appLogger)

	// Initialize handlers
	h := handlers{
		menu:     httpHandlers.NewMenuHandler(scoreService, settingsService, appLogger),
		settings: httpHandlers.NewSettingsHandler(settingsService, appLogger),
		game:     httpHandlers.NewGameHandler(gameService, questionService, settingsService, appLogger),
		tree:     httpHandlers.NewTreeHandler(treeService, settingsService, appLogger),
		anki:     httpHandlers.NewAnkiHandler(ankiService, settingsService, appLogger),
	}

	// Setup metrics first so the collector middleware sees every request
	if server.metrics != nil {
		server.setupMetrics()
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(h)

	return server, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, error) {
	if cfg.Session.Backend != "redis" {
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}

	client, err := session.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	return session.NewRedisStore(client, cfg.Session.TTL), nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			if values.Error != nil {
				s.logger.Errorw("HTTP request failed",
					"method", values.Method,
					"uri", values.URI,
					"status", values.Status,
					"remote_ip", values.RemoteIP,
					"error", values.Error.Error(),
				)
				return nil
			}

			s.logger.LogHTTPRequest(
				values.Method,
				values.URI,
				values.UserAgent,
				values.RemoteIP,
				values.Status,
				float64(values.Latency.Nanoseconds())/1000000,
			)
			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Server.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
	}))

	// Rate limiting middleware
	if s.config.Server.RateLimit > 0 {
		burst := int(s.config.Server.RateLimit)
		if burst < 1 {
			burst = 1
		}
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/static/")
			},
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Server.RateLimit), Burst: burst, ExpiresIn: 3 * time.Minute},
			),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
			},
		}))
	}

	// Security headers. Pages carry the user's font settings in an inline
	// style block; scripts are only ever loaded from /static.
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: http: https:",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Browser session cookie
	s.echo.Use(s.sessionMiddleware())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/docs")
		},
		Timeout: s.config.Server.WriteTimeout,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h handlers) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	// Assets
	s.echo.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	s.echo.Static("/media", s.config.Data.ImagesPath())

	// Menu and settings
	s.echo.GET("/", h.menu.Index)
	s.echo.GET("/quit", h.menu.Quit)
	s.echo.GET("/settings", h.settings.Page)
	s.echo.POST("/settings", h.settings.Save)
	s.echo.POST("/settings/save", h.settings.Save)

	// Games and question authoring
	game := s.echo.Group("/game")
	game.GET("/texte_a_trous", h.game.TexteATrous)
	game.GET("/relier_images", h.game.RelierImages)
	game.POST("/check_answer", h.game.CheckAnswer)
	game.POST("/reset_scores", h.game.ResetScores)
	game.GET("/create_question", h.game.CreateQuestion)
	game.POST("/save_question", h.game.SaveQuestion)

	// Question tree editor
	game.GET("/questions_tree", h.tree.QuestionsTree)
	game.POST("/create_folder", h.tree.CreateFolder)
	game.POST("/rename_folder", h.tree.RenameFolder)
	game.POST("/delete_folder", h.tree.DeleteFolder)
	game.POST("/move_items", h.tree.MoveItems)
	game.POST("/toggle_question_completion", h.tree.ToggleCompletion)
	game.POST("/delete_question", h.tree.DeleteQuestion)
	game.POST("/focus_folder", h.tree.FocusFolder)
	game.POST("/clear_focus", h.tree.ClearFocus)

	// Anki bridge
	ankiGroup := s.echo.Group("/anki")
	ankiGroup.GET("", h.anki.Page)
	ankiGroup.GET("/authenticate", h.anki.Authenticate)
	ankiGroup.GET("/test-connection", h.anki.TestConnection)
	ankiGroup.GET("/decks", h.anki.Decks)
	ankiGroup.GET("/train/:deck", h.anki.Train)
	s.echo.POST("/cards/answer", h.anki.Answer)

	// JSON API
	api := s.echo.Group("/api")
	api.GET("/questions/tree", h.tree.Tree)
	api.GET("/anki/cards/:deck", h.anki.Cards)
	api.POST("/anki/answer", h.anki.Answer)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			s.metrics.RequestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			s.metrics.RequestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	dirs := map[string]string{
		"fill_in_blank":  s.config.Data.FillInBlankPath(),
		"image_matching": s.config.Data.ImageMatchingPath(),
	}
	for name, dir := range dirs {
		if err := checkDir(dir); err != nil {
			status = "error"
			checks[name] = map[string]interface{}{
				"status": "error",
				"path":   dir,
				"error":  err.Error(),
			}
			continue
		}
		checks[name] = map[string]interface{}{
			"status": "ok",
			"path":   dir,
		}
	}

	if pinger, ok := s.sessions.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(c.Request().Context()); err != nil {
			status = "error"
			checks["sessions"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["sessions"] = map[string]interface{}{"status": "ok", "backend": s.config.Session.Backend}
		}
	} else {
		checks["sessions"] = map[string]interface{}{"status": "ok", "backend": s.config.Session.Backend}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := checkDir(s.config.Data.Root); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "data_root_missing",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)

	httpServer := &http.Server{
		Addr:         address,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}
	if err := s.echo.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	err := s.echo.Shutdown(ctx)

	if closer, ok := s.sessions.(interface{ Close() error }); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		if errors.As(err, &he) {
			code = he.Code
			msg = map[string]interface{}{"error": he.Message}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if errors.As(err, &ve) {
			code = http.StatusBadRequest
			msg = map[string]string{"error": "validation failed", "details": ve.Error()}
		} else {
			msg = map[string]string{"error": http.StatusText(code)}
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
