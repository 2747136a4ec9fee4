package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/armadillo-os/shell/internal/api/http"
	"github.com/armadillo-os/shell/internal/api/middleware"
	"github.com/armadillo-os/shell/internal/domain/cluster"
	"github.com/armadillo-os/shell/internal/domain/session"
	"github.com/armadillo-os/shell/internal/domain/suggestion"
	"github.com/armadillo-os/shell/internal/infrastructure/config"
	"github.com/armadillo-os/shell/internal/infrastructure/logging"
	"github.com/armadillo-os/shell/internal/infrastructure/monitoring"
	"github.com/armadillo-os/shell/internal/infrastructure/tracing"
	"github.com/armadillo-os/shell/internal/ws"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router      *gin.Engine
	clusters    *cluster.Manager
	sessions    *session.Manager
	suggestions *suggestion.Registry
	logger      *logging.Logger
	config      *config.Config
	metrics     *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing Armadillo Shell",
		zap.String("port", cfg.Server.Port),
		zap.Float64("grid_quantum", cfg.Shell.GridQuantum),
		zap.String("session_dir", cfg.Session.Dir),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("shelld", logger.Logger)

	// Cluster controller: the single write path for shell state.
	clusterManager := cluster.NewManager(cluster.Config{
		GridQuantum: cfg.Shell.GridQuantum,
	}, logger.Logger).WithMetrics(metrics)

	sessionManager := session.NewManager(clusterManager, cfg.Session.Dir, logger.Logger).
		WithMetrics(metrics)

	suggestionRegistry := suggestion.NewRegistry().WithMetrics(metrics)
	if cfg.Suggestions.CatalogPath != "" {
		seeder := suggestion.NewSeeder(suggestionRegistry, cfg.Suggestions.CatalogPath, logger.Logger)
		if err := seeder.Seed(); err != nil {
			logger.Warn("Failed to seed suggestion catalog", zap.Error(err))
		}
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(clusterManager, sessionManager, suggestionRegistry, metrics)
	wsHandler := ws.NewHandler(clusterManager, logger.Logger).WithMetrics(metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Cluster lifecycle and gestures
	router.GET("/clusters", handlers.ListClusters)
	router.POST("/clusters", handlers.CreateCluster)
	router.GET("/clusters/:id", handlers.GetCluster)
	router.DELETE("/clusters/:id", handlers.DismissCluster)
	router.POST("/clusters/:id/stories", handlers.AddStory)
	router.POST("/clusters/:id/stories/:sid/drag-out", handlers.DragOutStory)
	router.POST("/clusters/:id/end-drag", handlers.EndDrag)
	router.POST("/clusters/:id/drop", handlers.Drop)
	router.POST("/clusters/:id/focus", handlers.Focus)
	router.POST("/clusters/:id/advance", handlers.Advance)
	router.POST("/clusters/:id/display-mode", handlers.SetDisplayMode)
	router.GET("/clusters/:id/layout", handlers.Layout)

	// Launcher suggestions
	router.GET("/suggestions", handlers.QuerySuggestions)

	// Session endpoints
	router.POST("/sessions", handlers.SaveSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.POST("/sessions/:id/restore", handlers.RestoreSession)
	router.DELETE("/sessions/:id", handlers.DeleteSession)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/stats", handlers.Stats)

	logger.Info("Server initialized successfully")

	return &Server{
		router:      router,
		clusters:    clusterManager,
		sessions:    sessionManager,
		suggestions: suggestionRegistry,
		logger:      logger,
		config:      cfg,
		metrics:     metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.logger.Sync()
	return nil
}
