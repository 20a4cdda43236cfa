package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/api/handlers"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/engine"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/history"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/registry"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/scheduler"
	"github.com/tigertrust/tigerscore-backend/internal/scoring/underwriting"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

// Server represents the scoring API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger
}

// Config holds the server configuration
type Config struct {
	Port string
}

// Dependencies holds the server dependencies. Chain and History may be nil
// when on-chain writes or score history are not configured.
type Dependencies struct {
	Logger       logging.Logger
	Engine       *engine.Engine
	Underwriter  *underwriting.Engine
	Chain        scheduler.ChainClient
	Orchestrator *scheduler.Orchestrator
	Registry     registry.WalletRegistry
	History      *history.Store
}

// NewServer creates a new API server
func NewServer(cfg Config, deps Dependencies) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(TraceMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(LoggerMiddleware(deps.Logger))
	router.Use(ErrorMiddleware(deps.Logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", TraceIDHeader},
	})

	srv := &Server{
		router: router,
		logger: deps.Logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Port),
			Handler: corsHandler.Handler(router),
		},
	}

	srv.setupRoutes(deps)

	return srv
}

// Start starts the server
func (s *Server) Start() error {
	s.logger.Info("Starting API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	return s.httpServer.Shutdown(ctx)
}

// setupRoutes sets up the routes for the server
func (s *Server) setupRoutes(deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.Logger)
	scoreHandler := handlers.NewScoreHandler(deps.Logger, deps.Engine, deps.Chain)
	profileHandler := handlers.NewProfileHandler(deps.Logger, deps.Chain, deps.History)
	loanHandler := handlers.NewLoanHandler(deps.Logger, deps.Engine, deps.Underwriter)
	walletsHandler := handlers.NewWalletsHandler(deps.Logger, deps.Registry, deps.Orchestrator)

	// Health and monitoring endpoints
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.POST("/score/calculate", scoreHandler.Calculate)
		api.POST("/score/calculate-and-update", scoreHandler.CalculateAndUpdate)
		api.POST("/score/update", scoreHandler.Update)
		api.POST("/batch/calculate", scoreHandler.BatchCalculate)

		api.GET("/profile/:wallet", profileHandler.GetProfile)
		api.GET("/profile/:wallet/history", profileHandler.GetHistory)

		api.POST("/loan/evaluate", loanHandler.Evaluate)

		api.GET("/wallets", walletsHandler.List)
		api.POST("/wallets", walletsHandler.Add)
		api.DELETE("/wallets/:wallet", walletsHandler.Remove)
		api.POST("/trigger/recalculate", walletsHandler.TriggerRecalculation)
	}
}
