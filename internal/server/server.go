package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sugarsense/backend/config"
	"github.com/sugarsense/backend/internal/api"
	"github.com/sugarsense/backend/internal/artifact"
	"github.com/sugarsense/backend/internal/metrics"
	"github.com/sugarsense/backend/internal/middleware"
	"github.com/sugarsense/backend/internal/router"
	"github.com/sugarsense/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Options carry the optional collaborators of a Server. Zero values are replaced with
// working defaults: no Redis disables rate limiting and uses an in-process token blocklist.
type Options struct {
	Redis   *redis.Client
	Handle  *artifact.Handle
	LLM     service.LLMClient
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
}

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	http    *http.Server
	db      *gorm.DB
	handle  *artifact.Handle
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// New wires the services and routes for cfg.
func New(cfg *config.Config, db *gorm.DB, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Handle == nil {
		opts.Handle = artifact.NewHandle(nil)
	}
	if opts.LLM == nil {
		opts.LLM = service.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiURL)
	}
	log := opts.Logger.WithField("component", "server")

	var blocklist service.TokenBlocklist
	if opts.Redis != nil {
		blocklist = service.NewRedisTokenBlocklist(opts.Redis)
	} else {
		log.Warn("Redis not configured, rate limiting disabled and logout revocation kept in memory")
		blocklist = service.NewMemoryTokenBlocklist()
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, blocklist)
	predictionRepo := service.NewPredictionRepository(db)
	predictor := service.NewRiskPredictor(opts.Handle, opts.Metrics)
	predictionService := service.NewPredictionService(predictor, predictionRepo)
	wellnessService := service.NewWellnessService(db, predictionRepo)
	chatService := service.NewChatService(opts.LLM, wellnessService, predictionRepo, opts.Metrics)

	engine := router.SetupRouter(cfg.CORSOrigins, opts.Logger, api.Dependencies{
		Auth:           authService,
		Predictions:    predictionService,
		Wellness:       wellnessService,
		Chat:           chatService,
		Exporter:       service.NewHistoryExporter(),
		Metrics:        opts.Metrics,
		CheckupLimiter: middleware.NewCheckupRateLimiter(opts.Redis, cfg.CheckupRateLimit),
		ChatLimiter:    middleware.NewChatRateLimiter(opts.Redis, cfg.ChatRateLimit),
	})

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
		},
		db:      db,
		handle:  opts.Handle,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Handle returns the artifact handle the predictor reads from.
func (s *Server) Handle() *artifact.Handle {
	return s.handle
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.http.Addr).Info("Starting HTTP server")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := s.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
