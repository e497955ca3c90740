// Package api serves the explorer over HTTP with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blockandplay/explorer/internal/config"
	"github.com/blockandplay/explorer/internal/explorer"
	"github.com/blockandplay/explorer/pkg/cache"
	"github.com/blockandplay/explorer/pkg/logging"
	"github.com/blockandplay/explorer/pkg/metrics"
)

// Server wires the explorer service into a gin engine.
type Server struct {
	cfg    *config.Config
	svc    *explorer.Service
	cache  *cache.Manager
	engine *gin.Engine
	logger zerolog.Logger
}

// New creates the server. cacheManager may be nil to disable response caching.
func New(cfg *config.Config, svc *explorer.Service, cacheManager *cache.Manager) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if svc == nil {
		return nil, errors.New("explorer service is required")
	}

	s := &Server{
		cfg:    cfg,
		svc:    svc,
		cache:  cacheManager,
		engine: gin.New(),
		logger: logging.NewLogger("api"),
	}
	s.routes()
	return s, nil
}

// Handler exposes the engine, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.Use(
		recovery(s.logger),
		requestID(),
		accessLog(s.logger),
		cors(),
		httpMetrics(),
	)

	s.engine.GET("/health", s.health)
	s.engine.GET("/ready", s.ready)
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.engine.Group("/api")
	if s.cache != nil && s.cfg.Cache.Enabled {
		api.Use(responseCache(s.cache, s.cfg.Network))
	}

	api.GET("/blocks", s.listBlocks)
	api.GET("/blocks/:id", s.getBlock)
	api.GET("/transactions", s.listTransactions)
	api.GET("/transactions/:hash", s.getTransaction)
	api.GET("/pools", s.listPools)
	api.GET("/penalties", s.listPenalties)
	api.GET("/nfx", s.listNFX)
	api.GET("/nfx/:id", s.getNFX)
	api.GET("/tokens", s.getToken)
	api.GET("/contracts", s.getContract)
	api.GET("/nfts", s.listNFTs)
	api.GET("/history", s.getHistory)
	api.GET("/metrics", s.getMetrics)
	api.GET("/network", s.getNetwork)

	s.engine.NoRoute(func(c *gin.Context) {
		respondError(c, s.logger, fmt.Errorf("%w: no route for %s", explorer.ErrNotFound, c.Request.URL.Path))
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.engine,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", srv.Addr).
			Str("network", s.cfg.Network).
			Bool("cache", s.cache != nil && s.cfg.Cache.Enabled).
			Msg("Starting explorer API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("Shutting down explorer API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ready(c *gin.Context) {
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.cache.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Readiness check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
