package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wpbreez_sync/config"
	"wpbreez_sync/internal/auth"
	"wpbreez_sync/internal/journal"
	"wpbreez_sync/metrics"
	"wpbreez_sync/pkg/logger"
	"wpbreez_sync/pkg/middleware"
)

const (
	defaultAddr     = ":8081"
	defaultRunLimit = 20
	maxRunLimit     = 200
	shutdownTimeout = 10 * time.Second
)

type SyncServer struct {
	cfg     config.ServerConfig
	runner  *Runner
	journal journal.Repository
	engine  *gin.Engine
	log     logger.Logger
}

func NewSyncServer(cfg config.ServerConfig, runner *Runner, repo journal.Repository, writer io.Writer) (*SyncServer, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("server.jwt_secret is required to serve the sync API")
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if repo == nil {
		repo = journal.Nop{}
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &SyncServer{
		cfg:     cfg,
		runner:  runner,
		journal: repo,
		log:     logger.NewLogger(writer, "[SyncServer]"),
	}
	s.engine = s.routes()
	return s, nil
}

func (s *SyncServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.PrometheusMiddleware(), middleware.RequestLogger(s.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api", auth.AuthMiddleware(s.cfg.JWTSecret))
	{
		api.POST("/sync/:operation", auth.RoleMiddleware(auth.RoleAdmin), s.handleSync)
		api.GET("/runs", auth.RoleMiddleware(auth.RoleAdmin, auth.RoleOperator), s.handleRuns)
	}
	return r
}

func (s *SyncServer) Handler() http.Handler {
	return s.engine
}

// Run слушает cfg.Addr до отмены ctx, затем корректно завершает сервер.
func (s *SyncServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Log("listening on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("sync server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Log("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("sync server shutdown: %w", err)
	}
	return <-errCh
}

func (s *SyncServer) handleSync(c *gin.Context) {
	op := c.Param("operation")
	if !IsOperation(op) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown operation %q", op)})
		return
	}

	page := 0
	if op == OpProducts {
		raw := c.DefaultQuery("page", "1")
		p, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid page %q", raw)})
			return
		}
		page = p
	}

	report, err := s.runner.Run(c.Request.Context(), op, page)
	switch {
	case errors.Is(err, ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		// фид или каталог недоступны: отдаём отчёт вместе с ошибкой
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "report": report})
	default:
		c.JSON(http.StatusOK, report)
	}
}

func (s *SyncServer) handleRuns(c *gin.Context) {
	limit := defaultRunLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q", raw)})
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		s.log.Error("failed to load runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
