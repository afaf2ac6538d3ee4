package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"retail_backoffice/pkg/metrics"
	"retail_backoffice/pkg/middleware"
)

type ServerConfig struct {
	Name string
	Port int
}

type HTTPServer struct {
	server *http.Server
	router *gin.Engine
	name   string
	log    *zap.Logger
}

func NewGinEngine(log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.SecurityHeaders())
	return engine
}

func NewServer(engine *gin.Engine, cfg ServerConfig, log *zap.Logger) *HTTPServer {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s := &HTTPServer{
		server: server,
		router: engine,
		name:   cfg.Name,
		log:    log,
	}
	s.registerRoutes()
	return s
}

func (s *HTTPServer) Start() error {
	s.log.Info("starting HTTP server", zap.String("service", s.name), zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	s.log.Info("stopping HTTP server", zap.String("service", s.name))
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": s.name,
		})
	})
	metrics.RegisterRoutes(s.router)
}

// Run ties the server to the fx lifecycle. A listen failure shuts the
// application down instead of killing the process.
func Run(lc fx.Lifecycle, shutdowner fx.Shutdowner, s *HTTPServer) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := s.Start(); err != nil {
					s.log.Error("HTTP server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: s.Stop,
	})
}
