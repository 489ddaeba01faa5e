// internal/infra/health/server.go
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StatusBody is the static response for liveness probes.
const StatusBody = "Verse of the Day bot is running!"

// Server answers hosting-platform liveness probes and serves metrics.
type Server struct {
	router *gin.Engine
	srv    *http.Server
	logger *logrus.Entry
}

// NewServer builds the router. metricsHandler may be nil.
func NewServer(port int, metricsHandler http.Handler, logger *logrus.Entry) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	alive := func(c *gin.Context) {
		c.String(http.StatusOK, StatusBody)
	}
	router.GET("/", alive)
	router.HEAD("/", alive)
	router.GET("/healthz", alive)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	return &Server{
		router: router,
		srv: &http.Server{
			Addr:              fmt.Sprintf("0.0.0.0:%d", port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Router exposes the handler for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves in a background goroutine. A listener failure is logged; it
// does not stop the bot.
func (s *Server) Start() {
	go func() {
		s.logger.WithField("addr", s.srv.Addr).Info("Starting health server")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Health server stopped unexpectedly")
		}
	}()
}

// Shutdown stops the listener, waiting up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown health server: %w", err)
	}
	s.logger.Info("Health server stopped")
	return nil
}
