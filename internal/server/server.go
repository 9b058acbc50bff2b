package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"net/http"
	"time"
)

//go:generate mockgen -destination=server_mock.go -package=server -source=server.go

const (
	serverName       = "tabvc http server"
	startGracePeriod = 500 * time.Millisecond
	shutdownTimeout  = 10 * time.Second
	maxUploadMemory  = 32 << 20
)

type httpServer interface {
	Addr() string
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// stdServer adapts *http.Server to httpServer.
type stdServer struct {
	*http.Server
}

func (s stdServer) Addr() string {
	return s.Server.Addr
}

// Server serves the workbook API over HTTP.
type Server struct {
	address string
	port    int
	server  httpServer
}

type Config struct {
	Address string
	Port    int
	Service service
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Address == "" {
		errGrp = append(errGrp, errors.New("address is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errGrp = append(errGrp, errors.New("port must be between 1 and 65535"))
	}
	if c.Service == nil {
		errGrp = append(errGrp, errors.New("service is required"))
	}
	return errors.Join(errGrp...)
}

func New(cfg *Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Server{
		address: cfg.Address,
		port:    cfg.Port,
		server: stdServer{&http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
			Handler:           NewRouter(cfg.Service, cfg.Metrics),
			ReadHeaderTimeout: 10 * time.Second,
		}},
	}, nil
}

// Start serves in the background. Errors raised while binding are returned; a server that
// survives the grace period is assumed to be up.
func (s *Server) Start() error {
	log.Info().Msgf("http server listening at %s", s.server.Addr())

	errCh := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err == nil {
			return nil
		}
		return fmt.Errorf("http server stopped: %w", err)
	case <-time.After(startGracePeriod):
		return nil
	}
}

func (s *Server) Stop() error {
	log.Info().Msg("Stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}

func (s *Server) Name() string {
	return serverName
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svc service, metrics http.Handler) *gin.Engine {
	h := &handlers{service: svc}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.MaxMultipartMemory = maxUploadMemory

	r.GET("/health", h.health)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	sessions := r.Group("/sessions")
	{
		sessions.POST("", h.createSession)
		sessions.POST("/:session/batch", h.batch)

		workbooks := sessions.Group("/:session/workbooks")
		workbooks.POST("/empty", h.createEmpty)
		workbooks.POST("/upload", h.upload)
		workbooks.POST("/:filename/preview", h.preview)
		workbooks.POST("/:filename/operations", h.applyOperations)
		workbooks.POST("/:filename/history", h.history)
		workbooks.POST("/:filename/rollback", h.rollback)
		workbooks.GET("/:filename/export", h.export)
	}

	r.POST("/nlp/parse", h.parse)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().Str("method", c.Request.Method).Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).Dur("took", time.Since(start)).Msg("request")
	}
}
