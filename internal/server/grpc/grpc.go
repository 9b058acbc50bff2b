package grpc

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"github.com/tabvc/tabvc/internal/engine"
	"github.com/tabvc/tabvc/internal/operations"
	grpc2 "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"net"
	"time"
)

//go:generate mockgen -destination=grpc_mock.go -package=grpc -source=grpc.go

type workbooks interface {
	ApplyOperations(sessionID, filename, message string,
		ops []operations.Operation) (*engine.ApplyResult, error)
	History(sessionID, filename string) ([]engine.CommitSummary, error)
	Rollback(sessionID, filename, commitID string) (*engine.CommitSummary, error)
}

type grpcServer interface {
	Serve(lis net.Listener) error
	GracefulStop()
}

// Server implements the app.Dependency interface for a gRPC server
type Server struct {
	address  string
	server   grpcServer
	port     int
	listener net.Listener
}

type Config struct {
	Address   string
	Port      int
	Workbooks workbooks
}

func (c *Config) validate() error {
	var errGrp []error
	if c.Address == "" {
		errGrp = append(errGrp, fmt.Errorf("address required"))
	}
	if c.Port < 0 {
		errGrp = append(errGrp, fmt.Errorf("port cannot be negative"))
	}
	if c.Workbooks == nil {
		errGrp = append(errGrp, fmt.Errorf("workbooks required"))
	}

	return errors.Join(errGrp...)
}

// recoverUnary logs a handler panic and reports it as codes.Internal.
func recoverUnary(ctx context.Context, req any, info *grpc2.UnaryServerInfo,
	handler grpc2.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("method", info.FullMethod).Interface("panic", r).Msg("gRPC handler panicked")
			resp, err = nil, status.Error(codes.Internal, "internal_error")
		}
	}()
	return handler(ctx, req)
}

// NewServer creates a new gRPC server instance. Port 0 binds an ephemeral port.
func NewServer(cfg *Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	srv := grpc2.NewServer(grpc2.ChainUnaryInterceptor(recoverUnary))
	Register(srv, cfg.Workbooks)
	reflection.Register(srv)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Address, cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", cfg.Port, err)
	}

	return &Server{
		address:  cfg.Address,
		server:   srv,
		port:     lis.Addr().(*net.TCPAddr).Port,
		listener: lis,
	}, nil
}

// Register attaches the workbook service to srv.
func Register(srv grpc2.ServiceRegistrar, wb workbooks) {
	srv.RegisterService(&WorkbookServiceDesc, &workbookService{workbooks: wb})
}

// Addr is the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Start() error {
	log.Info().Msgf("gRPC server listening at %s:%d", s.address, s.port)

	errCh := make(chan error, 1)

	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			errCh <- err
			log.Error().Err(err).Msg("gRPC server failed")
			return
		}
		errCh <- nil
	}()

	// Block briefly for error or nil return
	select {
	case err := <-errCh:
		return err
	case <-time.After(500 * time.Millisecond):
		return nil
	}
}

func (s *Server) Stop() error {
	log.Info().Msg("Stopping gRPC server")
	s.server.GracefulStop()
	return nil
}

func (s *Server) Name() string {
	return "gRPC Server"
}
