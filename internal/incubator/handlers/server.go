package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server owns the HTTP listener of the REST API.
type Server struct {
	httpServer   *http.Server
	logger       *zap.Logger
	httpEndpoint string
	errChan      chan error
}

// NewServer wraps handler with the CORS policy for allowedOrigins.
func NewServer(httpPort int, handler http.Handler, allowedOrigins []string, logger *zap.Logger) *Server {
	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
	})

	endpoint := fmt.Sprintf(":%d", httpPort)
	return &Server{
		httpServer: &http.Server{
			Addr:              endpoint,
			Handler:           co.Handler(handler),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:       logger.Named("http_server"),
		httpEndpoint: endpoint,
		errChan:      make(chan error, 1),
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned; later serve errors are reported on Errors.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.httpEndpoint)
	if err != nil {
		return fmt.Errorf("HTTP listen error: %w", err)
	}
	s.logger.Info("Starting HTTP server", zap.String("endpoint", lis.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
			s.errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
		close(s.errChan)
	}()
	return nil
}

func (s *Server) Errors() <-chan error {
	return s.errChan
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	s.logger.Info("Server stopped")
}
