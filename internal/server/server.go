// Package server exposes the generation pipeline over HTTP: one synchronous
// generate endpoint, a history listing, and a health probe.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(addr string, handler *Handler, logger *zap.Logger) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/api/generate", handler.Generate).Methods(http.MethodPost)
	router.HandleFunc("/api/history", handler.History).Methods(http.MethodGet)
	router.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 180 * time.Second, // generation calls can run long
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
