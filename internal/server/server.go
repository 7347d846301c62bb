// Package server exposes memory-card generation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/f3rmion/memcard/internal/llm"
	"github.com/f3rmion/memcard/internal/logger"
)

// NewRouter builds the gin engine with all routes.
func NewRouter(gen llm.Generator, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))

	// Any origin may call the API, as browser extensions and local pages do.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:   []string{requestIDHeader},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/", Health)
	router.GET("/health", Health)

	cards := NewCardHandler(gen, log)
	api := router.Group("/api")
	{
		api.POST("/vocabulary/memory-card", cards.Generate)
	}

	return router
}

// Server wraps the HTTP listener.
type Server struct {
	Engine *gin.Engine
	log    *logger.Logger
}

func NewServer(gen llm.Generator, log *logger.Logger) *Server {
	return &Server{Engine: NewRouter(gen, log), log: log}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
