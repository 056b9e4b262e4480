package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	standin "github.com/standin-project/standin"
)

var (
	// ErrNilRegistry is returned when no registry is provided.
	ErrNilRegistry = errors.New("registry cannot be nil")
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// shutdownTimeout bounds graceful shutdown after context cancellation.
const shutdownTimeout = 5 * time.Second

// Config provides configuration options for server creation.
type Config struct {
	// Addr is the listen address. Empty means DefaultAddr.
	Addr string

	// Registry supplies the stubs to serve.
	Registry *standin.Registry

	// Logger receives request and lifecycle records. Nil keeps the
	// server silent.
	Logger *slog.Logger
}

// Server hosts a registry over HTTP.
type Server struct {
	addr     string
	registry *standin.Registry
	log      *slog.Logger
	engine   *gin.Engine
}

// requestView is the admin-surface shape of a recorded request.
type requestView struct {
	Method string              `json:"method"`
	URL    string              `json:"url"`
	Header map[string][]string `json:"header"`
	Body   string              `json:"body,omitempty"`
}

// stubView is the admin-surface shape of a registration.
type stubView struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Hits    int    `json:"hits"`
}

// New creates a Server. Stub routing is left entirely to the registry
// so overlapping patterns (a wildcard next to a static sibling, stubs
// under the admin prefix) never collide in gin's route tree; only the
// admin surface is registered as explicit routes.
func New(config Config) (*Server, error) {
	if config.Registry == nil {
		return nil, ErrNilRegistry
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		addr:     addr,
		registry: config.Registry,
		log:      logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.logRequests)

	admin := engine.Group("/_standin")
	admin.GET("/stubs", s.listStubs)
	admin.GET("/requests", s.listRequests)
	admin.DELETE("/requests", s.resetRequests)

	engine.NoRoute(s.serveStub)

	s.engine = engine
	return s, nil
}

// Handler exposes the underlying engine, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("mock server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("mock server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// serveStub resolves the request through the registry.
func (s *Server) serveStub(c *gin.Context) {
	req, err := standin.NewRequest(c.Request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.registry.Resolve(req)
	switch {
	case err == nil:
		if werr := resp.Write(c.Writer); werr != nil {
			s.log.Error("failed to write stub response", "error", werr)
		}
	case errors.Is(err, standin.ErrNoStub):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, standin.ErrValidation):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		// Network-level failure: drop the connection without a status line.
		s.log.Debug("aborting connection", "method", req.Method, "path", req.URL.Path, "error", err)
		s.abortConnection(c)
	}
}

// abortConnection hijacks and closes the client connection.
func (s *Server) abortConnection(c *gin.Context) {
	conn, _, err := c.Writer.Hijack()
	if err != nil {
		s.log.Error("failed to hijack connection", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	conn.Close()
	c.Abort()
}

// listStubs reports registrations and hit counts.
func (s *Server) listStubs(c *gin.Context) {
	infos := s.registry.Stubs()
	views := make([]stubView, 0, len(infos))
	for _, info := range infos {
		views = append(views, stubView(info))
	}
	c.JSON(http.StatusOK, views)
}

// listRequests reports recorded traffic.
func (s *Server) listRequests(c *gin.Context) {
	requests := s.registry.Requests()
	views := make([]requestView, 0, len(requests))
	for _, req := range requests {
		views = append(views, requestView{
			Method: req.Method,
			URL:    req.URL.String(),
			Header: req.Header,
			Body:   string(req.Body),
		})
	}
	c.JSON(http.StatusOK, views)
}

// resetRequests clears recordings and hit counts.
func (s *Server) resetRequests(c *gin.Context) {
	s.registry.Reset()
	c.Status(http.StatusNoContent)
}

// logRequests emits one record per handled request.
func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Info("request handled",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}
