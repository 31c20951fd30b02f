// Package server exposes the grid over HTTP.
//
// Every request renders through its own grid bound to a buffer; the source,
// page loader and observer are shared, so cached pages, in-flight fetches and
// metrics span requests. Clicks arrive as JSON describing the clicked element and go
// through the same delegated handler the library exposes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rshade/gridpager/internal/cache"
	"github.com/rshade/gridpager/internal/demo"
	"github.com/rshade/gridpager/internal/grid"
	"github.com/rshade/gridpager/internal/source"
)

// Options configures a Server.
type Options struct {
	Title string

	// Grid is the template for per-request grids. CurrentPage is ignored.
	Grid grid.Options[source.Record]

	// Demo, when set, is served on /data.
	Demo demo.Repository

	// Gatherer backs /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	Logger zerolog.Logger
}

// Server is the gin HTTP surface.
type Server struct {
	opts   Options
	engine *gin.Engine
}

// New builds the server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Title == "" {
		opts.Title = "gridpager"
	}

	g := opts.Grid
	if g.Source == nil {
		method := g.DataMethod
		if method == "" {
			method = http.MethodGet
		}
		httpOpts := append([]source.HTTPOption{
			source.WithMethod(method),
			source.WithParams(g.Params),
		}, g.HTTPOptions...)
		src, err := source.NewHTTPSource[source.Record](g.DataURL, httpOpts...)
		if err != nil {
			return nil, err
		}
		g.Source = src
	}
	if g.UseCache && g.Loader == nil {
		if g.Store == nil {
			g.Store = cache.NewMemoryStore[source.Record]()
		}
		g.Loader = cache.NewLoader(g.Store)
	}
	opts.Grid = g

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(opts.Logger))

	s := &Server{opts: opts, engine: engine}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		<-errCh
		return nil
	}
}
