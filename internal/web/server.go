// Package web serves the single-page web surface and its JSON/SSE API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Runner is the part of the generator the web surface needs.
type Runner interface {
	Run(ctx context.Context, req explore.GenerationRequest, observe explore.Observer) (*explore.Result, error)
}

// Options configures the router.
type Options struct {
	Version string

	// Models behind each tier, reported by /health.
	PrimaryModel  string
	FallbackModel string
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	gen  Runner
	log  *logger.Logger
	opts Options
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(gen Runner, log *logger.Logger, opts Options) (*gin.Engine, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "web")

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(RecoverWithSentry(log))
	router.Use(SentryMiddleware())
	router.Use(RequestTracking(log))

	h := &Handler{gen: gen, log: log, opts: opts}

	router.GET("/", h.Index)
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.POST("/generate", h.Generate)
		api.POST("/upload", h.Upload)
	}

	return router, nil
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
