// Package server exposes export, import and description generation over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apidocpdf "github.com/porticus-lab/go-apidoc-pdf"
	"github.com/porticus-lab/go-apidoc-pdf/describe"
	"github.com/porticus-lab/go-apidoc-pdf/postman"
)

// Describer generates endpoint descriptions. *describe.Client implements it.
type Describer interface {
	Describe(ctx context.Context, in describe.Input) (string, error)
}

// Fetcher downloads Postman collections. *postman.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, uid string) (*postman.Collection, error)
}

// Archiver keeps a copy of every exported PDF. *archive.Uploader
// implements it. Store must not fail the export it is called for.
type Archiver interface {
	Store(ctx context.Context, pdf []byte)
}

// Config holds the listener and response settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	// Filename is the attachment name of exported PDFs.
	Filename string

	// EmptyItemsStatus is returned for exports of documents without items.
	EmptyItemsStatus int

	// Heading overrides the banner text of the HTML view.
	Heading string
}

func (c Config) resolved() Config {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 10 << 20
	}
	if c.Filename == "" {
		c.Filename = "api_documentation.pdf"
	}
	if c.EmptyItemsStatus == 0 {
		c.EmptyItemsStatus = http.StatusInternalServerError
	}
	return c
}

// Server routes requests to the export engines and the collaborators.
type Server struct {
	cfg Config
	log *slog.Logger

	native    apidocpdf.Engine
	browser   apidocpdf.Engine
	describer Describer
	fetcher   Fetcher
	archive   Archiver

	// background tracks archive uploads so shutdown can wait for them.
	background conc.WaitGroup
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger for requests and errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBrowserEngine enables ?engine=browser on the export route.
func WithBrowserEngine(e apidocpdf.Engine) Option {
	return func(s *Server) { s.browser = e }
}

// WithDescriber sets the description generator.
func WithDescriber(d Describer) Option {
	return func(s *Server) { s.describer = d }
}

// WithFetcher sets the Postman API client used for remote imports.
func WithFetcher(f Fetcher) Option {
	return func(s *Server) { s.fetcher = f }
}

// WithArchive uploads every exported PDF after the response is sent.
func WithArchive(a Archiver) Option {
	return func(s *Server) { s.archive = a }
}

// New returns a Server exporting with native.
func New(cfg Config, native apidocpdf.Engine, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg.resolved(),
		log:    slog.Default(),
		native: native,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID, s.logRequests, s.recoverer, s.limitBody)

	route := func(method, pattern string, h handlerFunc) {
		r.Method(method, pattern, otelhttp.WithRouteTag(pattern, s.handle(h)))
	}
	route(http.MethodGet, "/healthz", s.health)
	route(http.MethodPost, "/api/export/pdf", s.exportPDF)
	route(http.MethodPost, "/api/export/html", s.exportHTML)
	route(http.MethodPost, "/api/import/postman", s.importPostman)
	route(http.MethodPost, "/api/generate-description", s.generateDescription)

	r.NotFound(s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return newError(http.StatusNotFound, "not found", nil)
	}))
	r.MethodNotAllowed(s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return newError(http.StatusMethodNotAllowed, "method not allowed", nil)
	}))

	return otelhttp.NewHandler(r, "apidoc",
		otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
	)
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully and
// waits for pending archive uploads.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}

	s.log.InfoContext(ctx, "listening", slog.String("addr", ln.Addr().String()))

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		return srv.Serve(ln)
	})
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := p.Wait()
	s.background.Wait()
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	writeJSON(r.Context(), s.log, w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}
