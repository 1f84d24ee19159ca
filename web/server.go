// Package web serves the translator form and a small JSON API over HTTP.
package web

import (
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ZaguanLabs/gomt"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxBodyBytes bounds request bodies on the translate endpoints.
const maxBodyBytes = 1 << 20

// Server exposes a Translator over HTTP.
type Server struct {
	translator   *gomt.Translator
	logger       *slog.Logger
	page         *template.Template
	writeTimeout time.Duration
}

// Option is a functional option for configuring the Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithWriteTimeout sets the HTTP write timeout. It must exceed the slowest
// expected translation, including model loading.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

// New creates a Server for translator.
func New(translator *gomt.Translator, opts ...Option) *Server {
	s := &Server{
		translator:   translator,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		page:         template.Must(template.ParseFS(templateFS, "templates/index.html")),
		writeTimeout: 90 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the routed handler wrapped in the server middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /api/languages", s.handleLanguages)
	mux.HandleFunc("POST /api/translate", s.handleAPITranslate)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleFormTranslate)

	return chain(mux, s.requestID, s.recoverer, s.logRequests)
}

// HTTPServer returns an http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
