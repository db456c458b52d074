package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/wcatz/grid-generator/internal/config"
	"github.com/wcatz/grid-generator/internal/generator"
	"github.com/wcatz/grid-generator/internal/grid"
	"github.com/wcatz/grid-generator/internal/store"
)

//go:embed templates
var templateFS embed.FS

var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

// Server fronts one board with a JSON API and an HTML preview page.
type Server struct {
	cfg     *config.Config
	cfgPath string
	layout  string
	mu      sync.RWMutex

	board    *grid.Board
	repo     store.SnapshotRepository
	log      *slog.Logger
	partials *template.Template
	mux      *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithRepository enables the snapshot endpoints.
func WithRepository(repo store.SnapshotRepository) Option {
	return func(s *Server) { s.repo = repo }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New loads the config at cfgPath and starts a board. With a layout name the
// board starts from that layout; otherwise it is empty on the project grid.
func New(cfgPath, layout string, opts ...Option) (*Server, error) {
	cfg, err := config.Load(cfgPath, nil)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		cfgPath: cfgPath,
		layout:  layout,
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	board, err := newBoard(cfg, layout, s.log)
	if err != nil {
		return nil, err
	}
	s.board = board

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	s.registerRoutes()
	return s, nil
}

func newBoard(cfg *config.Config, layout string, log *slog.Logger) (*grid.Board, error) {
	opts, err := cfg.BoardOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, grid.WithLogger(log))

	if layout == "" {
		gc, err := cfg.GridConfig("")
		if err != nil {
			return nil, err
		}
		return grid.NewBoard(gc, opts...)
	}

	lb, err := generator.NewLayoutBuilder(cfg)
	if err != nil {
		return nil, err
	}
	snap, err := lb.Build(layout)
	if err != nil {
		return nil, err
	}
	opts = append(opts, grid.WithItems(snap.Items))
	return grid.NewBoard(snap.Config, opts...)
}

func (s *Server) loadTemplates() error {
	partials, err := template.New("").Funcs(funcMap).ParseFS(templateFS,
		"templates/partials/*.html",
	)
	if err != nil {
		return fmt.Errorf("parsing partial templates: %w", err)
	}
	s.partials = partials
	return nil
}

// pageTemplate creates a fresh template set with layout + a specific page.
func (s *Server) pageTemplate(page string) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(templateFS,
		"templates/layout.html",
		"templates/partials/*.html",
		"templates/"+page,
	)
}

// ReloadConfig reloads the YAML config from disk. The board keeps its state.
func (s *Server) ReloadConfig() error {
	cfg, err := config.Load(s.cfgPath, nil)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return nil
}

// Config returns the current config (read-locked).
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Board returns the board the server edits.
func (s *Server) Board() *grid.Board {
	return s.board
}

// ConfigPath returns the absolute path to the config file.
func (s *Server) ConfigPath() string {
	abs, err := filepath.Abs(s.cfgPath)
	if err != nil {
		return s.cfgPath
	}
	return abs
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.log.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	fmt.Printf("grid-generator web UI: http://localhost%s\n", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// renderPage renders a full page template (layout + page).
func (s *Server) renderPage(w http.ResponseWriter, page string, data map[string]interface{}) {
	tmpl, err := s.pageTemplate(page)
	if err != nil {
		http.Error(w, "template error: "+err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "render error: "+err.Error(), 500)
	}
}

// renderPartial renders a partial template.
func (s *Server) renderPartial(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.partials.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "render error: "+err.Error(), 500)
	}
}
