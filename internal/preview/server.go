// Package preview serves a live-reloading editor for one Markdown file.
package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/browser"
	"golang.org/x/sync/errgroup"

	"github.com/aguakit/mdkit"
	"github.com/aguakit/mdkit/internal/assets"
	"github.com/aguakit/mdkit/internal/fileutil"
	"github.com/aguakit/mdkit/internal/markdown"
	"github.com/aguakit/mdkit/internal/pipeline"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:3000"

// FilesPrefix is where files next to the document are served.
const FilesPrefix = "/files/"

const (
	maxBodyBytes    = 4 << 20
	shutdownTimeout = 5 * time.Second
)

// ErrNoRenderer is returned by New without a Renderer.
var ErrNoRenderer = errors.New("preview needs a renderer")

// Renderer turns Markdown into HTML fragments and exported files.
// *mdkit.Converter satisfies it.
type Renderer interface {
	RenderHTML(ctx context.Context, markdown string) (string, error)
	Convert(ctx context.Context, input mdkit.Input) (*mdkit.Result, error)
}

// Config configures a preview Server.
type Config struct {
	File     string             // Markdown file to preview
	Addr     string             // listen address, DefaultAddr when empty
	Open     bool               // open a browser once listening
	Renderer Renderer           // required
	Loader   assets.AssetLoader // nil uses the embedded assets
	Log      io.Writer          // progress messages, discarded when nil
	Debounce time.Duration      // watcher debounce, DefaultDebounce when zero
}

// Server is the preview HTTP server.
type Server struct {
	cfg      Config
	file     string
	dir      string
	title    string
	page     *template.Template
	css      string
	rewriter *pipeline.PathRewriter
	injector pipeline.CSSInjector
	hub      *Hub
	router   chi.Router
}

// New prepares a server for cfg.File. The file must exist.
func New(cfg Config) (*Server, error) {
	if cfg.Renderer == nil {
		return nil, ErrNoRenderer
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Log == nil {
		cfg.Log = io.Discard
	}
	if cfg.Loader == nil {
		cfg.Loader = assets.NewEmbeddedLoader()
	}

	abs, err := filepath.Abs(cfg.File)
	if err != nil {
		return nil, err
	}
	if !fileutil.FileExists(abs) {
		return nil, fmt.Errorf("%w: %s", os.ErrNotExist, cfg.File)
	}

	raw, err := cfg.Loader.LoadTemplate(assets.TemplatePreview)
	if err != nil {
		return nil, err
	}
	page, err := template.New(assets.TemplatePreview).Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing preview template: %w", err)
	}
	css, err := assets.ComposeStyles(cfg.Loader, assets.StyleBase, assets.StylePreview)
	if err != nil {
		return nil, err
	}
	rw, err := pipeline.NewPrefixRewriter(FilesPrefix)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		file:     abs,
		dir:      filepath.Dir(abs),
		title:    fileutil.StemName(abs),
		page:     page,
		css:      css,
		rewriter: rw,
		injector: &pipeline.CSSInjection{},
		hub:      NewHub(),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.hub.ServeWS)
	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/format", s.handleFormat)
		r.Post("/save", s.handleSave)
		r.Get("/export/{format}", s.handleExport)
		r.Post("/export/{format}", s.handleExport)
	})
	r.Handle(FilesPrefix+"*", http.StripPrefix(FilesPrefix, http.FileServer(http.Dir(s.dir))))
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln, watches the file and pushes re-renders to connected
// pages. It shuts down gracefully when ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	watcher, err := NewWatcher(s.file, s.cfg.Debounce, func() { s.Reload(ctx) })
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("watching %s: %w", s.file, err)
	}

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	url := "http://" + ln.Addr().String() + "/"
	fmt.Fprintf(s.cfg.Log, "Previewing %s at %s\n", s.file, url)
	if s.cfg.Open {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(s.cfg.Log, "Could not open browser: %v\n", err)
		}
	}

	return g.Wait()
}

// Reload re-renders the file and pushes it to every page.
func (s *Server) Reload(ctx context.Context) {
	src, body, err := s.renderFile(ctx)
	if err != nil {
		fmt.Fprintf(s.cfg.Log, "Reload failed: %v\n", err)
		return
	}
	s.hub.Broadcast(Event{Type: EventRender, HTML: body, Markdown: src})
}

// renderFile reads the document and renders it with preview paths.
func (s *Server) renderFile(ctx context.Context) (src, body string, err error) {
	data, err := os.ReadFile(s.file) // #nosec G304 -- the previewed file
	if err != nil {
		return "", "", err
	}
	src = string(data)
	body, err = s.render(ctx, src)
	return src, body, err
}

func (s *Server) render(ctx context.Context, src string) (string, error) {
	body, err := s.cfg.Renderer.RenderHTML(ctx, src)
	if err != nil {
		return "", err
	}
	return s.rewriter.Rewrite(body)
}

type pageData struct {
	Title   string
	Formats []string
	Source  string
	Body    template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	src, body, err := s.renderFile(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	formats := mdkit.Formats()
	data := pageData{
		Title:   s.title,
		Formats: make([]string, len(formats)),
		Source:  src,
		Body:    template.HTML(body), // #nosec G203 -- produced by the renderer
	}
	for i, f := range formats {
		data.Formats[i] = string(f)
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, s.injector.InjectCSS(r.Context(), buf.String(), s.css))
}

type markdownRequest struct {
	Markdown string `json:"markdown"`
	Name     string `json:"name,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	body, err := s.render(r.Context(), req.Markdown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": body})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"markdown": markdown.Format(req.Markdown)})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	if err := fileutil.WriteFileAtomic(s.file, []byte(req.Markdown), 0o644); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"saved": filepath.Base(s.file)})
}

// handleExport returns the document as an attachment. GET exports the file
// on disk; POST exports the posted Markdown.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := mdkit.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	in := mdkit.Input{
		Title:     r.URL.Query().Get("name"),
		Format:    format,
		SourceDir: s.dir,
	}
	if r.Method == http.MethodPost {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}
		in.Markdown = req.Markdown
		if req.Name != "" {
			in.Title = req.Name
		}
	} else {
		data, err := os.ReadFile(s.file) // #nosec G304 -- the previewed file
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		in.Markdown = string(data)
	}
	if in.Title == "" {
		in.Title = s.title
	}

	res, err := s.cfg.Renderer.Convert(r.Context(), in)
	if err != nil {
		writeError(w, exportStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	_, _ = w.Write(res.Data)
}

func exportStatus(err error) int {
	switch {
	case errors.Is(err, mdkit.ErrUnknownFormat),
		errors.Is(err, mdkit.ErrInvalidPageSize),
		errors.Is(err, mdkit.ErrInvalidOrientation),
		errors.Is(err, mdkit.ErrInvalidMargin):
		return http.StatusBadRequest
	case errors.Is(err, mdkit.ErrBrowserConnect):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (markdownRequest, bool) {
	var req markdownRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
