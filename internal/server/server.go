// Package server exposes resolved Cursor chats over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/iksnae/cursor-chat-browser/internal"
	"github.com/iksnae/cursor-chat-browser/internal/export"
	"golang.org/x/time/rate"
)

// Archive exports open every workspace store, so they are throttled
const (
	DefaultArchiveRate  = rate.Limit(1)
	DefaultArchiveBurst = 2
)

// WorkspaceLister returns the known workspaces
type WorkspaceLister func() ([]internal.WorkspaceInfo, error)

// Server serves the workspace, tab and export endpoints
type Server struct {
	addr       string
	router     *http.ServeMux
	server     *http.Server
	resolver   export.TabResolver
	workspaces WorkspaceLister
	location   *time.Location

	archiveLimiter *rate.Limiter
}

// Option configures a Server
type Option func(*Server)

// WithLocation sets the time zone used in rendered documents
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		s.location = loc
	}
}

// WithArchiveRateLimit sets how many archive exports are accepted per second
func WithArchiveRateLimit(limit rate.Limit, burst int) Option {
	return func(s *Server) {
		s.archiveLimiter = rate.NewLimiter(limit, burst)
	}
}

// New creates a Server listening on addr
func New(addr string, resolver export.TabResolver, workspaces WorkspaceLister, opts ...Option) *Server {
	s := &Server{
		addr:       addr,
		router:     http.NewServeMux(),
		resolver:   resolver,
		workspaces: workspaces,

		archiveLimiter: rate.NewLimiter(DefaultArchiveRate, DefaultArchiveBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /api/workspaces", s.handleWorkspaces)
	s.router.HandleFunc("GET /api/workspaces/{id}/tabs", s.handleTabs)
	s.router.HandleFunc("GET /api/workspaces/{id}/tabs/{tabId}/export", s.handleTabExport)
	s.router.Handle("GET /api/export", RateLimitMiddleware(s.archiveLimiter)(http.HandlerFunc(s.handleArchiveExport)))
}

// Handler returns the router wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		RequestIDMiddleware(),
		LoggingMiddleware(),
	)(s.router)
}

// Start listens on the configured address until Shutdown is called
func (s *Server) Start() error {
	internal.LogInfo("Listening on http://%s", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	internal.LogInfo("Shutting down server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := s.workspaces()
	if err != nil {
		internal.LogError("Failed to list workspaces: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list workspaces")
		return
	}
	writeJSON(w, http.StatusOK, workspaces)
}

func (s *Server) handleTabs(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.resolve(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTabExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "md"
	}
	exporter, err := s.newExporter(format, export.NewExporter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, ok := s.resolve(w, r)
	if !ok {
		return
	}

	tabID := r.PathValue("tabId")
	var tab *internal.ChatTab
	for i := range resp.Tabs {
		if resp.Tabs[i].ID == tabID {
			tab = &resp.Tabs[i]
			break
		}
	}
	if tab == nil {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(tab, &buf); err != nil {
		internal.LogError("Failed to export tab %s: %v", tabID, err)
		writeError(w, http.StatusInternalServerError, "Failed to export chat")
		return
	}

	disposition := "attachment"
	if _, isPrint := exporter.(*export.PrintExporter); isPrint {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", export.ContentType(exporter))
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{
		"filename": export.FileName(tab, exporter.Extension()),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleArchiveExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}
	if format != "markdown" && format != "html" && format != "pdf" {
		writeError(w, http.StatusBadRequest, "format must be markdown, html or pdf")
		return
	}
	exporter, err := s.newExporter(format, export.NewArchiveExporter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	workspaces, err := s.workspaces()
	if err != nil {
		internal.LogError("Failed to list workspaces: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list workspaces")
		return
	}
	ids := make([]string, len(workspaces))
	for i, ws := range workspaces {
		ids[i] = ws.ID
	}

	var buf bytes.Buffer
	n, err := export.BatchExport(r.Context(), s.resolver, ids, exporter, &buf)
	if err != nil {
		if errors.Is(err, export.ErrNoFiles) {
			writeError(w, http.StatusNotFound, "No chat data found")
			return
		}
		internal.LogError("Batch export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to export chats")
		return
	}

	internal.LogInfo("Exported %d files from %d workspaces", n, len(ids))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.ArchiveName(exporter),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// resolve resolves the {id} workspace and writes the error response on failure
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (*internal.TabsResponse, bool) {
	workspaceID := r.PathValue("id")
	resp, err := s.resolver.Resolve(r.Context(), workspaceID)
	if err != nil {
		switch {
		case errors.Is(err, internal.ErrNotFound):
			writeError(w, http.StatusNotFound, "No chat data found")
		case errors.Is(err, internal.ErrInvalidWorkspaceID):
			writeError(w, http.StatusBadRequest, "Invalid workspace id")
		default:
			internal.LogError("Failed to get workspace data for %s: %v", workspaceID, err)
			writeError(w, http.StatusInternalServerError, "Failed to get workspace data")
		}
		return nil, false
	}
	return resp, true
}

// newExporter builds an exporter and applies the server's time zone
func (s *Server) newExporter(format string, build func(string) (export.Exporter, error)) (export.Exporter, error) {
	exporter, err := build(format)
	if err != nil {
		return nil, err
	}
	return export.WithLocation(exporter, s.location), nil
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.LogWarn("Failed to encode response: %v", err)
	}
}

// writeError writes a {"error": message} response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
