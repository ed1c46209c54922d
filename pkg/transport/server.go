package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dtnitsch/pageclarity/pkg/extractor"
	"github.com/dtnitsch/pageclarity/pkg/fetcher"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	maxMessageBytes = 1 << 20
	maxPageBytes    = 10 << 20
)

// LoadRequest replaces or updates the active page. HTML wins over URL; with
// neither, only the selection and focus of the current page change.
type LoadRequest struct {
	URL       string `json:"url,omitempty"`
	HTML      string `json:"html,omitempty"`
	Selection string `json:"selection,omitempty"`
	Focus     string `json:"focus,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server hosts the active page and answers transport messages for it.
type Server struct {
	mu      sync.RWMutex
	page    *extractor.Page
	fetcher *fetcher.Fetcher
	logger  *slog.Logger
}

func NewServer(f *fetcher.Fetcher, logger *slog.Logger) *Server {
	return &Server{fetcher: f, logger: logger}
}

// SetPage makes p the active page.
func (s *Server) SetPage(p *extractor.Page) {
	if p != nil {
		url := p.URL()
		p.OnChange(func(e extractor.ChangeEvent) {
			s.logger.Info("input replaced", "url", url, "tag", e.Tag, "chars", len(e.Value))
		})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
}

func (s *Server) Page() *extractor.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/tab", s.getTab)
	r.Post("/tab", s.loadTab)
	r.Post("/message", s.message)

	return r
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "ok", "page": s.Page() != nil}, http.StatusOK)
}

func (s *Server) getTab(w http.ResponseWriter, r *http.Request) {
	page := s.Page()
	if page == nil {
		writeJSON(w, errorResponse{Error: "no active page"}, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, page.Tab(), http.StatusOK)
}

func (s *Server) loadTab(w http.ResponseWriter, r *http.Request) {
	var load LoadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPageBytes)).Decode(&load); err != nil {
		writeJSON(w, errorResponse{Error: "invalid page payload"}, http.StatusBadRequest)
		return
	}

	page := s.Page()
	switch {
	case strings.TrimSpace(load.HTML) != "":
		p, err := extractor.ParseHTML(strings.NewReader(load.HTML), load.URL)
		if err != nil {
			writeJSON(w, errorResponse{Error: err.Error()}, http.StatusBadRequest)
			return
		}
		page = p
	case strings.TrimSpace(load.URL) != "":
		doc, err := s.fetcher.GetHtml(r.Context(), load.URL)
		if err != nil {
			s.logger.Error("failed to load page", "url", load.URL, "error", err)
			writeJSON(w, errorResponse{Error: err.Error()}, http.StatusBadGateway)
			return
		}
		page = extractor.NewPage(doc, load.URL)
	case page == nil:
		writeJSON(w, errorResponse{Error: "url or html required"}, http.StatusBadRequest)
		return
	}

	page.SetSelection(load.Selection)
	page.SetFocus(load.Focus)
	if page != s.Page() {
		s.SetPage(page)
		s.logger.Info("page loaded", "url", page.URL(), "title", page.Title())
	}
	writeJSON(w, page.Tab(), http.StatusOK)
}

func (s *Server) message(w http.ResponseWriter, r *http.Request) {
	page := s.Page()
	if page == nil {
		writeJSON(w, errorResponse{Error: "no active page"}, http.StatusServiceUnavailable)
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageBytes)).Decode(&req); err != nil {
		writeJSON(w, errorResponse{Error: "invalid message"}, http.StatusBadRequest)
		return
	}

	resp, err := Handle(page, req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownMessage) {
			status = http.StatusBadRequest
		}
		s.logger.Warn("message failed", "type", req.Type, "id", req.ID, "error", err)
		writeJSON(w, errorResponse{Error: err.Error()}, status)
		return
	}
	s.logger.Debug("message handled", "type", req.Type, "id", req.ID)
	writeJSON(w, resp, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, value any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}
