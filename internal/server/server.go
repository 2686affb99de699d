// Package server implements the chainviz HTTP API.
//
// The API serves the two collaborator interfaces the viewer front end
// consumes: a document listing and the built graph elements for a selected
// document. A third endpoint returns the detail record for a single entity,
// backing the sidebar panel that opens when a node is activated.
//
// Routes:
//
//	GET /healthz                  liveness probe
//	GET /api/files                available documents: [{name, label}, ...]
//	GET /api/graph?file=NAME      built elements for the named document
//	GET /api/entities/{id}?file=NAME  detail record for one entity
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhalbert/chainviz/pkg/cache"
	"github.com/mhalbert/chainviz/pkg/chain"
	"github.com/mhalbert/chainviz/pkg/chain/elements"
	"github.com/mhalbert/chainviz/pkg/chain/layout"
	"github.com/mhalbert/chainviz/pkg/errors"
	"github.com/mhalbert/chainviz/pkg/source"
)

// Server wires the document source, element cache, and layout geometry
// behind the HTTP API.
type Server struct {
	src        source.Source
	cache      cache.Cache
	layout     layout.Config
	ttl        time.Duration
	sourceName string
	logger     *log.Logger
}

// Options configures a Server.
type Options struct {
	// Source lists and loads documents. Required.
	Source source.Source
	// Cache stores built elements. When nil, an in-memory cache is used.
	Cache cache.Cache
	// Layout is the grid geometry for built elements.
	Layout layout.Config
	// TTL bounds how long built elements are cached.
	TTL time.Duration
	// SourceName namespaces cache keys (e.g. "dir", "mongo").
	SourceName string
	// Logger may be nil, in which case the default logger is used.
	Logger *log.Logger
}

// New creates a Server with the given options.
func New(opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = cache.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.SourceName == "" {
		opts.SourceName = "dir"
	}
	return &Server{
		src:        opts.Source,
		cache:      opts.Cache,
		layout:     opts.Layout,
		ttl:        opts.TTL,
		sourceName: opts.SourceName,
		logger:     opts.Logger,
	}
}

// Handler returns the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/files", s.handleFiles)
	r.Get("/api/graph", s.handleGraph)
	r.Get("/api/entities/{id}", s.handleEntity)

	return r
}

// corsMiddleware allows the viewer front end to be served from another
// origin during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFiles serves the document listing consumed by the selector UI.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.src.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if files == nil {
		files = []source.FileInfo{}
	}
	writeJSON(w, http.StatusOK, files)
}

// handleGraph builds (or serves from cache) the element sequence for the
// document named by the file query parameter.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("file")
	if name == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "missing file parameter"))
		return
	}

	key := cache.ElementsKey(s.sourceName, name)
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		s.logger.Debug("serving cached elements", "file", name)
		writeRawJSON(w, http.StatusOK, data)
		return
	} else if err != nil {
		// Cache trouble degrades to a rebuild, it never fails the request.
		s.logger.Warn("element cache get failed", "file", name, "err", err)
	}

	doc, err := s.src.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	els, err := elements.Build(doc, s.layout)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := json.Marshal(els)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode elements"))
		return
	}
	if err := s.cache.Set(r.Context(), key, data, s.ttl); err != nil {
		s.logger.Warn("element cache set failed", "file", name, "err", err)
	}

	stats := elements.Count(els)
	s.logger.Info("built elements", "file", name, "nodes", stats.Nodes, "edges", stats.Edges)
	writeRawJSON(w, http.StatusOK, data)
}

// handleEntity serves the detail record for one entity, consumed by the
// detail panel when a node is selected.
func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("file")
	if name == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "missing file parameter"))
		return
	}
	id := chi.URLParam(r, "id")

	doc, err := s.src.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	detail, ok := doc.EntityDetails[id]
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeEntityNotFound, "entity %q not found in %q", id, name))
		return
	}

	writeJSON(w, http.StatusOK, entityResponse{ID: id, EntityDetail: detail})
}

// entityResponse flattens the entity id into the detail payload.
type entityResponse struct {
	ID string `json:"id"`
	chain.EntityDetail
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps structured error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDocument:
		status = http.StatusBadRequest
	case errors.ErrCodeDocumentNotFound, errors.ErrCodeEntityNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
