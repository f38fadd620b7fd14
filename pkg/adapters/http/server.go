// Package http exposes canvas documents over a JSON API routed with chi.
//
// Every mutation goes through document.Manager, so writes to one canvas are
// serialized and each committed change is streamed to SSE subscribers of that
// canvas as a GraphDiff.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/canvas"
	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/presentation/graph"
	"github.com/aretw0/canvas/pkg/document"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/edges"
	"github.com/aretw0/canvas/pkg/frame"
	"github.com/go-chi/chi/v5"
)

// MaxBodySize bounds request bodies (documents and clipboard text).
const MaxBodySize = 4 << 20

// Server serves the canvas API.
type Server struct {
	Documents *document.Manager
	Streams   *StreamManager
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server over docs. Changes reach SSE clients only
// through Publish; NewHandler wires that for a single replica.
func NewServer(docs *document.Manager, opts ...Option) *Server {
	s := &Server{
		Documents: docs,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a server whose SSE streams follow docs directly.
func NewHandler(docs *document.Manager, opts ...Option) http.Handler {
	s := NewServer(docs, opts...)
	docs.Subscribe(s.Publish)
	return s.Handler()
}

// Publish broadcasts a committed change to the subscribers of its canvas.
func (s *Server) Publish(diff *domain.GraphDiff) {
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("diff encode failed", "canvas_id", diff.CanvasID, "err", err)
		return
	}
	s.Streams.Broadcast(diff.CanvasID, string(data))
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/canvases", func(r chi.Router) {
		r.Get("/", s.ListCanvases)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetCanvas)
			r.Put("/", s.PutCanvas)
			r.Delete("/", s.DeleteCanvas)
			r.Post("/copy", s.Copy)
			r.Post("/paste", s.Paste)
			r.Post("/delete", s.DeleteNodes)
			r.Post("/nodes/{nodeID}/move", s.MoveNode)
			r.Post("/frames/{frameID}/collapse", s.Collapse)
			r.Get("/edges", s.GetEdges)
			r.Get("/frames", s.GetFrames)
			r.Get("/mermaid", s.GetMermaid)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "canvas-http",
		"version": strings.TrimSpace(canvas.Version),
	})
}

// ListCanvases handles GET /canvases.
func (s *Server) ListCanvases(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Documents.List(r.Context())
	if err != nil {
		s.fail(w, "List", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetCanvas handles GET /canvases/{id}.
func (s *Server) GetCanvas(w http.ResponseWriter, r *http.Request) {
	g, err := s.Documents.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetCanvas", err)
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

// PutCanvas handles PUT /canvases/{id}, replacing the whole document.
func (s *Server) PutCanvas(w http.ResponseWriter, r *http.Request) {
	var g domain.Graph
	if !s.decode(w, r, "PutCanvas", &g) {
		return
	}
	if g.Nodes == nil {
		g.Nodes = []domain.Node{}
	}
	if g.Edges == nil {
		g.Edges = []domain.Edge{}
	}
	if err := s.Documents.Save(r.Context(), chi.URLParam(r, "id"), &g); err != nil {
		s.fail(w, "PutCanvas", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCanvas handles DELETE /canvases/{id}.
func (s *Server) DeleteCanvas(w http.ResponseWriter, r *http.Request) {
	if err := s.Documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteCanvas", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NodesRequest names nodes of a canvas.
type NodesRequest struct {
	NodeIDs []string `json:"nodeIds"`
}

// CopyResponse carries clipboard text in the canvas clipboard format.
type CopyResponse struct {
	Text string `json:"text"`
}

// Copy handles POST /canvases/{id}/copy.
func (s *Server) Copy(w http.ResponseWriter, r *http.Request) {
	var body NodesRequest
	if !s.decode(w, r, "Copy", &body) {
		return
	}
	text, err := s.Documents.Copy(r.Context(), chi.URLParam(r, "id"), body.NodeIDs)
	if err != nil {
		s.fail(w, "Copy", err)
		return
	}
	s.writeJSON(w, http.StatusOK, CopyResponse{Text: text})
}

// PasteRequest is the body of a paste. An empty Text pastes the shared
// clipboard. At, when set, is where the copy origin lands.
type PasteRequest struct {
	Text string        `json:"text"`
	At   *domain.Point `json:"at,omitempty"`
}

// Paste handles POST /canvases/{id}/paste and answers with the committed diff.
func (s *Server) Paste(w http.ResponseWriter, r *http.Request) {
	var body PasteRequest
	if !s.decode(w, r, "Paste", &body) {
		return
	}
	diff, err := s.Documents.Paste(r.Context(), chi.URLParam(r, "id"), body.Text, body.At)
	if err != nil {
		s.fail(w, "Paste", err)
		return
	}
	s.writeDiff(w, chi.URLParam(r, "id"), diff)
}

// DeleteNodes handles POST /canvases/{id}/delete.
func (s *Server) DeleteNodes(w http.ResponseWriter, r *http.Request) {
	var body NodesRequest
	if !s.decode(w, r, "DeleteNodes", &body) {
		return
	}
	diff, err := s.Documents.DeleteNodes(r.Context(), chi.URLParam(r, "id"), body.NodeIDs)
	if err != nil {
		s.fail(w, "DeleteNodes", err)
		return
	}
	s.writeDiff(w, chi.URLParam(r, "id"), diff)
}

// MoveNode handles POST /canvases/{id}/nodes/{nodeID}/move with a Point body.
func (s *Server) MoveNode(w http.ResponseWriter, r *http.Request) {
	var pos domain.Point
	if !s.decode(w, r, "MoveNode", &pos) {
		return
	}
	diff, err := s.Documents.Move(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "nodeID"), pos)
	if err != nil {
		s.fail(w, "MoveNode", err)
		return
	}
	s.writeDiff(w, chi.URLParam(r, "id"), diff)
}

// CollapseRequest sets the collapsed flag of a frame.
type CollapseRequest struct {
	Collapsed bool `json:"collapsed"`
}

// Collapse handles POST /canvases/{id}/frames/{frameID}/collapse.
func (s *Server) Collapse(w http.ResponseWriter, r *http.Request) {
	var body CollapseRequest
	if !s.decode(w, r, "Collapse", &body) {
		return
	}
	diff, err := s.Documents.SetCollapsed(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "frameID"), body.Collapsed)
	if err != nil {
		s.fail(w, "Collapse", err)
		return
	}
	s.writeDiff(w, chi.URLParam(r, "id"), diff)
}

// GetEdges handles GET /canvases/{id}/edges: visible edges with status and geometry.
func (s *Server) GetEdges(w http.ResponseWriter, r *http.Request) {
	g, err := s.Documents.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetEdges", err)
		return
	}
	s.writeJSON(w, http.StatusOK, edges.Derive(*g))
}

// GetFrames handles GET /canvases/{id}/frames: the collapsed frame views.
func (s *Server) GetFrames(w http.ResponseWriter, r *http.Request) {
	g, err := s.Documents.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetFrames", err)
		return
	}
	views := frame.Collapsed(*g)
	if views == nil {
		views = []frame.View{}
	}
	s.writeJSON(w, http.StatusOK, views)
}

// GetMermaid handles GET /canvases/{id}/mermaid. The selected query
// parameter (comma separated node IDs) is highlighted.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	g, err := s.Documents.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetMermaid", err)
		return
	}
	var overlay *graph.GraphOverlay
	if sel := r.URL.Query().Get("selected"); sel != "" {
		overlay = &graph.GraphOverlay{SelectedNodes: strings.Split(sel, ",")}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(*g, overlay))
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn(op+": Invalid request body", "err", err)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeDiff(w http.ResponseWriter, canvasID string, diff *domain.GraphDiff) {
	if diff == nil {
		diff = &domain.GraphDiff{CanvasID: canvasID}
	}
	s.writeJSON(w, http.StatusOK, diff)
}

// fail maps domain errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrNodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidGraph),
		errors.Is(err, domain.ErrUnknownPayload),
		errors.Is(err, domain.ErrClipboardEmpty):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrClipboardUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "status", status, "err", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}
