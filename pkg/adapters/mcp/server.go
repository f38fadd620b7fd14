// Package mcp exposes canvas documents as Model Context Protocol tools, so an
// agent can inspect a workflow canvas and copy, paste or rearrange its nodes.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/canvas"
	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/presentation/graph"
	"github.com/aretw0/canvas/pkg/document"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/edges"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ResourceScheme prefixes canvas resource URIs: canvas://{id}.
const ResourceScheme = "canvas://"

// Server wraps the document manager and exposes it as an MCP Server.
type Server struct {
	docs      *document.Manager
	mcpServer *server.MCPServer
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

// NewServer creates a new MCP Server instance.
func NewServer(docs *document.Manager, opts ...Option) *Server {
	s := &Server{
		docs:   docs,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("canvas-mcp", strings.TrimSpace(canvas.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	canvasID := mcp.WithString("canvas_id", mcp.Required(), mcp.Description("ID of the canvas document"))
	nodeIDs := mcp.WithArray("node_ids", mcp.Required(),
		mcp.Description("IDs of the nodes to act on"),
		mcp.Items(map[string]any{"type": "string"}),
	)

	// TOOL: list_canvases
	s.mcpServer.AddTool(mcp.NewTool("list_canvases",
		mcp.WithDescription("List the IDs of stored canvas documents."),
	), s.handleList)

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the nodes and edges of a canvas document."),
		canvasID,
	), s.handleGetGraph)

	// TOOL: get_edges
	s.mcpServer.AddTool(mcp.NewTool("get_edges",
		mcp.WithDescription("Get the visible edges of a canvas with their derived execution status and SVG path."),
		canvasID,
	), s.handleGetEdges)

	// TOOL: copy_nodes
	s.mcpServer.AddTool(mcp.NewTool("copy_nodes",
		mcp.WithDescription("Copy nodes, and the edges between them, as clipboard text."),
		canvasID,
		nodeIDs,
	), s.handleCopy)

	// TOOL: paste_nodes
	s.mcpServer.AddTool(mcp.NewTool("paste_nodes",
		mcp.WithDescription("Paste clipboard text into a canvas. Pasted nodes get fresh IDs and unique names."),
		canvasID,
		mcp.WithString("text", mcp.Description("Clipboard text; omit to paste the shared clipboard")),
		mcp.WithNumber("x", mcp.Description("Canvas X the copy origin moves to (optional)")),
		mcp.WithNumber("y", mcp.Description("Canvas Y the copy origin moves to (optional)")),
	), s.handlePaste)

	// TOOL: delete_nodes
	s.mcpServer.AddTool(mcp.NewTool("delete_nodes",
		mcp.WithDescription("Delete nodes and every edge touching them."),
		canvasID,
		nodeIDs,
	), s.handleDelete)

	// TOOL: move_node
	s.mcpServer.AddTool(mcp.NewTool("move_node",
		mcp.WithDescription("Move a node to a canvas position. Frame members move along."),
		canvasID,
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node to move")),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Target X")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Target Y")),
	), s.handleMove)

	// TOOL: set_collapsed
	s.mcpServer.AddTool(mcp.NewTool("set_collapsed",
		mcp.WithDescription("Collapse or expand a frame node."),
		canvasID,
		mcp.WithString("frame_id", mcp.Required(), mcp.Description("Frame node")),
		mcp.WithBoolean("collapsed", mcp.Required(), mcp.Description("Collapsed state")),
	), s.handleCollapse)

	// TOOL: export_mermaid
	s.mcpServer.AddTool(mcp.NewTool("export_mermaid",
		mcp.WithDescription("Export the canvas as a Mermaid flowchart."),
		canvasID,
	), s.handleMermaid)
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.docs.List(ctx)
	if err != nil {
		return s.toolError("list", err), nil
	}
	if ids == nil {
		ids = []string{}
	}
	return jsonResult(ids)
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, errResult := s.load(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(g)
}

func (s *Server) handleGetEdges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, errResult := s.load(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(edges.Derive(*g))
}

func (s *Server) handleMermaid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, errResult := s.load(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(*g, nil)), nil
}

func (s *Server) handleCopy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("canvas_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.docs.Copy(ctx, id, stringSlice(request.GetArguments()["node_ids"]))
	if err != nil {
		return s.toolError("copy", err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handlePaste(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("canvas_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var at *domain.Point
	args := request.GetArguments()
	if _, ok := args["x"]; ok {
		at = &domain.Point{X: request.GetFloat("x", 0), Y: request.GetFloat("y", 0)}
	}
	diff, err := s.docs.Paste(ctx, id, request.GetString("text", ""), at)
	if err != nil {
		return s.toolError("paste", err), nil
	}
	return diffResult(id, diff)
}

func (s *Server) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("canvas_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	diff, err := s.docs.DeleteNodes(ctx, id, stringSlice(request.GetArguments()["node_ids"]))
	if err != nil {
		return s.toolError("delete", err), nil
	}
	return diffResult(id, diff)
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("canvas_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nodeID, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos := domain.Point{X: request.GetFloat("x", 0), Y: request.GetFloat("y", 0)}
	diff, err := s.docs.Move(ctx, id, nodeID, pos)
	if err != nil {
		return s.toolError("move", err), nil
	}
	return diffResult(id, diff)
}

func (s *Server) handleCollapse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("canvas_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	frameID, err := request.RequireString("frame_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	diff, err := s.docs.SetCollapsed(ctx, id, frameID, request.GetBool("collapsed", true))
	if err != nil {
		return s.toolError("collapse", err), nil
	}
	return diffResult(id, diff)
}

func (s *Server) load(ctx context.Context, request mcp.CallToolRequest) (*domain.Graph, *mcp.CallToolResult) {
	id, err := request.RequireString("canvas_id")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	g, err := s.docs.Load(ctx, id)
	if err != nil {
		return nil, s.toolError("load", err)
	}
	return g, nil
}

// toolError reports err to the agent; only unexpected errors are logged.
func (s *Server) toolError(op string, err error) *mcp.CallToolResult {
	if !errors.Is(err, domain.ErrDocumentNotFound) && !errors.Is(err, domain.ErrNodeNotFound) &&
		!errors.Is(err, domain.ErrUnknownPayload) && !errors.Is(err, domain.ErrClipboardEmpty) {
		s.logger.Error("MCP "+op+" failed", "err", err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
}

func (s *Server) registerResources() {
	// EXPOSE: canvas://{id}
	template := mcp.NewResourceTemplate(ResourceScheme+"{id}", "Canvas Document",
		mcp.WithTemplateDescription("Nodes and edges of a stored canvas"),
		mcp.WithTemplateMIMEType("application/json"),
	)
	s.mcpServer.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI
		id := strings.TrimPrefix(uri, ResourceScheme)
		g, err := s.docs.Load(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load canvas %q: %w", id, err)
		}
		jsonBytes, err := json.Marshal(g)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// -- Helpers --

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func diffResult(canvasID string, diff *domain.GraphDiff) (*mcp.CallToolResult, error) {
	if diff == nil {
		diff = &domain.GraphDiff{CanvasID: canvasID}
	}
	return jsonResult(diff)
}

// stringSlice accepts a JSON array or a comma separated string.
func stringSlice(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	case string:
		if t == "" {
			return nil
		}
		return strings.Split(t, ",")
	}
	return nil
}
