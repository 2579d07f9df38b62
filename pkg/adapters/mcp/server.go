package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/calcgame/internal/logging"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/input"
	"github.com/aretw0/calcgame/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// CatalogURI is the resource listing operators and functions.
const CatalogURI = "calcgame://catalog"

// ViewResponse is returned by every session tool. A rejected operation
// (formula error, nothing to undo) still reports the view it left, with the
// reason in Error.
type ViewResponse struct {
	SessionID string      `json:"session_id" jsonschema_description:"The session the view belongs to"`
	View      domain.View `json:"view" jsonschema_description:"What the calculator shows"`
	Error     string      `json:"error,omitempty" jsonschema_description:"Why the operation was rejected, if it was"`
}

// SessionArgs selects a session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// PressArgs types text on a session.
type PressArgs struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// EvaluateArgs evaluates a formula outside any session.
type EvaluateArgs struct {
	Source string                   `json:"source"`
	Vars   map[string]domain.Number `json:"vars,omitempty"`
}

// Server exposes a ports.GameService as an MCP server.
type Server struct {
	service   ports.GameService
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server for service.
func NewServer(service ports.GameService, version string, opts ...Option) *Server {
	s := &Server{
		service:   service,
		mcpServer: server.NewMCPServer("calcgame-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
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

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("new_session",
		mcp.WithDescription("Start a new calculator game and return its session ID."),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleNewSession))

	s.mcpServer.AddTool(mcp.NewTool("view",
		mcp.WithDescription("Show the screen, the money and the undo state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.session(s.service.View)))

	s.mcpServer.AddTool(mcp.NewTool("press",
		mcp.WithDescription("Type text on the calculator, e.g. digits, operators or a function name."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to append to the screen")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handlePress))

	s.mcpServer.AddTool(mcp.NewTool("clear",
		mcp.WithDescription("Reset the screen to 0."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.session(s.service.Clear)))

	s.mcpServer.AddTool(mcp.NewTool("calculate",
		mcp.WithDescription("Evaluate the screen. Each operation in a valid formula earns one coin; an invalid one resets the screen."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.session(s.service.Calculate)))

	s.mcpServer.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Revert the last step."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.session(s.service.Undo)))

	s.mcpServer.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Re-apply the last undone step."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.session(s.service.Redo)))

	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate a formula without touching any session. Numbers in vars are [real, imaginary] string pairs."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Formula, e.g. 2*x+sqrt(-1)")),
		mcp.WithObject("vars", mcp.Description("Variable bindings")),
		mcp.WithOutputSchema[domain.Evaluation](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))
}

func (s *Server) handleNewSession(ctx context.Context, _ mcp.CallToolRequest, _ SessionArgs) (ViewResponse, error) {
	id, view, err := s.service.Create(ctx)
	if err != nil {
		return ViewResponse{}, fmt.Errorf("create failed: %w", err)
	}
	return ViewResponse{SessionID: id, View: view}, nil
}

func (s *Server) handlePress(ctx context.Context, _ mcp.CallToolRequest, args PressArgs) (ViewResponse, error) {
	text, err := input.Sanitize(args.Text)
	if err != nil {
		s.logger.Warn("MCP press: input rejected", "err", err, "size", len(args.Text))
		return ViewResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.respond(ctx, args.SessionID, func(ctx context.Context, id string) (domain.View, error) {
		return s.service.Press(ctx, id, text)
	})
}

// session adapts a body-less session operation into a tool handler.
func (s *Server) session(op func(context.Context, string) (domain.View, error)) func(context.Context, mcp.CallToolRequest, SessionArgs) (ViewResponse, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (ViewResponse, error) {
		return s.respond(ctx, args.SessionID, op)
	}
}

func (s *Server) respond(ctx context.Context, id string, op func(context.Context, string) (domain.View, error)) (ViewResponse, error) {
	if id == "" {
		return ViewResponse{}, domain.ErrInvalidSessionID
	}
	view, err := op(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return ViewResponse{}, err
		}
		if view == (domain.View{}) {
			return ViewResponse{}, err
		}
		return ViewResponse{SessionID: id, View: view, Error: err.Error()}, nil
	}
	return ViewResponse{SessionID: id, View: view}, nil
}

func (s *Server) handleEvaluate(ctx context.Context, _ mcp.CallToolRequest, args EvaluateArgs) (domain.Evaluation, error) {
	source, err := input.Sanitize(args.Source)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.service.Evaluate(ctx, source, args.Vars)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Operators and functions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.service.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
