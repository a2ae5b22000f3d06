package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/hexwire"
	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/aretw0/hexwire/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Sender performs one transaction. *hexwire.Client satisfies it.
type Sender interface {
	Execute(ctx context.Context, req domain.TransactionRequest) domain.TransactionResult
}

// Server exposes a hexwire client and its stores as MCP tools.
type Server struct {
	client    Sender
	logs      ports.LogStore
	crashes   ports.FaultSink
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for tool narration.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(client Sender, logs ports.LogStore, crashes ports.FaultSink, opts ...Option) *Server {
	s := &Server{
		client:    client,
		logs:      logs,
		crashes:   crashes,
		logger:    slog.New(slog.DiscardHandler),
		mcpServer: server.NewMCPServer("hexwire-mcp", strings.TrimSpace(hexwire.Version)),
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

// ServeSSE serves the SSE transport on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

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

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: send_hex_data
	s.mcpServer.AddTool(mcp.NewTool("send_hex_data",
		mcp.WithDescription("Connect to a TCP device, send a hex payload and return the device response as hex."),
		mcp.WithString("host", mcp.Required(), mcp.Description("IPv4 or IPv6 address of the device")),
		mcp.WithNumber("port", mcp.Required(), mcp.Min(0), mcp.Max(65535), mcp.Description("TCP port")),
		mcp.WithString("data", mcp.Required(), mcp.Description(`Whitespace-separated two-digit hex bytes, e.g. "01 03 00 00"`)),
		mcp.WithNumber("timeout_ms", mcp.Min(1), mcp.Max(float64(domain.MaxTimeoutMS)), mcp.Description("Timeout for connect, send and each receive in milliseconds (default 5000)")),
		mcp.WithOutputSchema[SendResult](),
	), mcp.NewStructuredToolHandler(s.handleSend))

	// TOOL: get_logs
	s.mcpServer.AddTool(mcp.NewTool("get_logs",
		mcp.WithDescription("Read today's log entries, newest first."),
		mcp.WithString("level", mcp.Description(`Only return entries of this level (TRACE, DEBUG, INFO, WARN, ERROR or "all")`)),
		mcp.WithNumber("limit", mcp.Min(1), mcp.Description("Maximum number of entries (default 100)")),
		mcp.WithOutputSchema[LogsResult](),
	), mcp.NewStructuredToolHandler(s.handleGetLogs))

	// TOOL: add_log
	s.mcpServer.AddTool(mcp.NewTool("add_log",
		mcp.WithDescription("Append an entry to today's log."),
		mcp.WithString("level", mcp.Required(), mcp.Description("TRACE, DEBUG, INFO, WARN or ERROR")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Log message")),
		mcp.WithString("source", mcp.Description("Component that produced the entry")),
		mcp.WithOutputSchema[AckResult](),
	), mcp.NewStructuredToolHandler(s.handleAddLog))

	// TOOL: clear_logs
	s.mcpServer.AddTool(mcp.NewTool("clear_logs",
		mcp.WithDescription("Remove every entry from today's log."),
		mcp.WithOutputSchema[AckResult](),
	), mcp.NewStructuredToolHandler(s.handleClearLogs))

	// TOOL: get_crash_reports
	s.mcpServer.AddTool(mcp.NewTool("get_crash_reports",
		mcp.WithDescription("List the most recent crash reports, newest first."),
		mcp.WithNumber("limit", mcp.Min(1), mcp.Description("Maximum number of reports (default 10)")),
		mcp.WithOutputSchema[CrashesResult](),
	), mcp.NewStructuredToolHandler(s.handleGetCrashReports))
}

func (s *Server) registerResources() {
	// EXPOSE: hexwire://logs/today
	s.mcpServer.AddResource(mcp.NewResource("hexwire://logs/today", "Today's Log",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries, err := s.logs.Read(ctx, domain.LogQuery{})
		if err != nil {
			return nil, fmt.Errorf("failed to read logs: %w", err)
		}
		jsonBytes, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("failed to encode logs: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "hexwire://logs/today",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
