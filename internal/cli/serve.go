package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/hexwire/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/hexwire/pkg/adapters/mcp"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the HTTP API for app.
func NewHTTPHandler(app *App) (http.Handler, error) {
	return httpAdapter.NewHandler(&httpAdapter.Server{
		Client:  app.Client,
		Logs:    app.Logs,
		Crashes: app.Crashes,
		Logger:  app.Logger,
	},
		httpAdapter.WithMetrics(app.Registry),
		httpAdapter.WithPanicReporter(app.Crash),
	)
}

// Serve runs the HTTP API on ln until ctx is cancelled.
func Serve(ctx context.Context, app *App, ln net.Listener, out io.Writer) error {
	handler, err := NewHTTPHandler(app)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("HTTP server listening", "address", ln.Addr().String())
		printSystemMessage(out, "Serving hexwire API on %s", ln.Addr())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		printSystemMessage(out, "Server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP server over transport ("stdio" or "sse").
func ServeMCP(ctx context.Context, app *App, transport string, port int) error {
	srv := mcpAdapter.NewServer(app.Client, app.Logs, app.Crashes, mcpAdapter.WithLogger(app.Logger))

	switch transport {
	case "stdio":
		app.Logger.Info("Starting hexwire MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		app.Logger.Info("Starting hexwire MCP server (SSE)", "port", port)
		err := srv.ServeSSE(ctx, port)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown transport %q: supported transports are stdio and sse", transport)
	}
}
