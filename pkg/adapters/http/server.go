package http

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
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sender performs one transaction. *hexwire.Client satisfies it.
type Sender interface {
	Execute(ctx context.Context, req domain.TransactionRequest) domain.TransactionResult
}

// PanicReporter persists a recovered panic. *crash.Handler satisfies it.
type PanicReporter interface {
	Report(ctx context.Context, r any)
}

// Server implements ServerInterface.
type Server struct {
	Client  Sender
	Logs    ports.LogStore
	Crashes ports.FaultSink
	Logger  *slog.Logger
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

type handlerConfig struct {
	gatherer prometheus.Gatherer
	reporter PanicReporter
}

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerConfig)

// WithMetrics serves the collectors of g on /metrics.
func WithMetrics(g prometheus.Gatherer) HandlerOption {
	return func(c *handlerConfig) {
		c.gatherer = g
	}
}

// WithPanicReporter records handler panics before answering 500.
func WithPanicReporter(r PanicReporter) HandlerOption {
	return func(c *handlerConfig) {
		c.reporter = r
	}
}

// NewHandler creates the HTTP handler for server.
func NewHandler(server *Server, opts ...HandlerOption) (http.Handler, error) {
	cfg := handlerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if server.Logger == nil {
		server.Logger = slog.New(slog.DiscardHandler)
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validator, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(recoverer(cfg.reporter, server.Logger))
	r.Use(corsMiddleware)
	r.Use(validator)

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})

	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	return HandlerFromMux(server, r), nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>hexwire API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// SendTransaction handles the POST /transactions request.
func (s *Server) SendTransaction(w http.ResponseWriter, r *http.Request) {
	var body TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}
	if body.Port < 0 || body.Port > 65535 {
		writeJSON(w, http.StatusBadRequest, Error{
			Message: fmt.Sprintf("port %d out of range", body.Port),
			Reason:  string(domain.ReasonAddressFormatInvalid),
		})
		return
	}

	req := domain.TransactionRequest{
		Host:       body.Host,
		Port:       uint16(body.Port),
		PayloadHex: body.Data,
	}
	if body.TimeoutMs != nil {
		req.Timeout = domain.TimeoutFromMillis(*body.TimeoutMs)
	}

	res := s.Client.Execute(r.Context(), req)
	if res.Failure != nil {
		status := http.StatusBadGateway
		if res.Failure.Reason.IsValidation() {
			status = http.StatusBadRequest
		}
		s.Logger.Warn("transaction failed", "target", res.Failure.Target, "reason", res.Failure.Reason, "error", res.Failure)
		writeJSON(w, status, failureBody(res.Failure))
		return
	}

	writeJSON(w, http.StatusOK, TransactionResponse{
		Response:      res.ResponseHex,
		BytesSent:     res.BytesSent,
		BytesReceived: res.BytesReceived,
		ElapsedMs:     res.Elapsed.Milliseconds(),
		Truncated:     res.Truncated,
	})
}

// GetLogs handles the GET /logs request.
func (s *Server) GetLogs(w http.ResponseWriter, r *http.Request, params GetLogsParams) {
	q := domain.LogQuery{}
	if params.Level != nil {
		q.Level = *params.Level
	}
	if params.Limit != nil {
		q.Limit = *params.Limit
	}

	entries, err := s.Logs.Read(r.Context(), q)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Error{Message: fmt.Sprintf("read logs: %v", err)})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// AddLog handles the POST /logs request.
func (s *Server) AddLog(w http.ResponseWriter, r *http.Request) {
	var body AddLogRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	level := domain.NormalizeLevel(body.Level)
	if !validLevel(level) {
		writeJSON(w, http.StatusBadRequest, Error{Message: fmt.Sprintf("unknown level %q", body.Level)})
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		writeJSON(w, http.StatusBadRequest, Error{Message: "message is required"})
		return
	}

	entry := domain.LogEntry{
		Time:    time.Now(),
		Level:   level,
		Source:  body.Source,
		Message: body.Message,
	}
	if err := s.Logs.Append(r.Context(), entry); err != nil {
		writeJSON(w, http.StatusInternalServerError, Error{Message: fmt.Sprintf("append log: %v", err)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearLogs handles the DELETE /logs request.
func (s *Server) ClearLogs(w http.ResponseWriter, r *http.Request) {
	if err := s.Logs.Clear(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, Error{Message: fmt.Sprintf("clear logs: %v", err)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCrashReports handles the GET /crashes request.
func (s *Server) GetCrashReports(w http.ResponseWriter, r *http.Request, params GetCrashReportsParams) {
	limit := 10
	if params.Limit != nil {
		limit = *params.Limit
	}

	files, err := s.Crashes.Recent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Error{Message: fmt.Sprintf("list crash reports: %v", err)})
		return
	}
	if files == nil {
		files = []domain.CrashFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "hexwire",
		"version": strings.TrimSpace(hexwire.Version),
	})
}

// -- Helpers --

func failureBody(f *domain.Failure) Error {
	return Error{
		Message:     f.Error(),
		Reason:      string(f.Reason),
		Stage:       string(f.Stage),
		Code:        f.Code,
		OsError:     f.OSText,
		Remediation: f.Remediation,
	}
}

func validLevel(level string) bool {
	switch level {
	case domain.LevelTrace, domain.LevelDebug, domain.LevelInfo, domain.LevelWarn, domain.LevelError:
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("encode response failed", "error", err)
	}
}
