package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Wire types for openapi.yaml. They follow the shapes oapi-codegen emits so
// the handlers stay close to a generated server.

type TransactionRequest struct {
	Host      string  `json:"host"`
	Port      int     `json:"port"`
	Data      string  `json:"data"`
	TimeoutMs *uint64 `json:"timeout_ms,omitempty"`
}

type TransactionResponse struct {
	Response      string `json:"response"`
	BytesSent     int    `json:"bytes_sent"`
	BytesReceived int    `json:"bytes_received"`
	ElapsedMs     int64  `json:"elapsed_ms"`
	Truncated     bool   `json:"truncated,omitempty"`
}

type Error struct {
	Message     string `json:"message"`
	Reason      string `json:"reason,omitempty"`
	Stage       string `json:"stage,omitempty"`
	Code        string `json:"code,omitempty"`
	OsError     string `json:"os_error,omitempty"`
	Remediation string `json:"remediation,omitempty"`
}

type AddLogRequest struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

type GetLogsParams struct {
	Level *string `form:"level,omitempty" json:"level,omitempty"`
	Limit *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

type GetCrashReportsParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /transactions)
	SendTransaction(w http.ResponseWriter, r *http.Request)
	// (GET /logs)
	GetLogs(w http.ResponseWriter, r *http.Request, params GetLogsParams)
	// (POST /logs)
	AddLog(w http.ResponseWriter, r *http.Request)
	// (DELETE /logs)
	ClearLogs(w http.ResponseWriter, r *http.Request)
	// (GET /crashes)
	GetCrashReports(w http.ResponseWriter, r *http.Request, params GetCrashReportsParams)
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /info)
	GetInfo(w http.ResponseWriter, r *http.Request)
}

// serverInterfaceWrapper converts contexts to parameters.
type serverInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// GetLogs operation middleware
func (siw *serverInterfaceWrapper) GetLogs(w http.ResponseWriter, r *http.Request) {
	var params GetLogsParams

	if err := runtime.BindQueryParameter("form", true, false, "level", r.URL.Query(), &params.Level); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter level: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter limit: %w", err))
		return
	}

	siw.Handler.GetLogs(w, r, params)
}

// GetCrashReports operation middleware
func (siw *serverInterfaceWrapper) GetCrashReports(w http.ResponseWriter, r *http.Request) {
	var params GetCrashReportsParams

	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("invalid format for parameter limit: %w", err))
		return
	}

	siw.Handler.GetCrashReports(w, r, params)
}

// HandlerFromMux registers every operation of si on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	wrapper := serverInterfaceWrapper{
		Handler: si,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeJSON(w, http.StatusBadRequest, Error{Message: err.Error()})
		},
	}

	r.Post("/transactions", si.SendTransaction)
	r.Get("/logs", wrapper.GetLogs)
	r.Post("/logs", si.AddLog)
	r.Delete("/logs", si.ClearLogs)
	r.Get("/crashes", wrapper.GetCrashReports)
	r.Get("/health", si.GetHealth)
	r.Get("/info", si.GetInfo)

	return r
}
