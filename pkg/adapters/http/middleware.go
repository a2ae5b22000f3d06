package http

import (
	"log/slog"
	"net/http"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverer answers 500 when a handler panics and hands the panic to reporter.
func recoverer(reporter PanicReporter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("handler panicked", "method", r.Method, "path", r.URL.Path, "panic", rec)
				if reporter != nil {
					reporter.Report(r.Context(), rec)
				}
				writeJSON(w, http.StatusInternalServerError, Error{Message: "internal server error"})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
