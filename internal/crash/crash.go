// Package crash turns panics into persisted crash reports.
package crash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/aretw0/hexwire/pkg/ports"
)

// ErrPanic wraps the value recovered by Guard.
var ErrPanic = errors.New("panic")

// Handler records recovered panics into a fault sink.
type Handler struct {
	sink    ports.FaultSink
	logger  *slog.Logger
	repanic bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger logs the location of every persisted report.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRepanic re-raises the panic after it has been recorded.
func WithRepanic(repanic bool) Option {
	return func(h *Handler) {
		h.repanic = repanic
	}
}

// NewHandler creates a Handler for sink.
func NewHandler(sink ports.FaultSink, opts ...Option) *Handler {
	h := &Handler{sink: sink, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Recover must be deferred directly:
//
//	defer h.Recover(ctx)
func (h *Handler) Recover(ctx context.Context) {
	if r := recover(); r != nil {
		h.Report(ctx, r)
		if h.repanic {
			panic(r)
		}
	}
}

// Guard runs fn and converts a panic into an error wrapping ErrPanic.
// With WithRepanic the panic propagates after being recorded.
func (h *Handler) Guard(ctx context.Context, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.Report(ctx, r)
			if h.repanic {
				panic(r)
			}
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}

// Report persists a crash report for the recovered value r. It must be called
// from the deferred function that recovered r so that the panic site is still
// on the stack.
func (h *Handler) Report(ctx context.Context, r any) {
	report := domain.CrashReport{
		Time:     time.Now(),
		Fault:    fmt.Sprint(r),
		Location: panicLocation(),
		Stack:    string(debug.Stack()),
	}
	if err := h.sink.Record(context.WithoutCancel(ctx), report); err != nil {
		h.logger.Error("failed to record crash report", "err", err, "fault", report.Fault)
		return
	}
	h.logger.Error("crash report recorded", "fault", report.Fault, "location", report.Location)
}

// panicLocation returns "file:line" of the frame that called panic, or of the
// runtime fault site for nil dereferences and the like.
func panicLocation() string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	seenPanic := false
	for {
		frame, more := frames.Next()
		if seenPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return fmt.Sprintf("%s:%d (%s)", frame.File, frame.Line, frame.Function)
		}
		if frame.Function == "runtime.gopanic" {
			seenPanic = true
		}
		if !more {
			return ""
		}
	}
}
