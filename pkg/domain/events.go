package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStageEnter      EventType = "stage_enter"
	EventTransactionDone EventType = "transaction_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StageEvent is emitted each time a transaction enters a lifecycle stage.
type StageEvent struct {
	EventBase
	Stage  Stage  `json:"stage"`
	Target string `json:"target,omitempty"`
}

// TransactionEvent is emitted once per transaction, after the connection is closed.
type TransactionEvent struct {
	EventBase
	Target        string        `json:"target,omitempty"`
	Reason        FailureReason `json:"reason,omitempty"`
	BytesSent     int           `json:"bytes_sent"`
	BytesReceived int           `json:"bytes_received"`
	Elapsed       time.Duration `json:"elapsed"`
	Truncated     bool          `json:"truncated,omitempty"`
}

// Succeeded reports whether the transaction ended without a failure reason.
func (e *TransactionEvent) Succeeded() bool {
	return e.Reason == ""
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStageEnter      func(context.Context, *StageEvent)
	OnTransactionDone func(context.Context, *TransactionEvent)
}

// ChainHooks fans each callback out to every non-nil callback of hooks, in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range hooks {
		h := h
		if h.OnStageEnter != nil {
			prev := out.OnStageEnter
			out.OnStageEnter = func(ctx context.Context, e *StageEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnStageEnter(ctx, e)
			}
		}
		if h.OnTransactionDone != nil {
			prev := out.OnTransactionDone
			out.OnTransactionDone = func(ctx context.Context, e *TransactionEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnTransactionDone(ctx, e)
			}
		}
	}
	return out
}
