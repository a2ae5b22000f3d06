package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/hexwire/pkg/domain"
)

// DebugHooks narrates every stage transition at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			logger.DebugContext(ctx, "Enter Stage", "stage", e.Stage, "target", e.Target)
		},
		OnTransactionDone: func(ctx context.Context, e *domain.TransactionEvent) {
			if e.Succeeded() {
				logger.DebugContext(ctx, "Transaction Done", "target", e.Target, "elapsed", e.Elapsed)
			} else {
				logger.DebugContext(ctx, "Transaction Done (Failure)", "target", e.Target, "reason", e.Reason, "elapsed", e.Elapsed)
			}
		},
	}
}
