package domain_test

import (
	"context"
	"testing"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestChainHooks(t *testing.T) {
	var calls []string

	a := domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			calls = append(calls, "a:"+string(e.Stage))
		},
	}
	b := domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			calls = append(calls, "b:"+string(e.Stage))
		},
		OnTransactionDone: func(ctx context.Context, e *domain.TransactionEvent) {
			calls = append(calls, "b:done")
		},
	}

	h := domain.ChainHooks(a, domain.LifecycleHooks{}, b)
	h.OnStageEnter(context.Background(), &domain.StageEvent{Stage: domain.StageSending})
	h.OnTransactionDone(context.Background(), &domain.TransactionEvent{})

	assert.Equal(t, []string{"a:sending", "b:sending", "b:done"}, calls)
}

func TestChainHooks_Empty(t *testing.T) {
	h := domain.ChainHooks()
	assert.Nil(t, h.OnStageEnter)
	assert.Nil(t, h.OnTransactionDone)
}
