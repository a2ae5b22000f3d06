package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/aretw0/hexwire/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.OnTransactionDone(ctx, &domain.TransactionEvent{BytesSent: 3, BytesReceived: 5, Elapsed: 20 * time.Millisecond})
	hooks.OnTransactionDone(ctx, &domain.TransactionEvent{Reason: domain.ReasonConnectionRefused, Elapsed: time.Millisecond})
	hooks.OnTransactionDone(ctx, &domain.TransactionEvent{Reason: domain.ReasonConnectionRefused})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues("success", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transactions.WithLabelValues("failure", "connection_refused")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BytesSent))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.BytesReceived))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	second, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	second.BytesSent.Add(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(first.BytesSent))
}

func TestDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hooks := domain.ChainHooks(observability.DebugHooks(logger))
	hooks.OnStageEnter(context.Background(), &domain.StageEvent{Stage: domain.StageConnecting, Target: "10.0.0.1:80"})
	hooks.OnTransactionDone(context.Background(), &domain.TransactionEvent{Reason: domain.ReasonEmptyResponse})

	assert.Contains(t, buf.String(), "stage=connecting")
	assert.Contains(t, buf.String(), "reason=empty_response")
}
