package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics holds the transaction collectors.
type Metrics struct {
	Transactions  *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	BytesSent     prometheus.Counter
	BytesReceived prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hexwire_transactions_total",
				Help: "Total number of transactions by outcome and failure reason",
			},
			[]string{"outcome", "reason"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hexwire_transaction_duration_seconds",
				Help:    "Duration of transactions from decode to close",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"outcome"},
		),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hexwire_bytes_sent_total",
			Help: "Payload bytes written to devices",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hexwire_bytes_received_total",
			Help: "Response bytes read from devices",
		}),
	}

	var err error
	m.Transactions, err = register(reg, m.Transactions)
	if err != nil {
		return nil, err
	}
	m.Duration, err = register(reg, m.Duration)
	if err != nil {
		return nil, err
	}
	m.BytesSent, err = register(reg, m.BytesSent)
	if err != nil {
		return nil, err
	}
	m.BytesReceived, err = register(reg, m.BytesReceived)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("failed to register metrics: %w", err)
	}
	return c, nil
}

// Observe records one finished transaction.
func (m *Metrics) Observe(e *domain.TransactionEvent) {
	outcome := outcomeSuccess
	if !e.Succeeded() {
		outcome = outcomeFailure
	}
	m.Transactions.WithLabelValues(outcome, string(e.Reason)).Inc()
	m.Duration.WithLabelValues(outcome).Observe(e.Elapsed.Seconds())
	m.BytesSent.Add(float64(e.BytesSent))
	m.BytesReceived.Add(float64(e.BytesReceived))
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransactionDone: func(ctx context.Context, e *domain.TransactionEvent) {
			m.Observe(e)
		},
	}
}
