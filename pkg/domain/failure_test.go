package domain_test

import (
	"errors"
	"syscall"
	"testing"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestFailure_ErrorsIs(t *testing.T) {
	f := &domain.Failure{
		Reason: domain.ReasonConnectionRefused,
		Stage:  domain.StageConnecting,
		OSText: "connect: connection refused",
		Code:   "ECONNREFUSED",
		Err:    syscall.ECONNREFUSED,
	}

	var err error = f
	assert.ErrorIs(t, err, domain.ErrConnectionRefused)
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
	assert.NotErrorIs(t, err, domain.ErrConnectionTimedOut)

	got, ok := domain.AsFailure(err)
	assert.True(t, ok)
	assert.Same(t, f, got)
}

func TestFailure_Messages(t *testing.T) {
	f := &domain.Failure{
		Reason:      domain.ReasonReceiveTimedOut,
		OSText:      "read tcp: i/o timeout",
		Code:        "ETIMEDOUT",
		Remediation: "Likely causes:\n1. slow device",
	}

	assert.Equal(t, "receive timed out (ETIMEDOUT): read tcp: i/o timeout", f.Error())
	assert.Equal(t, f.Error()+"\n\nLikely causes:\n1. slow device", f.Detail())

	bare := &domain.Failure{Reason: domain.ReasonEmptyResponse}
	assert.Equal(t, "empty response", bare.Error())
	assert.Equal(t, "empty response", bare.Detail())
}

func TestFailureReason_Taxonomy(t *testing.T) {
	assert.Len(t, domain.FailureReasons, 13)

	seen := map[error]bool{}
	for _, r := range domain.FailureReasons {
		err := r.Err()
		assert.False(t, seen[err], "sentinel reused for %s", r)
		seen[err] = true
	}

	assert.True(t, domain.ReasonPayloadFormatInvalid.IsValidation())
	assert.True(t, domain.ReasonAddressFormatInvalid.IsValidation())
	assert.False(t, domain.ReasonConnectionRefused.IsValidation())
	assert.Equal(t, domain.ErrOtherIO, domain.FailureReason("bogus").Err())
}

func TestTransactionResult_Err(t *testing.T) {
	ok := domain.TransactionResult{ResponseHex: "de ad"}
	assert.True(t, ok.OK())
	assert.NoError(t, ok.Err())

	failed := domain.TransactionResult{Failure: &domain.Failure{Reason: domain.ReasonEmptyResponse}}
	assert.False(t, failed.OK())
	assert.True(t, errors.Is(failed.Err(), domain.ErrEmptyResponse))
}
