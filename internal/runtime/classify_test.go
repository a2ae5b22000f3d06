//go:build unix

package runtime

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func opErr(op string, errno syscall.Errno) error {
	return &net.OpError{Op: op, Net: "tcp", Err: os.NewSyscallError(op, errno)}
}

func TestClassifyConnect(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason domain.FailureReason
		code   string
	}{
		{"refused", opErr("connect", syscall.ECONNREFUSED), domain.ReasonConnectionRefused, "ECONNREFUSED"},
		{"timed out", opErr("connect", syscall.ETIMEDOUT), domain.ReasonConnectionTimedOut, "ETIMEDOUT"},
		{"network unreachable", opErr("connect", syscall.ENETUNREACH), domain.ReasonNetworkUnreachable, "ENETUNREACH"},
		{"no route", opErr("connect", syscall.EHOSTUNREACH), domain.ReasonNoRouteToHost, "EHOSTUNREACH"},
		{"host down", opErr("connect", syscall.EHOSTDOWN), domain.ReasonHostUnreachable, "EHOSTDOWN"},
		{"reset", opErr("connect", syscall.ECONNRESET), domain.ReasonConnectionReset, "ECONNRESET"},
		{"deadline", &net.OpError{Op: "dial", Err: os.ErrDeadlineExceeded}, domain.ReasonConnectionTimedOut, ""},
		{"text only", errors.New("dial tcp: No route to host"), domain.ReasonNoRouteToHost, ""},
		{"unknown", errors.New("something odd"), domain.ReasonOtherIO, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, code := classifyConnect(tt.err)
			assert.Equal(t, tt.reason, reason)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestClassifySend(t *testing.T) {
	reason, code := classifySend(opErr("write", syscall.EPIPE))
	assert.Equal(t, domain.ReasonBrokenPipeOnSend, reason)
	assert.Equal(t, "EPIPE", code)

	reason, code = classifySend(opErr("write", syscall.ECONNRESET))
	assert.Equal(t, domain.ReasonOtherIO, reason, "a reset during send is not a broken pipe")
	assert.Equal(t, "ECONNRESET", code)

	reason, _ = classifySend(fmt.Errorf("write: %w", os.ErrDeadlineExceeded))
	assert.Equal(t, domain.ReasonSendTimedOut, reason)

	reason, _ = classifySend(errors.New("write: use of closed network connection"))
	assert.Equal(t, domain.ReasonOtherIO, reason)
}

func TestClassifyReceive(t *testing.T) {
	reason, _ := classifyReceive(&net.OpError{Op: "read", Err: os.ErrDeadlineExceeded})
	assert.Equal(t, domain.ReasonReceiveTimedOut, reason)

	reason, code := classifyReceive(opErr("read", syscall.ECONNRESET))
	assert.Equal(t, domain.ReasonConnectionReset, reason)
	assert.Equal(t, "ECONNRESET", code)

	reason, _ = classifyReceive(errors.New("read: bad file descriptor"))
	assert.Equal(t, domain.ReasonOtherIO, reason)
}

func TestRemediation(t *testing.T) {
	t.Run("well-known port is named", func(t *testing.T) {
		f := &domain.Failure{Reason: domain.ReasonConnectionRefused, Stage: domain.StageConnecting}
		text := Remediation(f, "10.0.0.5", 502, time.Second)
		assert.Contains(t, text, "port 502 of 10.0.0.5")

		text = Remediation(f, "10.0.0.5", 443, time.Second)
		assert.Contains(t, text, "HTTPS")
	})

	t.Run("every reason has actions", func(t *testing.T) {
		for _, r := range domain.FailureReasons {
			f := &domain.Failure{Reason: r, Stage: domain.StageConnecting}
			assert.Contains(t, Remediation(f, "10.0.0.5", 9000, time.Second), "Suggested actions:\n- ", r)
		}
	})

	t.Run("reset while receiving differs from reset while connecting", func(t *testing.T) {
		connecting := Remediation(&domain.Failure{Reason: domain.ReasonConnectionReset, Stage: domain.StageConnecting}, "h", 1, time.Second)
		receiving := Remediation(&domain.Failure{Reason: domain.ReasonConnectionReset, Stage: domain.StageReceiving}, "h", 1, time.Second)
		assert.NotEqual(t, connecting, receiving)
	})
}

func TestLocalNetworkInfo(t *testing.T) {
	assert.NotEmpty(t, localNetworkInfo())
}
