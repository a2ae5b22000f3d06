package runtime

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"

	"github.com/aretw0/hexwire/pkg/domain"
)

// classifyConnect maps a dial error onto a failure reason. The OS error number
// wins when it is available, then timeouts, then the error text.
func classifyConnect(err error) (domain.FailureReason, string) {
	code := errnoCode(err)
	if reason, ok := connectReasonForErrno(err); ok {
		return reason, code
	}
	if isTimeout(err) {
		return domain.ReasonConnectionTimedOut, code
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "refused"):
		return domain.ReasonConnectionRefused, code
	case strings.Contains(msg, "timed out"), strings.Contains(msg, "timeout"):
		return domain.ReasonConnectionTimedOut, code
	case strings.Contains(msg, "network is unreachable"), strings.Contains(msg, "network unreachable"):
		return domain.ReasonNetworkUnreachable, code
	case strings.Contains(msg, "no route"):
		return domain.ReasonNoRouteToHost, code
	case strings.Contains(msg, "host is down"), strings.Contains(msg, "host unreachable"), strings.Contains(msg, "host is unreachable"):
		return domain.ReasonHostUnreachable, code
	case strings.Contains(msg, "reset"), strings.Contains(msg, "aborted"):
		return domain.ReasonConnectionReset, code
	}
	return domain.ReasonOtherIO, code
}

// classifySend maps a write error onto a failure reason.
func classifySend(err error) (domain.FailureReason, string) {
	code := errnoCode(err)
	if isBrokenPipe(err) {
		return domain.ReasonBrokenPipeOnSend, code
	}
	if isTimeout(err) {
		return domain.ReasonSendTimedOut, code
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "broken pipe") {
		return domain.ReasonBrokenPipeOnSend, code
	}
	return domain.ReasonOtherIO, code
}

// classifyReceive maps an error from the first read onto a failure reason.
func classifyReceive(err error) (domain.FailureReason, string) {
	code := errnoCode(err)
	if isTimeout(err) {
		return domain.ReasonReceiveTimedOut, code
	}
	if isReset(err) {
		return domain.ReasonConnectionReset, code
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection reset") {
		return domain.ReasonConnectionReset, code
	}
	return domain.ReasonOtherIO, code
}

// isTimeout reports whether err is a deadline expiry. A cancelled context is
// not a timeout.
func isTimeout(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
