//go:build unix

package runtime

import (
	"errors"

	"github.com/aretw0/hexwire/pkg/domain"
	"golang.org/x/sys/unix"
)

func errnoOf(err error) (unix.Errno, bool) {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno, true
	}
	return 0, false
}

// errnoCode returns the symbolic OS error name, e.g. "ECONNREFUSED".
func errnoCode(err error) string {
	errno, ok := errnoOf(err)
	if !ok {
		return ""
	}
	return unix.ErrnoName(errno)
}

func connectReasonForErrno(err error) (domain.FailureReason, bool) {
	errno, ok := errnoOf(err)
	if !ok {
		return "", false
	}
	switch errno {
	case unix.ECONNREFUSED:
		return domain.ReasonConnectionRefused, true
	case unix.ETIMEDOUT:
		return domain.ReasonConnectionTimedOut, true
	case unix.ENETUNREACH, unix.ENETDOWN:
		return domain.ReasonNetworkUnreachable, true
	case unix.EHOSTUNREACH:
		return domain.ReasonNoRouteToHost, true
	case unix.EHOSTDOWN:
		return domain.ReasonHostUnreachable, true
	case unix.ECONNRESET, unix.ECONNABORTED:
		return domain.ReasonConnectionReset, true
	}
	return "", false
}

func isBrokenPipe(err error) bool {
	errno, ok := errnoOf(err)
	return ok && errno == unix.EPIPE
}

func isReset(err error) bool {
	errno, ok := errnoOf(err)
	return ok && (errno == unix.ECONNRESET || errno == unix.ECONNABORTED)
}
