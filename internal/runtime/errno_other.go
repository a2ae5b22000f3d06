//go:build !unix

package runtime

import (
	"strings"

	"github.com/aretw0/hexwire/pkg/domain"
)

// Without errno numbers the classifiers fall back to the error text.

func errnoCode(error) string { return "" }

func connectReasonForErrno(error) (domain.FailureReason, bool) { return "", false }

func isBrokenPipe(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "broken pipe")
}

func isReset(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "reset") || strings.Contains(msg, "forcibly closed")
}
