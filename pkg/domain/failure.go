package domain

import (
	"errors"
	"strings"
)

// FailureReason is the closed set of causes a transaction can fail with.
type FailureReason string

const (
	ReasonAddressFormatInvalid FailureReason = "address_format_invalid"
	ReasonPayloadFormatInvalid FailureReason = "payload_format_invalid"
	ReasonConnectionRefused    FailureReason = "connection_refused"
	ReasonConnectionTimedOut   FailureReason = "connection_timed_out"
	ReasonNetworkUnreachable   FailureReason = "network_unreachable"
	ReasonNoRouteToHost        FailureReason = "no_route_to_host"
	ReasonConnectionReset      FailureReason = "connection_reset"
	ReasonHostUnreachable      FailureReason = "host_unreachable"
	ReasonBrokenPipeOnSend     FailureReason = "broken_pipe_on_send"
	ReasonSendTimedOut         FailureReason = "send_timed_out"
	ReasonReceiveTimedOut      FailureReason = "receive_timed_out"
	ReasonEmptyResponse        FailureReason = "empty_response"
	ReasonOtherIO              FailureReason = "other_io_error"
)

// FailureReasons lists every reason in declaration order.
var FailureReasons = []FailureReason{
	ReasonAddressFormatInvalid,
	ReasonPayloadFormatInvalid,
	ReasonConnectionRefused,
	ReasonConnectionTimedOut,
	ReasonNetworkUnreachable,
	ReasonNoRouteToHost,
	ReasonConnectionReset,
	ReasonHostUnreachable,
	ReasonBrokenPipeOnSend,
	ReasonSendTimedOut,
	ReasonReceiveTimedOut,
	ReasonEmptyResponse,
	ReasonOtherIO,
}

var reasonErrors = map[FailureReason]error{
	ReasonAddressFormatInvalid: ErrAddressFormatInvalid,
	ReasonPayloadFormatInvalid: ErrPayloadFormatInvalid,
	ReasonConnectionRefused:    ErrConnectionRefused,
	ReasonConnectionTimedOut:   ErrConnectionTimedOut,
	ReasonNetworkUnreachable:   ErrNetworkUnreachable,
	ReasonNoRouteToHost:        ErrNoRouteToHost,
	ReasonConnectionReset:      ErrConnectionReset,
	ReasonHostUnreachable:      ErrHostUnreachable,
	ReasonBrokenPipeOnSend:     ErrBrokenPipeOnSend,
	ReasonSendTimedOut:         ErrSendTimedOut,
	ReasonReceiveTimedOut:      ErrReceiveTimedOut,
	ReasonEmptyResponse:        ErrEmptyResponse,
	ReasonOtherIO:              ErrOtherIO,
}

// Err returns the sentinel error for the reason.
func (r FailureReason) Err() error {
	if err, ok := reasonErrors[r]; ok {
		return err
	}
	return ErrOtherIO
}

// IsValidation reports whether the reason is an input error detected before any
// network resource was touched.
func (r FailureReason) IsValidation() bool {
	return r == ReasonAddressFormatInvalid || r == ReasonPayloadFormatInvalid
}

// Failure is a classified transaction failure.
type Failure struct {
	Reason FailureReason
	Stage  Stage
	// Target is the "host:port" the transaction was aimed at.
	Target string
	// OSText is the raw text of the underlying error.
	OSText string
	// Code is the machine-readable OS error kind (e.g. "ECONNREFUSED"), if known.
	Code string
	// Remediation is the multi-line likely-causes / suggested-actions text.
	Remediation string
	Err         error
}

// Error returns a one-line summary.
func (f *Failure) Error() string {
	var sb strings.Builder
	sb.WriteString(f.Reason.Err().Error())
	if f.Code != "" {
		sb.WriteString(" (")
		sb.WriteString(f.Code)
		sb.WriteString(")")
	}
	if f.OSText != "" {
		sb.WriteString(": ")
		sb.WriteString(f.OSText)
	}
	return sb.String()
}

// Detail returns the summary followed by the remediation text, suitable for
// showing to an operator verbatim.
func (f *Failure) Detail() string {
	if f.Remediation == "" {
		return f.Error()
	}
	return f.Error() + "\n\n" + f.Remediation
}

// Unwrap exposes both the reason sentinel and the underlying error.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Reason.Err()}
	}
	return []error{f.Reason.Err(), f.Err}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
