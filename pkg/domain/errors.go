package domain

import "errors"

// Sentinels matched by errors.Is against a *Failure of the same reason.
var (
	ErrAddressFormatInvalid = errors.New("invalid address format")
	ErrPayloadFormatInvalid = errors.New("invalid hex payload")
	ErrConnectionRefused    = errors.New("connection refused")
	ErrConnectionTimedOut   = errors.New("connection timed out")
	ErrNetworkUnreachable   = errors.New("network unreachable")
	ErrNoRouteToHost        = errors.New("no route to host")
	ErrConnectionReset      = errors.New("connection reset")
	ErrHostUnreachable      = errors.New("host unreachable")
	ErrBrokenPipeOnSend     = errors.New("connection broken while sending")
	ErrSendTimedOut         = errors.New("send timed out")
	ErrReceiveTimedOut      = errors.New("receive timed out")
	ErrEmptyResponse        = errors.New("empty response")
	ErrOtherIO              = errors.New("i/o error")
)

// ErrPresetNotFound is returned when a preset name cannot be found in the store.
var ErrPresetNotFound = errors.New("preset not found")

// ErrStoreDirRequired is returned when a file-backed collaborator is built without a directory.
var ErrStoreDirRequired = errors.New("store directory is required")
