package domain

import "time"

// DefaultTimeout applies to connect, send and each receive when a request leaves
// Timeout unset.
const DefaultTimeout = 5000 * time.Millisecond

// MaxTimeout is the largest timeout a request may carry. Longer values are clamped.
const MaxTimeout = 24 * time.Hour

// MaxTimeoutMS is MaxTimeout expressed in milliseconds.
const MaxTimeoutMS = uint64(MaxTimeout / time.Millisecond)

// TimeoutFromMillis converts a millisecond count to a duration, clamped to MaxTimeout.
func TimeoutFromMillis(ms uint64) time.Duration {
	if ms > MaxTimeoutMS {
		return MaxTimeout
	}
	return time.Duration(ms) * time.Millisecond
}

// ReadBufferSize is the size of the buffer each receive call reads into.
const ReadBufferSize = 4096

// Stage is a step of the per-call transaction lifecycle.
type Stage string

const (
	StageIdle                Stage = "idle"
	StageDecoding            Stage = "decoding"
	StageResolving           Stage = "resolving"
	StageConnecting          Stage = "connecting"
	StageConfiguringTimeouts Stage = "configuring_timeouts"
	StageSending             Stage = "sending"
	StageReceiving           Stage = "receiving"
	StageEncoding            Stage = "encoding"
	StageSucceeded           Stage = "succeeded"
	StageFailed              Stage = "failed"
)

// TransactionRequest describes a single exchange with a TCP endpoint.
type TransactionRequest struct {
	Host string
	Port uint16
	// PayloadHex is whitespace-separated two-digit hex bytes, e.g. "01 02 ff".
	PayloadHex string
	// Timeout bounds connect, send and each receive. Zero means the engine default.
	Timeout time.Duration
}

// TransactionResult is the outcome of one exchange. It succeeded iff Failure is nil.
type TransactionResult struct {
	ResponseHex   string
	Failure       *Failure
	BytesSent     int
	BytesReceived int
	Elapsed       time.Duration
	// Truncated is set when a read error other than the idle timeout ended
	// collection after data had already arrived. The result still succeeds.
	Truncated   bool
	TruncatedBy error
}

// OK reports whether the transaction succeeded.
func (r TransactionResult) OK() bool {
	return r.Failure == nil
}

// Err returns the failure as an error, or nil on success.
func (r TransactionResult) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}
