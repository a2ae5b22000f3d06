package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/aretw0/hexwire/pkg/hexcodec"
	"github.com/aretw0/hexwire/pkg/ports"
)

// Engine performs hex-over-TCP transactions.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	dialer         ports.Dialer
	resolver       ports.Resolver
	defaultTimeout time.Duration
	readBufferSize int
	hooks          domain.LifecycleHooks
	logger         *slog.Logger
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithDialer replaces the network dialer.
func WithDialer(d ports.Dialer) EngineOption {
	return func(e *Engine) {
		if d != nil {
			e.dialer = d
		}
	}
}

// WithResolver enables host name resolution for targets that are not IP literals.
// Without it, such targets are rejected as AddressFormatInvalid.
func WithResolver(r ports.Resolver) EngineOption {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithDefaultTimeout sets the timeout used when a request does not carry one.
func WithDefaultTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.defaultTimeout = d
		}
	}
}

// WithReadBufferSize sets the size of the buffer each receive reads into.
func WithReadBufferSize(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.readBufferSize = n
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger used for progress narration.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new engine with dependencies.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		dialer:         NetDialer{},
		defaultTimeout: domain.DefaultTimeout,
		readBufferSize: domain.ReadBufferSize,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultTimeout returns the timeout applied to requests that do not set one.
func (e *Engine) DefaultTimeout() time.Duration {
	return e.defaultTimeout
}

// call carries what one Execute needs to classify and narrate a failure.
type call struct {
	host    string
	port    uint16
	target  string
	timeout time.Duration
}

// Execute runs one connect, send, receive cycle and never panics on network errors.
// Every failure is returned as a classified *domain.Failure inside the result.
func (e *Engine) Execute(ctx context.Context, req domain.TransactionRequest) domain.TransactionResult {
	start := time.Now()
	c := call{
		host:    strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(req.Host), "["), "]"),
		port:    req.Port,
		timeout: req.Timeout,
	}
	if c.timeout <= 0 {
		c.timeout = e.defaultTimeout
	}
	c.target = net.JoinHostPort(c.host, strconv.Itoa(int(c.port)))

	res := e.execute(ctx, c, req.PayloadHex)
	res.Elapsed = time.Since(start)

	if res.Failure != nil {
		e.enter(ctx, domain.StageFailed, c.target)
	} else {
		e.enter(ctx, domain.StageSucceeded, c.target)
		e.logger.Info("transaction complete",
			"target", c.target,
			"sent", res.BytesSent,
			"received", res.BytesReceived,
			"elapsed", res.Elapsed,
			"truncated", res.Truncated,
		)
	}
	e.finish(ctx, c, res)
	return res
}

func (e *Engine) execute(ctx context.Context, c call, payloadHex string) domain.TransactionResult {
	e.logger.Debug("transaction requested", "target", c.target, "timeout", c.timeout)

	// 1. Decode payload
	e.enter(ctx, domain.StageDecoding, c.target)
	payload, err := hexcodec.Decode(payloadHex)
	if err != nil {
		return e.fail(c, domain.StageDecoding, domain.ReasonPayloadFormatInvalid, "", err)
	}
	e.logger.Debug("payload decoded", "bytes", len(payload))

	// 2. Resolve target
	e.enter(ctx, domain.StageResolving, c.target)
	address, err := e.resolve(ctx, c)
	if err != nil {
		return e.fail(c, domain.StageResolving, domain.ReasonAddressFormatInvalid, "", err)
	}

	// 3. Connect with deadline
	e.enter(ctx, domain.StageConnecting, c.target)
	e.logger.Info("connecting", "target", c.target, "address", address)
	dialStart := time.Now()
	conn, err := e.dialer.DialContext(ctx, "tcp", address, c.timeout)
	if err != nil {
		reason, code := classifyConnect(err)
		e.logger.Error("connect failed",
			"target", c.target,
			"local", localNetworkInfo(),
			"elapsed", time.Since(dialStart),
			"code", code,
			"err", err,
		)
		return e.fail(c, domain.StageConnecting, reason, code, e.withCause(ctx, err))
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()
	e.logger.Info("connected",
		"target", c.target,
		"local", conn.LocalAddr().String(),
		"remote", conn.RemoteAddr().String(),
		"elapsed", time.Since(dialStart),
	)

	// 4. Arm socket timeouts
	e.enter(ctx, domain.StageConfiguringTimeouts, c.target)
	if err := conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return e.fail(c, domain.StageConfiguringTimeouts, domain.ReasonOtherIO, errnoCode(err), fmt.Errorf("set write timeout: %w", err))
	}
	if err := conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return e.fail(c, domain.StageConfiguringTimeouts, domain.ReasonOtherIO, errnoCode(err), fmt.Errorf("set read timeout: %w", err))
	}

	// 5. Send payload
	e.enter(ctx, domain.StageSending, c.target)
	sendStart := time.Now()
	sent, err := e.send(conn, payload, c.timeout)
	if err != nil {
		reason, code := classifySend(err)
		e.logger.Error("send failed", "target", c.target, "sent", sent, "elapsed", time.Since(sendStart), "code", code, "err", err)
		res := e.fail(c, domain.StageSending, reason, code, e.withCause(ctx, err))
		res.BytesSent = sent
		return res
	}
	e.logger.Info("payload sent", "target", c.target, "bytes", sent, "elapsed", time.Since(sendStart))

	// 6. Receive response
	e.enter(ctx, domain.StageReceiving, c.target)
	recvStart := time.Now()
	response, truncatedBy, err := e.receive(ctx, conn, c.timeout)
	if err != nil {
		var reason domain.FailureReason
		var code string
		if errors.Is(err, errNoData) {
			reason = domain.ReasonEmptyResponse
			e.logger.Warn("device returned no data", "target", c.target, "elapsed", time.Since(recvStart))
		} else {
			reason, code = classifyReceive(err)
			e.logger.Error("receive failed", "target", c.target, "elapsed", time.Since(recvStart), "code", code, "err", err)
			err = e.withCause(ctx, err)
		}
		res := e.fail(c, domain.StageReceiving, reason, code, err)
		res.BytesSent = sent
		return res
	}
	if truncatedBy != nil {
		e.logger.Warn("response collection ended by read error", "target", c.target, "received", len(response), "err", truncatedBy)
	}
	e.logger.Info("response received", "target", c.target, "bytes", len(response), "elapsed", time.Since(recvStart))

	// 7. Encode and return
	e.enter(ctx, domain.StageEncoding, c.target)
	return domain.TransactionResult{
		ResponseHex:   hexcodec.Encode(response),
		BytesSent:     sent,
		BytesReceived: len(response),
		Truncated:     truncatedBy != nil,
		TruncatedBy:   truncatedBy,
	}
}

// resolve turns host and port into a dialable address. Only IP literals are
// accepted unless a resolver is configured.
func (e *Engine) resolve(ctx context.Context, c call) (string, error) {
	if c.port == 0 {
		return "", fmt.Errorf("invalid port 0 for %q", c.host)
	}
	host := c.host
	if host == "" {
		return "", errors.New("empty host")
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return netip.AddrPortFrom(addr, c.port).String(), nil
	}

	if e.resolver == nil {
		return "", fmt.Errorf("%q is not an IP address", c.host)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	addrs, err := e.resolver.LookupIPAddr(lookupCtx, host)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", host, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("resolve %q: no addresses", host)
	}
	ip := addrs[0]
	e.logger.Debug("host resolved", "host", host, "ip", ip.String(), "candidates", len(addrs))
	return net.JoinHostPort(ip.String(), strconv.Itoa(int(c.port))), nil
}

// send writes the whole payload, re-arming the write deadline for every write.
func (e *Engine) send(conn net.Conn, payload []byte, timeout time.Duration) (int, error) {
	written := 0
	for written < len(payload) {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return written, err
		}
		n, err := conn.Write(payload[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

var errNoData = errors.New("peer sent no data")

// receive reads the first chunk and then keeps reading until the peer stops
// sending. An error on the first read fails the call; later errors only end
// collection. truncatedBy is set when that later error was neither EOF nor the
// idle timeout.
func (e *Engine) receive(ctx context.Context, conn net.Conn, timeout time.Duration) (data []byte, truncatedBy error, err error) {
	buf := make([]byte, e.readBufferSize)

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, nil, err
	}
	n, err := conn.Read(buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, nil, errNoData
		}
		return nil, nil, err
	}
	data = append(data, buf[:n]...)
	e.logger.Debug("received chunk", "bytes", n, "total", len(data))

	for err == nil {
		if err = conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			break
		}
		n, err = conn.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			e.logger.Debug("received chunk", "bytes", n, "total", len(data))
		}
		if n == 0 && err == nil {
			break
		}
	}

	switch {
	case err == nil, errors.Is(err, io.EOF), isTimeout(err):
		return data, nil, nil
	case ctx.Err() != nil:
		return data, ctx.Err(), nil
	default:
		return data, err, nil
	}
}

// withCause attaches the caller's cancellation to err when the context ended.
func (e *Engine) withCause(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil && !errors.Is(err, cerr) {
		return fmt.Errorf("%w (%w)", err, cerr)
	}
	return err
}

func (e *Engine) fail(c call, stage domain.Stage, reason domain.FailureReason, code string, err error) domain.TransactionResult {
	f := &domain.Failure{
		Reason: reason,
		Stage:  stage,
		Target: c.target,
		Code:   code,
		Err:    err,
	}
	if err != nil {
		f.OSText = err.Error()
	}
	f.Remediation = Remediation(f, c.host, c.port, c.timeout)
	if reason.IsValidation() {
		e.logger.Error("invalid transaction input", "target", c.target, "reason", string(reason), "err", err)
	}
	return domain.TransactionResult{Failure: f}
}

func (e *Engine) enter(ctx context.Context, stage domain.Stage, target string) {
	if e.hooks.OnStageEnter == nil {
		return
	}
	e.hooks.OnStageEnter(ctx, &domain.StageEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStageEnter},
		Stage:     stage,
		Target:    target,
	})
}

func (e *Engine) finish(ctx context.Context, c call, res domain.TransactionResult) {
	if e.hooks.OnTransactionDone == nil {
		return
	}
	ev := &domain.TransactionEvent{
		EventBase:     domain.EventBase{Timestamp: time.Now(), Type: domain.EventTransactionDone},
		Target:        c.target,
		BytesSent:     res.BytesSent,
		BytesReceived: res.BytesReceived,
		Elapsed:       res.Elapsed,
		Truncated:     res.Truncated,
	}
	if res.Failure != nil {
		ev.Reason = res.Failure.Reason
	}
	e.hooks.OnTransactionDone(ctx, ev)
}
