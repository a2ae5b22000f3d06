package hexwire

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/hexwire/internal/runtime"
	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/aretw0/hexwire/pkg/ports"
)

// Client is the high-level entry point for the hexwire library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Client struct {
	runtime        *runtime.Engine
	dialer         ports.Dialer
	resolver       ports.Resolver
	defaultTimeout time.Duration
	hooks          domain.LifecycleHooks
	logger         *slog.Logger
}

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Client) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDialer injects a custom dialer, e.g. one that goes through a proxy.
func WithDialer(d ports.Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithResolver allows host names in addition to IP literals.
// Pass net.DefaultResolver to use the system resolver.
func WithResolver(r ports.Resolver) Option {
	return func(c *Client) {
		c.resolver = r
	}
}

// WithDefaultTimeout sets the timeout for requests that do not carry one (default: 5s).
func WithDefaultTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.defaultTimeout = d
	}
}

// New initializes a new Client.
func New(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(c.hooks),
		runtime.WithLogger(c.logger),
		runtime.WithDefaultTimeout(c.defaultTimeout),
		runtime.WithDialer(c.dialer),
	}
	if c.resolver != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithResolver(c.resolver))
	}

	c.runtime = runtime.NewEngine(runtimeOpts...)
	return c
}

// Execute performs one transaction. The result carries either the response or a
// classified failure; it is never both.
func (c *Client) Execute(ctx context.Context, req domain.TransactionRequest) domain.TransactionResult {
	return c.runtime.Execute(ctx, req)
}

// Send sends payloadHex to host:port and returns the response as hex text.
// A nil timeoutMS uses the client default. On failure the error is a
// *domain.Failure whose Detail() includes remediation guidance.
func (c *Client) Send(ctx context.Context, host string, port uint16, payloadHex string, timeoutMS *uint64) (string, error) {
	req := domain.TransactionRequest{
		Host:       host,
		Port:       port,
		PayloadHex: payloadHex,
	}
	if timeoutMS != nil {
		req.Timeout = domain.TimeoutFromMillis(*timeoutMS)
	}

	res := c.runtime.Execute(ctx, req)
	if res.Failure != nil {
		return "", res.Failure
	}
	return res.ResponseHex, nil
}

// DefaultTimeout returns the timeout applied when a request does not set one.
func (c *Client) DefaultTimeout() time.Duration {
	return c.runtime.DefaultTimeout()
}
