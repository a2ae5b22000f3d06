package runtime_test

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/hexwire/internal/runtime"
	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs handle for each accepted connection on a loopback listener.
func startServer(t *testing.T, handle func(net.Conn)) (string, uint16) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	t.Cleanup(func() {
		ln.Close()
		wg.Wait()
	})

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer conn.Close()
				handle(conn)
			}()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), uint16(addr.Port)
}

// closedPort returns a loopback port with nothing listening on it.
func closedPort(t *testing.T) uint16 {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint16(ln.Addr().(*net.TCPAddr).Port)
	require.NoError(t, ln.Close())
	return port
}

func echoOnce(conn net.Conn) {
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}
	_, _ = conn.Write(buf[:n])
}

type countingDialer struct {
	calls atomic.Int32
}

func (d *countingDialer) DialContext(ctx context.Context, network, address string, timeout time.Duration) (net.Conn, error) {
	d.calls.Add(1)
	return runtime.NetDialer{}.DialContext(ctx, network, address, timeout)
}

func TestEngine_Echo(t *testing.T) {
	host, port := startServer(t, echoOnce)
	engine := runtime.NewEngine()

	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host:       host,
		Port:       port,
		PayloadHex: "01 02 03 FF",
		Timeout:    time.Second,
	})

	require.Nil(t, res.Failure)
	assert.Equal(t, "01 02 03 ff", res.ResponseHex)
	assert.Equal(t, 4, res.BytesSent)
	assert.Equal(t, 4, res.BytesReceived)
	assert.False(t, res.Truncated)
	assert.True(t, res.OK())
}

func TestEngine_PeerClosesWithoutWriting(t *testing.T) {
	host, port := startServer(t, func(conn net.Conn) {
		buf := make([]byte, 16)
		_, _ = conn.Read(buf)
	})
	engine := runtime.NewEngine()

	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host: host, Port: port, PayloadHex: "aa", Timeout: time.Second,
	})

	require.NotNil(t, res.Failure)
	assert.Equal(t, domain.ReasonEmptyResponse, res.Failure.Reason)
	assert.Equal(t, domain.StageReceiving, res.Failure.Stage)
	assert.ErrorIs(t, res.Err(), domain.ErrEmptyResponse)
	assert.Contains(t, res.Failure.Remediation, "1000ms")
	assert.Equal(t, 1, res.BytesSent)
}

func TestEngine_PeerWritesThenCloses(t *testing.T) {
	host, port := startServer(t, func(conn net.Conn) {
		buf := make([]byte, 16)
		_, _ = conn.Read(buf)
		_, _ = conn.Write([]byte{0xde, 0xad})
	})
	engine := runtime.NewEngine()

	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host: host, Port: port, PayloadHex: "00", Timeout: time.Second,
	})

	require.Nil(t, res.Failure)
	assert.Equal(t, "de ad", res.ResponseHex)
	assert.False(t, res.Truncated)
}

func TestEngine_MultiChunkResponse(t *testing.T) {
	host, port := startServer(t, func(conn net.Conn) {
		buf := make([]byte, 16)
		_, _ = conn.Read(buf)
		_, _ = conn.Write([]byte{0x01})
		time.Sleep(50 * time.Millisecond)
		_, _ = conn.Write([]byte{0x02, 0x03})
	})
	engine := runtime.NewEngine()

	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host: host, Port: port, PayloadHex: "00", Timeout: 500 * time.Millisecond,
	})

	require.Nil(t, res.Failure)
	assert.Equal(t, "01 02 03", res.ResponseHex)
	assert.Equal(t, 3, res.BytesReceived)
}

func TestEngine_IdleTimeoutEndsCollection(t *testing.T) {
	release := make(chan struct{})
	host, port := startServer(t, func(conn net.Conn) {
		buf := make([]byte, 16)
		_, _ = conn.Read(buf)
		_, _ = conn.Write([]byte{0x42})
		<-release
	})
	t.Cleanup(func() { close(release) })
	engine := runtime.NewEngine()

	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host: host, Port: port, PayloadHex: "00", Timeout: 200 * time.Millisecond,
	})

	require.Nil(t, res.Failure)
	assert.Equal(t, "42", res.ResponseHex)
}

func TestEngine_ReceiveTimeout(t *testing.T) {
	release := make(chan struct{})
	host, port := startServer(t, func(conn net.Conn) {
		_, _ = io.Copy(io.Discard, io.LimitReader(conn, 1))
		<-release
	})
	t.Cleanup(func() { close(release) })
	engine := runtime.NewEngine()

	start := time.Now()
	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host: host, Port: port, PayloadHex: "01", Timeout: 200 * time.Millisecond,
	})

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	require.NotNil(t, res.Failure)
	assert.Equal(t, domain.ReasonReceiveTimedOut, res.Failure.Reason)
	assert.ErrorIs(t, res.Err(), domain.ErrReceiveTimedOut)
	assert.Contains(t, res.Failure.Remediation, "200ms")
}

func TestEngine_ConnectionRefused(t *testing.T) {
	port := closedPort(t)
	engine := runtime.NewEngine()

	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host: "127.0.0.1", Port: port, PayloadHex: "01", Timeout: time.Second,
	})

	require.NotNil(t, res.Failure)
	assert.Equal(t, domain.ReasonConnectionRefused, res.Failure.Reason)
	assert.Equal(t, domain.StageConnecting, res.Failure.Stage)
	assert.Equal(t, "127.0.0.1:"+strconv.Itoa(int(port)), res.Failure.Target)
	assert.Contains(t, res.Failure.Remediation, strconv.Itoa(int(port)))
	assert.Contains(t, res.Failure.Remediation, "Suggested actions:")
	assert.NotEmpty(t, res.Failure.OSText)
	assert.Zero(t, res.BytesSent)
}

func TestEngine_ValidationNeverDials(t *testing.T) {
	tests := []struct {
		name   string
		req    domain.TransactionRequest
		reason domain.FailureReason
		stage  domain.Stage
	}{
		{"host is not an ip", domain.TransactionRequest{Host: "not an ip", Port: 80, PayloadHex: "01"}, domain.ReasonAddressFormatInvalid, domain.StageResolving},
		{"empty host", domain.TransactionRequest{Host: "", Port: 80, PayloadHex: "01"}, domain.ReasonAddressFormatInvalid, domain.StageResolving},
		{"port zero", domain.TransactionRequest{Host: "127.0.0.1", Port: 0, PayloadHex: "01"}, domain.ReasonAddressFormatInvalid, domain.StageResolving},
		{"bad token", domain.TransactionRequest{Host: "127.0.0.1", Port: 80, PayloadHex: "01 zz"}, domain.ReasonPayloadFormatInvalid, domain.StageDecoding},
		{"single digit", domain.TransactionRequest{Host: "127.0.0.1", Port: 80, PayloadHex: "1"}, domain.ReasonPayloadFormatInvalid, domain.StageDecoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialer := &countingDialer{}
			engine := runtime.NewEngine(runtime.WithDialer(dialer))

			res := engine.Execute(context.Background(), tt.req)

			require.NotNil(t, res.Failure)
			assert.Equal(t, tt.reason, res.Failure.Reason)
			assert.Equal(t, tt.stage, res.Failure.Stage)
			assert.True(t, res.Failure.Reason.IsValidation())
			assert.Zero(t, dialer.calls.Load())
		})
	}
}

func TestEngine_IPv6Loopback(t *testing.T) {
	ln, err := net.Listen("tcp", "[::1]:0")
	if err != nil {
		t.Skip("IPv6 loopback not available")
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		echoOnce(conn)
	}()

	engine := runtime.NewEngine()
	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host:       "[::1]",
		Port:       uint16(ln.Addr().(*net.TCPAddr).Port),
		PayloadHex: "0a",
		Timeout:    time.Second,
	})

	require.Nil(t, res.Failure)
	assert.Equal(t, "0a", res.ResponseHex)
}

type staticResolver struct {
	addrs []net.IPAddr
	err   error
}

func (r staticResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	return r.addrs, r.err
}

func TestEngine_Resolver(t *testing.T) {
	host, port := startServer(t, echoOnce)

	t.Run("resolves names", func(t *testing.T) {
		engine := runtime.NewEngine(runtime.WithResolver(staticResolver{
			addrs: []net.IPAddr{{IP: net.ParseIP(host)}},
		}))
		res := engine.Execute(context.Background(), domain.TransactionRequest{
			Host: "device.local", Port: port, PayloadHex: "07", Timeout: time.Second,
		})
		require.Nil(t, res.Failure)
		assert.Equal(t, "07", res.ResponseHex)
	})

	t.Run("lookup failure is an address error", func(t *testing.T) {
		dialer := &countingDialer{}
		engine := runtime.NewEngine(
			runtime.WithDialer(dialer),
			runtime.WithResolver(staticResolver{err: errors.New("no such host")}),
		)
		res := engine.Execute(context.Background(), domain.TransactionRequest{
			Host: "device.local", Port: port, PayloadHex: "07", Timeout: time.Second,
		})
		require.NotNil(t, res.Failure)
		assert.Equal(t, domain.ReasonAddressFormatInvalid, res.Failure.Reason)
		assert.Zero(t, dialer.calls.Load())
	})
}

func TestEngine_DefaultTimeout(t *testing.T) {
	engine := runtime.NewEngine(runtime.WithDefaultTimeout(150 * time.Millisecond))
	assert.Equal(t, 150*time.Millisecond, engine.DefaultTimeout())

	release := make(chan struct{})
	host, port := startServer(t, func(conn net.Conn) { <-release })
	t.Cleanup(func() { close(release) })

	start := time.Now()
	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host: host, Port: port, PayloadHex: "01",
	})
	assert.Less(t, time.Since(start), time.Second)
	require.NotNil(t, res.Failure)
	assert.Equal(t, domain.ReasonReceiveTimedOut, res.Failure.Reason)
}

func TestEngine_Cancellation(t *testing.T) {
	release := make(chan struct{})
	host, port := startServer(t, func(conn net.Conn) { <-release })
	t.Cleanup(func() { close(release) })
	engine := runtime.NewEngine()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	res := engine.Execute(ctx, domain.TransactionRequest{
		Host: host, Port: port, PayloadHex: "01", Timeout: 5 * time.Second,
	})

	assert.Less(t, time.Since(start), 2*time.Second)
	require.NotNil(t, res.Failure)
	assert.ErrorIs(t, res.Err(), context.Canceled)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	host, port := startServer(t, echoOnce)

	var mu sync.Mutex
	var stages []domain.Stage
	var done []*domain.TransactionEvent

	hooks := domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			mu.Lock()
			defer mu.Unlock()
			stages = append(stages, e.Stage)
		},
		OnTransactionDone: func(ctx context.Context, e *domain.TransactionEvent) {
			mu.Lock()
			defer mu.Unlock()
			done = append(done, e)
		},
	}
	engine := runtime.NewEngine(runtime.WithLifecycleHooks(hooks))

	res := engine.Execute(context.Background(), domain.TransactionRequest{
		Host: host, Port: port, PayloadHex: "01 02", Timeout: time.Second,
	})
	require.Nil(t, res.Failure)

	assert.Equal(t, []domain.Stage{
		domain.StageDecoding,
		domain.StageResolving,
		domain.StageConnecting,
		domain.StageConfiguringTimeouts,
		domain.StageSending,
		domain.StageReceiving,
		domain.StageEncoding,
		domain.StageSucceeded,
	}, stages)
	require.Len(t, done, 1)
	assert.True(t, done[0].Succeeded())
	assert.Equal(t, 2, done[0].BytesSent)
	assert.Equal(t, 2, done[0].BytesReceived)

	stages = nil
	done = nil
	res = engine.Execute(context.Background(), domain.TransactionRequest{
		Host: host, Port: port, PayloadHex: "xyz",
	})
	require.NotNil(t, res.Failure)
	assert.Equal(t, []domain.Stage{domain.StageDecoding, domain.StageFailed}, stages)
	require.Len(t, done, 1)
	assert.Equal(t, domain.ReasonPayloadFormatInvalid, done[0].Reason)
}

func TestEngine_ConcurrentCalls(t *testing.T) {
	host, port := startServer(t, echoOnce)
	engine := runtime.NewEngine()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			payload := domain.TransactionRequest{
				Host:       host,
				Port:       port,
				PayloadHex: strconv.FormatInt(int64(0x10+b), 16),
				Timeout:    time.Second,
			}
			res := engine.Execute(context.Background(), payload)
			if assert.Nil(t, res.Failure) {
				assert.Equal(t, payload.PayloadHex, res.ResponseHex)
			}
		}(i)
	}
	wg.Wait()
}
