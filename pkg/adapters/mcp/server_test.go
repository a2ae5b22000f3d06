package mcp

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/aretw0/hexwire"
	"github.com/aretw0/hexwire/pkg/adapters/memory"
	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *memory.LogStore, *memory.FaultSink) {
	t.Helper()
	logs := memory.NewLogStore()
	crashes := memory.NewFaultSink()
	client := hexwire.New(hexwire.WithDefaultTimeout(300 * time.Millisecond))
	return NewServer(client, logs, crashes), logs, crashes
}

func replyOnce(t *testing.T, reply []byte) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 64)
		_, _ = conn.Read(buf)
		_, _ = conn.Write(reply)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func TestHandleSend(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		host, port := replyOnce(t, []byte{0x01, 0x03, 0x02})
		res, err := s.handleSend(ctx, mcp.CallToolRequest{}, SendArgs{Host: host, Port: port, Data: "01 03"})
		require.NoError(t, err)
		assert.Equal(t, "01 03 02", res.Response)
		assert.Equal(t, 2, res.BytesSent)
		assert.Equal(t, 3, res.BytesReceived)
	})

	t.Run("Failure carries remediation", func(t *testing.T) {
		_, err := s.handleSend(ctx, mcp.CallToolRequest{}, SendArgs{Host: "127.0.0.1", Port: 9, Data: "0x01"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid hex payload")
		assert.Contains(t, err.Error(), "Suggested actions:")
	})

	t.Run("Port out of range", func(t *testing.T) {
		_, err := s.handleSend(ctx, mcp.CallToolRequest{}, SendArgs{Host: "127.0.0.1", Port: 70000, Data: "01"})
		assert.ErrorIs(t, err, domain.ErrAddressFormatInvalid)
	})
}

func TestLogTools(t *testing.T) {
	s, logs, _ := newTestServer(t)
	ctx := context.Background()

	ack, err := s.handleAddLog(ctx, mcp.CallToolRequest{}, AddLogArgs{Level: "error", Message: "device offline", Source: "poller"})
	require.NoError(t, err)
	assert.True(t, ack.OK)
	_, err = s.handleAddLog(ctx, mcp.CallToolRequest{}, AddLogArgs{Level: "info", Message: "tick"})
	require.NoError(t, err)

	_, err = s.handleAddLog(ctx, mcp.CallToolRequest{}, AddLogArgs{Level: "shout", Message: "x"})
	assert.ErrorIs(t, err, errUnknownLevel)

	res, err := s.handleGetLogs(ctx, mcp.CallToolRequest{}, LogsArgs{Level: "ERROR"})
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "device offline", res.Entries[0].Message)

	res, err = s.handleGetLogs(ctx, mcp.CallToolRequest{}, LogsArgs{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 1)

	_, err = s.handleClearLogs(ctx, mcp.CallToolRequest{}, struct{}{})
	require.NoError(t, err)
	entries, err := logs.Read(ctx, domain.LogQuery{})
	require.NoError(t, err)
	assert.Empty(t, entries)

	res, err = s.handleGetLogs(ctx, mcp.CallToolRequest{}, LogsArgs{})
	require.NoError(t, err)
	assert.NotNil(t, res.Entries)
}

func TestHandleGetCrashReports(t *testing.T) {
	s, _, crashes := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleGetCrashReports(ctx, mcp.CallToolRequest{}, CrashesArgs{})
	require.NoError(t, err)
	assert.Empty(t, res.Reports)

	require.NoError(t, crashes.Record(ctx, domain.CrashReport{Time: time.Now(), Fault: "index out of range"}))
	res, err = s.handleGetCrashReports(ctx, mcp.CallToolRequest{}, CrashesArgs{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, res.Reports, 1)
}

func TestToolsAreListed(t *testing.T) {
	s, _, _ := newTestServer(t)

	msg := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	for _, name := range []string{"send_hex_data", "get_logs", "add_log", "clear_logs", "get_crash_reports"} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}
