package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultCrashLimit = 10

// SendArgs are the arguments of send_hex_data.
type SendArgs struct {
	Host      string  `json:"host"`
	Port      int     `json:"port"`
	Data      string  `json:"data"`
	TimeoutMS *uint64 `json:"timeout_ms,omitempty"`
}

// SendResult is the structured output of send_hex_data.
type SendResult struct {
	Response      string `json:"response" jsonschema_description:"Device response as space-separated hex bytes"`
	BytesSent     int    `json:"bytes_sent"`
	BytesReceived int    `json:"bytes_received"`
	ElapsedMS     int64  `json:"elapsed_ms"`
	Truncated     bool   `json:"truncated,omitempty" jsonschema_description:"Collection stopped on a read error after data had arrived"`
}

// LogsArgs are the arguments of get_logs.
type LogsArgs struct {
	Level string `json:"level,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// LogsResult is the structured output of get_logs.
type LogsResult struct {
	Entries []domain.LogEntry `json:"entries"`
}

// AddLogArgs are the arguments of add_log.
type AddLogArgs struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

// AckResult acknowledges a mutation.
type AckResult struct {
	OK bool `json:"ok"`
}

// CrashesArgs are the arguments of get_crash_reports.
type CrashesArgs struct {
	Limit int `json:"limit,omitempty"`
}

// CrashesResult is the structured output of get_crash_reports.
type CrashesResult struct {
	Reports []domain.CrashFile `json:"reports"`
}

var errUnknownLevel = errors.New("unknown level")

func (s *Server) handleSend(ctx context.Context, request mcp.CallToolRequest, args SendArgs) (SendResult, error) {
	if args.Port < 0 || args.Port > 65535 {
		return SendResult{}, fmt.Errorf("%w: port %d out of range", domain.ErrAddressFormatInvalid, args.Port)
	}

	req := domain.TransactionRequest{
		Host:       args.Host,
		Port:       uint16(args.Port),
		PayloadHex: args.Data,
	}
	if args.TimeoutMS != nil {
		req.Timeout = domain.TimeoutFromMillis(*args.TimeoutMS)
	}

	res := s.client.Execute(ctx, req)
	if res.Failure != nil {
		s.logger.Warn("MCP send_hex_data failed", "target", res.Failure.Target, "reason", res.Failure.Reason)
		return SendResult{}, errors.New(res.Failure.Detail())
	}

	return SendResult{
		Response:      res.ResponseHex,
		BytesSent:     res.BytesSent,
		BytesReceived: res.BytesReceived,
		ElapsedMS:     res.Elapsed.Milliseconds(),
		Truncated:     res.Truncated,
	}, nil
}

func (s *Server) handleGetLogs(ctx context.Context, request mcp.CallToolRequest, args LogsArgs) (LogsResult, error) {
	entries, err := s.logs.Read(ctx, domain.LogQuery{Level: args.Level, Limit: args.Limit})
	if err != nil {
		return LogsResult{}, fmt.Errorf("read logs: %w", err)
	}
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	return LogsResult{Entries: entries}, nil
}

func (s *Server) handleAddLog(ctx context.Context, request mcp.CallToolRequest, args AddLogArgs) (AckResult, error) {
	level := domain.NormalizeLevel(args.Level)
	switch level {
	case domain.LevelTrace, domain.LevelDebug, domain.LevelInfo, domain.LevelWarn, domain.LevelError:
	default:
		return AckResult{}, fmt.Errorf("%w %q", errUnknownLevel, args.Level)
	}
	if strings.TrimSpace(args.Message) == "" {
		return AckResult{}, errors.New("message is required")
	}

	entry := domain.LogEntry{
		Time:    time.Now(),
		Level:   level,
		Source:  args.Source,
		Message: args.Message,
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		return AckResult{}, fmt.Errorf("append log: %w", err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleClearLogs(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (AckResult, error) {
	if err := s.logs.Clear(ctx); err != nil {
		return AckResult{}, fmt.Errorf("clear logs: %w", err)
	}
	return AckResult{OK: true}, nil
}

func (s *Server) handleGetCrashReports(ctx context.Context, request mcp.CallToolRequest, args CrashesArgs) (CrashesResult, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = defaultCrashLimit
	}
	files, err := s.crashes.Recent(ctx, limit)
	if err != nil {
		return CrashesResult{}, fmt.Errorf("list crash reports: %w", err)
	}
	if files == nil {
		files = []domain.CrashFile{}
	}
	return CrashesResult{Reports: files}, nil
}
