/*
Package mcp exposes hexwire as a Model Context Protocol server.

Tools:

  - send_hex_data: one transaction; failures come back as tool errors carrying
    the remediation text.
  - get_logs, add_log, clear_logs: today's log store.
  - get_crash_reports: the most recent crash report files.

Both stdio and SSE transports are supported.
*/
package mcp
