package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aretw0/hexwire/pkg/adapters/file"
	"github.com/aretw0/hexwire/pkg/domain"
)

// ListLogs prints today's entries newest first, one formatted line each, or a
// JSON array when asJSON is set.
func ListLogs(ctx context.Context, app *App, q domain.LogQuery, asJSON bool, w io.Writer) error {
	entries, err := app.Logs.Read(ctx, q)
	if err != nil {
		return fmt.Errorf("error reading logs: %w", err)
	}

	if asJSON {
		if entries == nil {
			entries = []domain.LogEntry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		fmt.Fprintln(w, file.FormatLine(e))
	}
	return nil
}

// AddLog appends one entry to today's log.
func AddLog(ctx context.Context, app *App, level, source, message string) error {
	level = domain.NormalizeLevel(level)
	switch level {
	case domain.LevelTrace, domain.LevelDebug, domain.LevelInfo, domain.LevelWarn, domain.LevelError:
	default:
		return fmt.Errorf("unknown level %q", level)
	}
	if strings.TrimSpace(message) == "" {
		return errors.New("message is required")
	}

	entry := domain.LogEntry{Time: time.Now(), Level: level, Source: source, Message: message}
	if err := app.Logs.Append(ctx, entry); err != nil {
		return fmt.Errorf("error appending log: %w", err)
	}
	return nil
}

// ClearLogs truncates today's log.
func ClearLogs(ctx context.Context, app *App, w io.Writer) error {
	if err := app.Logs.Clear(ctx); err != nil {
		return fmt.Errorf("error clearing logs: %w", err)
	}
	printSystemMessage(w, "Logs cleared.")
	return nil
}

// ListCrashes prints the most recent crash report files.
func ListCrashes(ctx context.Context, app *App, limit int, w io.Writer) error {
	files, err := app.Crashes.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("error listing crash reports: %w", err)
	}
	if len(files) == 0 {
		printSystemMessage(w, "No crash reports.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSIZE\tPATH")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", f.ModTime.Format(domain.LogTimeLayout), f.Size, f.Path)
	}
	return tw.Flush()
}
