package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(min int, level, msg string) domain.LogEntry {
	return domain.LogEntry{
		Time:    time.Date(2026, 10, 17, 9, min, 0, 0, time.Local),
		Level:   level,
		Message: msg,
	}
}

func TestSelectLogs_NewestFirstWithFilterAndLimit(t *testing.T) {
	entries := []domain.LogEntry{
		entryAt(1, domain.LevelInfo, "a"),
		entryAt(2, domain.LevelError, "b"),
		entryAt(3, domain.LevelInfo, "c"),
		entryAt(4, domain.LevelWarn, "d"),
	}

	all := domain.SelectLogs(entries, domain.LogQuery{})
	require.Len(t, all, 4)
	assert.Equal(t, []string{"d", "c", "b", "a"}, messages(all))

	infos := domain.SelectLogs(entries, domain.LogQuery{Level: "info"})
	assert.Equal(t, []string{"c", "a"}, messages(infos))

	allAlias := domain.SelectLogs(entries, domain.LogQuery{Level: "ALL", Limit: 2})
	assert.Equal(t, []string{"d", "c"}, messages(allAlias))
}

func TestSelectLogs_SameTimestampKeepsAppendOrderReversed(t *testing.T) {
	entries := []domain.LogEntry{
		entryAt(1, domain.LevelInfo, "first"),
		entryAt(1, domain.LevelInfo, "second"),
		{Level: domain.LevelInfo, Message: "undated"},
	}

	got := domain.SelectLogs(entries, domain.LogQuery{})
	assert.Equal(t, []string{"second", "first", "undated"}, messages(got))
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, domain.LevelInfo, domain.NormalizeLevel(""))
	assert.Equal(t, domain.LevelWarn, domain.NormalizeLevel("warning"))
	assert.Equal(t, domain.LevelError, domain.NormalizeLevel(" error "))
	assert.Equal(t, domain.LevelDebug, domain.NormalizeLevel("Debug"))
}

func TestLogEntry_JSONTimeLayout(t *testing.T) {
	e := domain.LogEntry{
		Time:    time.Date(2026, 10, 17, 8, 30, 15, 123_000_000, time.Local),
		Level:   domain.LevelWarn,
		Source:  "hexwire::engine",
		Message: "device returned 0 bytes",
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"time":"2026-10-17 08:30:15.123"`)

	var back domain.LogEntry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, e.Time.Equal(back.Time))
	assert.Equal(t, e.Message, back.Message)
}

func messages(entries []domain.LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}
