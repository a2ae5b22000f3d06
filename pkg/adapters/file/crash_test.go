package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/hexwire/pkg/adapters/file"
	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrashSink_Record(t *testing.T) {
	dir := t.TempDir()
	sink, err := file.NewCrashSink(dir)
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 8, 30, 15, 0, time.Local)
	require.NoError(t, sink.Record(context.Background(), domain.CrashReport{
		Time:     at,
		Fault:    "runtime error: index out of range",
		Location: "engine.go:42",
		Stack:    "goroutine 1 [running]:",
	}))

	data, err := os.ReadFile(filepath.Join(dir, "crash_2024-05-01_08-30-15.log"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Crash time: 2024-05-01 08:30:15.000")
	assert.Contains(t, text, "index out of range")
	assert.Contains(t, text, "engine.go:42")
	assert.Contains(t, text, "goroutine 1 [running]:")
}

func TestCrashSink_Recent(t *testing.T) {
	dir := t.TempDir()
	sink, err := file.NewCrashSink(dir)
	require.NoError(t, err)

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, sink.Record(ctx, domain.CrashReport{Time: at, Fault: "boom"}))
		path := filepath.Join(dir, "crash_"+at.Format("2006-01-02_15-04-05")+".log")
		require.NoError(t, os.Chtimes(path, at, at))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

	files, err := sink.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "crash_"+base.Add(2*time.Minute).Format("2006-01-02_15-04-05")+".log", files[0].Name)
	assert.True(t, files[0].ModTime.After(files[1].ModTime))
	assert.Positive(t, files[0].Size)

	all, err := sink.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestNewCrashSink_RequiresDir(t *testing.T) {
	_, err := file.NewCrashSink("")
	assert.ErrorIs(t, err, domain.ErrStoreDirRequired)
}
