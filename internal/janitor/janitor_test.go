package janitor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSweep_RemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "old.wav")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	fresh := filepath.Join(dir, "new.wav")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	sub := filepath.Join(dir, "keepdir")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	j := New("*/30 * * * *", time.Hour, dir)
	require.Equal(t, 1, j.Sweep())

	require.NoFileExists(t, stale)
	require.FileExists(t, fresh)
	require.DirExists(t, sub)
}

func TestSweep_MissingDirIsTolerated(t *testing.T) {
	j := New("*/30 * * * *", time.Hour, filepath.Join(t.TempDir(), "nope"))
	require.Equal(t, 0, j.Sweep())
}

func TestStart_InvalidCronExpr(t *testing.T) {
	j := New("not a cron expr", time.Hour, t.TempDir())
	require.Error(t, j.Start())
}

func TestTriggerInfo(t *testing.T) {
	j := New("*/30 * * * *", time.Hour, t.TempDir())
	info, err := j.TriggerInfo()
	require.NoError(t, err)
	require.True(t, info.Next.After(time.Now()))
	require.Positive(t, info.Until)
}
