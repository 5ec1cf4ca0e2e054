package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sparkyfitness-server/internal/config"
	"sparkyfitness-server/pkg/logger"
)

func newTestService(t *testing.T, dir string, retentionDays int, now time.Time) *Service {
	t.Helper()
	svc := NewService(
		&config.DatabaseConfig{},
		&config.BackupConfig{Dir: dir, RetentionDays: retentionDays},
		logger.Default(),
	)
	svc.now = func() time.Time { return now }
	return svc
}

func writeBackupFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("dump"), 0o644))
}

func TestPrune_RemovesOnlyExpiredArtifacts(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t, dir, 7, now)

	// 10 ежедневных артефактов, из них 3 старше горизонта в 7 дней
	for day := 5; day <= 14; day++ {
		writeBackupFile(t, dir, time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC).Format("sparkyfitness-2006-01-02.dump"))
	}

	removed, err := svc.Prune()
	require.NoError(t, err)
	require.Equal(t, 3, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 7)
	for _, e := range entries {
		require.GreaterOrEqual(t, e.Name(), "sparkyfitness-2025-06-08.dump")
	}
}

func TestPrune_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	svc := newTestService(t, dir, 7, now)

	writeBackupFile(t, dir, "sparkyfitness-2020-01-01.dump")
	writeBackupFile(t, dir, "notes.txt")
	writeBackupFile(t, dir, "sparkyfitness-not-a-date.dump")

	removed, err := svc.Prune()
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "sparkyfitness-not-a-date.dump"))
	require.NoError(t, err)
}

func TestPrune_MissingDirIsNotAnError(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "absent"), 7, time.Now().UTC())

	removed, err := svc.Prune()
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestPrune_BoundaryDayKept(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t, dir, 7, now)

	// Ровно на границе горизонта — файл остаётся
	writeBackupFile(t, dir, "sparkyfitness-2025-06-08.dump")

	removed, err := svc.Prune()
	require.NoError(t, err)
	require.Zero(t, removed)
}
