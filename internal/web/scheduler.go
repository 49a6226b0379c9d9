package web

// scheduler.go sweeps the upload work directory.
//
// Each web run stages its exports and report under WorkDir/bdcrecon-<run id>
// and removes the directory when the response is sent. A crash or kill in
// between leaves the directory behind, so a background job periodically
// removes run directories older than UPLOAD_STALE_AFTER. Individual removal
// failures are logged and never stop the job.

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// workDirPrefix names the per-run staging directories.
const workDirPrefix = "bdcrecon-"

// StartCleanupScheduler sweeps leftover run directories immediately, then
// every CleanupInterval until ctx is cancelled.
func (s *Server) StartCleanupScheduler(ctx context.Context) {
	dir := s.workDir()
	maxAge := s.cfg.Upload.StaleAfter
	slog.Info("cleanup scheduler started",
		"dir", dir,
		"stale_after", maxAge,
		"interval", s.cfg.Upload.CleanupInterval,
	)

	s.runCleanupJob(dir, maxAge)

	ticker := time.NewTicker(s.cfg.Upload.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup scheduler stopped")
			return
		case <-ticker.C:
			s.runCleanupJob(dir, maxAge)
		}
	}
}

// runCleanupJob performs one sweep.
func (s *Server) runCleanupJob(dir string, maxAge time.Duration) {
	start := time.Now()
	removed, err := sweepWorkDirs(dir, maxAge, start)
	if err != nil {
		slog.Error("cleanup failed", "dir", dir, "error", err)
		return
	}
	if removed > 0 {
		slog.Info("removed stale run directories",
			"removed", removed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// sweepWorkDirs removes the run directories under dir last modified before
// now minus maxAge, returning how many were removed. Other entries are left
// alone.
func sweepWorkDirs(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), workDirPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.RemoveAll(path); err != nil {
			slog.Warn("failed to remove stale run directory", "dir", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// workDir is the base directory of the per-run staging directories.
func (s *Server) workDir() string {
	if s.cfg.Upload.WorkDir != "" {
		return s.cfg.Upload.WorkDir
	}
	return os.TempDir()
}
