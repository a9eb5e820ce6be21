package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// NextRun returns the first hour:minute strictly after now.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// StartDailyBackup copies src into a timestamped folder under backupDir every day at
// hour:minute and removes backups older than retention. It returns when ctx is done.
func StartDailyBackup(ctx context.Context, src, backupDir string, retention time.Duration, hour, minute int) error {
	for {
		next := NextRun(time.Now(), hour, minute)
		log.Info().Time("next_run", next).Str("src", src).Msg("upload backup scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if dest, err := Backup(src, backupDir, time.Now()); err != nil {
			log.Error().Err(err).Str("src", src).Msg("upload backup failed")
		} else {
			log.Info().Str("dest", dest).Msg("uploads backed up")
		}
		CleanupOldBackups(backupDir, retention, time.Now())
	}
}

// Backup copies src to backupDir/<timestamp> and returns that folder.
func Backup(src, backupDir string, at time.Time) (string, error) {
	dest := filepath.Join(backupDir, at.Format("2006-01-02_15-04-05"))
	return dest, copyDir(src, dest)
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// CleanupOldBackups removes backup folders last modified before now-retention.
func CleanupOldBackups(backupDir string, retention time.Duration, now time.Time) int {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		log.Error().Err(err).Str("dir", backupDir).Msg("read backup directory")
		return 0
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		folder := filepath.Join(backupDir, entry.Name())
		if err := os.RemoveAll(folder); err != nil {
			log.Error().Err(err).Str("dir", folder).Msg("remove old backup")
			continue
		}
		log.Info().Str("dir", folder).Msg("removed old backup")
		removed++
	}
	return removed
}
