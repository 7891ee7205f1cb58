package core

import (
	"fmt"
	"os"
	"time"
)

// AtomicWriteConfig controls atomic writing behavior.
type AtomicWriteConfig struct {
	UseFsync       bool   // Force fsync for durability
	TempSuffix     string // Suffix for temporary files
	BackupOriginal bool   // Create a timestamped backup before overwriting
}

// DefaultAtomicConfig provides sensible defaults.
func DefaultAtomicConfig() AtomicWriteConfig {
	return AtomicWriteConfig{
		UseFsync:       false,
		TempSuffix:     ".noctua.tmp",
		BackupOriginal: true,
	}
}

// AtomicWriter writes rendered source to disk without ever leaving a
// half-written file behind: write to a temp file, fsync if asked, then
// rename over the destination. noctua runs single-threaded per the
// semantic core's cooperative model (spec §5), so unlike the teacher's
// AtomicWriter this carries no cross-process file locking.
type AtomicWriter struct {
	config AtomicWriteConfig
}

// NewAtomicWriter creates a new atomic writer.
func NewAtomicWriter(config AtomicWriteConfig) *AtomicWriter {
	return &AtomicWriter{config: config}
}

// WriteFile atomically writes content to path, optionally backing up any
// existing file first.
func (aw *AtomicWriter) WriteFile(path, content string) error {
	info, statErr := os.Stat(path)
	fileMode := os.FileMode(0o644)
	if statErr == nil {
		fileMode = info.Mode()
	}

	if aw.config.BackupOriginal && statErr == nil {
		if err := aw.createBackup(path, fileMode); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tempPath := path + aw.config.TempSuffix
	tempFile, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write content: %w", err)
	}

	if aw.config.UseFsync {
		if err := tempFile.Sync(); err != nil {
			tempFile.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to sync: %w", err)
		}
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to atomic rename: %w", err)
	}

	return nil
}

// createBackup copies path's current contents to a timestamped sibling
// file before it gets overwritten.
func (aw *AtomicWriter) createBackup(path string, perm os.FileMode) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102-150405")
	backupPath := fmt.Sprintf("%s.bak.%s", path, timestamp)

	if perm == 0 {
		perm = 0o644
	}
	return os.WriteFile(backupPath, content, perm)
}
