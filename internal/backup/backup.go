// Package backup keeps timestamped snapshots of the registry file so a bad
// write never loses the tool list.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// keepSnapshots is how many snapshots survive pruning.
const keepSnapshots = 10

// Dir returns the snapshot directory: $XDG_CACHE_HOME/binfetch/backups, with
// ~/.cache as the XDG default.
func Dir() (string, error) {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "binfetch", "backups"), nil
}

// Snapshot copies the registry file at path into the snapshot directory and
// prunes old snapshots down to the retention limit.
func Snapshot(path string) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return snapshotInto(path, dir, time.Now())
}

func snapshotInto(path, dir string, now time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = src.Close() }()

	name := fmt.Sprintf("config-%s.toml", now.UTC().Format("20060102T150405.000000000"))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return prune(dir, keepSnapshots)
}

// prune removes the oldest snapshots, keeping the newest keep of them. The
// timestamped names sort chronologically, so name order is age order.
func prune(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list backup directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to prune snapshot %s: %w", name, err)
		}
	}
	return nil
}
