package update

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Install places the extracted binary at destDir/destName. The binary is
// written to a temporary file inside destDir, made executable, then renamed
// over any existing file, so a concurrent reader of the destination sees
// either the old file or the new one, never a partial write. The temporary
// file is removed on every failure path.
func Install(bin *ExtractedBinary, destDir, destName string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", &InstallDirUnavailableError{Dir: destDir, Err: err}
	}

	src, err := os.Open(bin.Path)
	if err != nil {
		return "", fmt.Errorf("open extracted binary: %w", err)
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp(destDir, "."+destName+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file in %s: %w", destDir, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		cleanup()
		return "", fmt.Errorf("write binary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("flush binary: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o755); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("set executable permission: %w", err)
	}

	dest := filepath.Join(destDir, destName)
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("install %s: %w", dest, err)
	}

	return dest, nil
}
