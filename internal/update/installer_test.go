package update

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// extractedForTest fabricates an ExtractedBinary the way Extract would.
func extractedForTest(t *testing.T, content string) *ExtractedBinary {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mytool")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}
	return &ExtractedBinary{Path: path, Name: "mytool", dir: dir}
}

func TestInstall(t *testing.T) {
	destDir := t.TempDir()
	bin := extractedForTest(t, "binary content")

	dest, err := Install(bin, destDir, "mytool")
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if dest != filepath.Join(destDir, "mytool") {
		t.Errorf("dest = %q, want %q", dest, filepath.Join(destDir, "mytool"))
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "binary content" {
		t.Errorf("content = %q, want %q", content, "binary content")
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Error("installed binary is not executable")
	}
}

func TestInstallCreatesMissingDirs(t *testing.T) {
	destDir := filepath.Join(t.TempDir(), "does", "not", "exist")
	bin := extractedForTest(t, "content")

	if _, err := Install(bin, destDir, "mytool"); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if _, err := os.Stat(destDir); err != nil {
		t.Errorf("install dir was not created: %v", err)
	}
}

func TestInstallDirUnavailable(t *testing.T) {
	parent := t.TempDir()
	// A file where the parent directory should be makes MkdirAll fail.
	blocker := filepath.Join(parent, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	bin := extractedForTest(t, "content")

	_, err := Install(bin, filepath.Join(blocker, "bin"), "mytool")
	var unavailable *InstallDirUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected InstallDirUnavailableError, got %v", err)
	}
}

func TestInstallOverwritesExisting(t *testing.T) {
	destDir := t.TempDir()
	dest := filepath.Join(destDir, "mytool")
	if err := os.WriteFile(dest, []byte("old version"), 0o755); err != nil {
		t.Fatal(err)
	}

	bin := extractedForTest(t, "new version")
	if _, err := Install(bin, destDir, "mytool"); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "new version" {
		t.Errorf("content = %q, want %q", content, "new version")
	}
}

func TestInstallLeavesNoTempFiles(t *testing.T) {
	destDir := t.TempDir()
	bin := extractedForTest(t, "content")

	if _, err := Install(bin, destDir, "mytool"); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".mytool-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

// TestInstallAtomicity hammers the destination with reads while installs
// alternate its content. Every read must observe one complete version.
func TestInstallAtomicity(t *testing.T) {
	destDir := t.TempDir()
	dest := filepath.Join(destDir, "mytool")

	oldContent := strings.Repeat("A", 64*1024)
	newContent := strings.Repeat("B", 64*1024)
	if err := os.WriteFile(dest, []byte(oldContent), 0o755); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			content, err := os.ReadFile(dest)
			if err != nil {
				// The rename window never unlinks the destination.
				t.Errorf("read during install failed: %v", err)
				return
			}
			if s := string(content); s != oldContent && s != newContent {
				t.Errorf("observed partial write of %d bytes", len(s))
				return
			}
		}
	}()

	for i := 0; i < 20; i++ {
		content := oldContent
		if i%2 == 0 {
			content = newContent
		}
		bin := extractedForTest(t, content)
		if _, err := Install(bin, destDir, "mytool"); err != nil {
			t.Fatalf("Install() error = %v", err)
		}
	}
	close(done)
	wg.Wait()
}
