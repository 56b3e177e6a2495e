package update

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExtractedBinary is a single file pulled out of a release archive. It lives
// in a private temp directory owned by this struct until the installer
// consumes it; callers must arrange for Cleanup to run on every path.
type ExtractedBinary struct {
	Path string // absolute path to the extracted file
	Name string // base name of the file inside the archive

	dir string // holding directory removed by Cleanup
}

// Cleanup removes the holding directory. Safe to call more than once.
func (b *ExtractedBinary) Cleanup() {
	if b.dir != "" {
		_ = os.RemoveAll(b.dir)
		b.dir = ""
	}
}

type archiveFormat int

const (
	formatTarGz archiveFormat = iota
	formatZip
)

// detectFormat inspects the filename suffix. Checked in order: tar.gz/tgz,
// then zip. Anything else is unsupported.
func detectFormat(filename string) (archiveFormat, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return formatTarGz, nil
	case strings.HasSuffix(lower, ".zip"):
		return formatZip, nil
	default:
		return 0, &UnsupportedFormatError{Filename: filepath.Base(filename)}
	}
}

// Extract unpacks the archive at archivePath into a fresh scratch directory,
// locates the binary named by hint, and moves it out into a holding directory
// owned by the returned ExtractedBinary. The scratch directory is removed
// before Extract returns, on success and failure alike.
func Extract(archivePath, hint string) (*ExtractedBinary, error) {
	format, err := detectFormat(archivePath)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp("", "binfetch-extract-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	switch format {
	case formatTarGz:
		err = extractTarGz(archivePath, scratch)
	case formatZip:
		err = extractZip(archivePath, scratch)
	}
	if err != nil {
		return nil, err
	}

	found, err := locateBinary(scratch, hint, format)
	if err != nil {
		return nil, err
	}

	holding, err := os.MkdirTemp("", "binfetch-bin-*")
	if err != nil {
		return nil, fmt.Errorf("create holding directory: %w", err)
	}
	dest := filepath.Join(holding, filepath.Base(found))
	if err := os.Rename(found, dest); err != nil {
		_ = os.RemoveAll(holding)
		return nil, fmt.Errorf("move binary out of scratch: %w", err)
	}

	return &ExtractedBinary{
		Path: dest,
		Name: filepath.Base(found),
		dir:  holding,
	}, nil
}

func extractTarGz(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return &CorruptArchiveError{Filename: filepath.Base(archivePath), Err: err}
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &CorruptArchiveError{Filename: filepath.Base(archivePath), Err: err}
		}

		name := filepath.Clean(hdr.Name)
		if !filepath.IsLocal(name) {
			// Path traversal entry, skip it.
			continue
		}
		target := filepath.Join(destDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			// Symlinks and the like are never the tool binary.
		}
	}
}

func extractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return &CorruptArchiveError{Filename: filepath.Base(archivePath), Err: err}
	}
	defer func() { _ = zr.Close() }()

	for _, zf := range zr.File {
		name := filepath.Clean(zf.Name)
		if !filepath.IsLocal(name) {
			continue
		}
		target := filepath.Join(destDir, name)

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}

		rc, err := zf.Open()
		if err != nil {
			return &CorruptArchiveError{Filename: filepath.Base(archivePath), Err: err}
		}
		err = writeFile(target, rc, zf.Mode().Perm())
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(target string, r io.Reader, perm fs.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("write file: %w", err)
	}
	return out.Close()
}

// extractedEntry is one regular file found in the scratch tree.
type extractedEntry struct {
	path  string // absolute
	rel   string // relative to the scratch root
	depth int    // path components in rel
	exec  bool
}

// locateBinary walks the extracted tree and picks the tool binary:
//
//  1. a top-level or single-level-nested file named exactly hint
//  2. the unique file named hint anywhere in the tree
//  3. the unique executable file (for zips without permission bits, the
//     unique file with no extension)
//
// Anything else fails with a BinaryNotFoundError listing the top-level
// entries.
func locateBinary(root, hint string, format archiveFormat) (string, error) {
	var entries []extractedEntry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, extractedEntry{
			path:  path,
			rel:   rel,
			depth: len(strings.Split(rel, string(filepath.Separator))),
			exec:  info.Mode().Perm()&0o111 != 0,
		})
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk extracted tree: %w", err)
	}

	for _, e := range entries {
		if e.depth <= 2 && filepath.Base(e.rel) == hint {
			return e.path, nil
		}
	}

	var named []extractedEntry
	for _, e := range entries {
		if filepath.Base(e.rel) == hint {
			named = append(named, e)
		}
	}
	if len(named) == 1 {
		return named[0].path, nil
	}

	var execs []extractedEntry
	for _, e := range entries {
		if e.exec {
			execs = append(execs, e)
		}
	}
	if len(execs) == 1 {
		return execs[0].path, nil
	}
	if len(execs) == 0 && format == formatZip {
		var bare []extractedEntry
		for _, e := range entries {
			if filepath.Ext(e.rel) == "" {
				bare = append(bare, e)
			}
		}
		if len(bare) == 1 {
			return bare[0].path, nil
		}
	}

	return "", &BinaryNotFoundError{Hint: hint, Entries: topLevel(entries)}
}

func topLevel(entries []extractedEntry) []string {
	seen := make(map[string]bool)
	for _, e := range entries {
		first := strings.SplitN(e.rel, string(filepath.Separator), 2)[0]
		seen[first] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
