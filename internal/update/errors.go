package update

import (
	"fmt"
	"strings"
)

// NoMatchingAssetError indicates no release asset matched the pattern or
// platform heuristic.
type NoMatchingAssetError struct {
	Pattern string // empty when the built-in platform heuristic was used
	Assets  []string
}

func (e *NoMatchingAssetError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("no asset matches pattern %q (assets: %s)", e.Pattern, strings.Join(e.Assets, ", "))
	}
	return fmt.Sprintf("no asset matches the host platform (assets: %s)", strings.Join(e.Assets, ", "))
}

// AmbiguousAssetError indicates more than one asset survived filtering.
// Matches are sorted lexicographically so the message is reproducible.
type AmbiguousAssetError struct {
	Pattern string
	Matches []string
}

func (e *AmbiguousAssetError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("pattern %q matches multiple assets, narrow it: %s", e.Pattern, strings.Join(e.Matches, ", "))
	}
	return fmt.Sprintf("multiple assets match the host platform, set an asset pattern: %s", strings.Join(e.Matches, ", "))
}

// UnsupportedFormatError indicates the asset filename has no recognized
// archive suffix.
type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported archive format: %s", e.Filename)
}

// CorruptArchiveError indicates the archive could not be decoded.
type CorruptArchiveError struct {
	Filename string
	Err      error
}

func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("corrupt archive %s: %v", e.Filename, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error { return e.Err }

// BinaryNotFoundError indicates no binary matching the hint could be located
// in the extracted tree.
type BinaryNotFoundError struct {
	Hint    string
	Entries []string // sorted top-level entries, to aid diagnosis
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("binary %q not found in archive (top-level entries: %s)", e.Hint, strings.Join(e.Entries, ", "))
}

// InstallDirUnavailableError indicates the install directory could not be
// created. Typically a configuration problem rather than a transient failure.
type InstallDirUnavailableError struct {
	Dir string
	Err error
}

func (e *InstallDirUnavailableError) Error() string {
	return fmt.Sprintf("install directory %s unavailable: %v", e.Dir, e.Err)
}

func (e *InstallDirUnavailableError) Unwrap() error { return e.Err }
