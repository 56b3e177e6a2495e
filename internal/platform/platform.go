// Package platform detects the host platform and matches release asset names
// against it.
package platform

import (
	"runtime"
	"strings"
)

// Platform describes an operating system and architecture pair.
type Platform struct {
	OS   string // darwin, linux
	Arch string // amd64, arm64
}

// Detect returns the platform binfetch is running on.
func Detect() Platform {
	return Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
}

// Supported reports whether binfetch knows how to pick assets for this
// platform.
func (p Platform) Supported() bool {
	_, ok := archTokens[p.Arch]
	if !ok {
		return false
	}
	switch p.OS {
	case "linux", "darwin":
		return true
	}
	return false
}

// archTokens maps a GOARCH value to the spellings release assets use for it.
var archTokens = map[string][]string{
	"amd64": {"amd64", "x86_64", "x64"},
	"arm64": {"arm64", "aarch64"},
}

// osTokens maps a GOOS value to the spellings release assets use for it.
var osTokens = map[string][]string{
	"linux":  {"linux"},
	"darwin": {"darwin", "macos", "osx"},
}

// MatchesAsset reports whether an asset filename looks like it was built for
// this platform: it must contain an OS token and an architecture token,
// case-insensitively.
func (p Platform) MatchesAsset(name string) bool {
	lower := strings.ToLower(name)

	osMatch := false
	for _, tok := range osTokens[p.OS] {
		if strings.Contains(lower, tok) {
			osMatch = true
			break
		}
	}
	if !osMatch {
		return false
	}

	for _, tok := range archTokens[p.Arch] {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
