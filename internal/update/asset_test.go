package update

import (
	"errors"
	"reflect"
	"testing"

	"github.com/adamancini/binfetch/internal/platform"
)

var linuxAmd64 = platform.Platform{OS: "linux", Arch: "amd64"}

func TestSelectAssetPlatformHeuristic(t *testing.T) {
	tests := []struct {
		name   string
		assets []string
		plat   platform.Platform
		want   string
	}{
		{
			name:   "picks the host platform asset",
			assets: []string{"tool_Linux_amd64.tar.gz", "tool_Darwin_amd64.tar.gz"},
			plat:   linuxAmd64,
			want:   "tool_Linux_amd64.tar.gz",
		},
		{
			name:   "x86_64 spelling",
			assets: []string{"tool-linux-x86_64.tar.gz", "tool-windows-x86_64.zip"},
			plat:   linuxAmd64,
			want:   "tool-linux-x86_64.tar.gz",
		},
		{
			name: "checksum companions are dropped",
			assets: []string{
				"tool_Linux_amd64.tar.gz",
				"tool_Linux_amd64.tar.gz.sha256",
				"tool_Linux_amd64.tar.gz.sig",
			},
			plat: linuxAmd64,
			want: "tool_Linux_amd64.tar.gz",
		},
		{
			name: "manifest companions are dropped",
			assets: []string{
				"tool_Linux_amd64.tar.gz",
				"tool_Linux_amd64.json",
				"checksums_linux_amd64.txt",
			},
			plat: linuxAmd64,
			want: "tool_Linux_amd64.tar.gz",
		},
		{
			name:   "darwin tokens",
			assets: []string{"tool_macOS_arm64.tar.gz", "tool_Linux_arm64.tar.gz"},
			plat:   platform.Platform{OS: "darwin", Arch: "arm64"},
			want:   "tool_macOS_arm64.tar.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectAsset(tt.assets, "", tt.plat)
			if err != nil {
				t.Fatalf("SelectAsset() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SelectAsset() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectAssetWithPattern(t *testing.T) {
	assets := []string{"a_linux.tar.gz", "b_linux.tar.gz", "c_darwin.tar.gz"}

	got, err := SelectAsset(assets, "b_linux", linuxAmd64)
	if err != nil {
		t.Fatalf("SelectAsset() error = %v", err)
	}
	if got != "b_linux.tar.gz" {
		t.Errorf("SelectAsset() = %q, want b_linux.tar.gz", got)
	}

	// Pattern matching is case-sensitive.
	if _, err := SelectAsset(assets, "B_LINUX", linuxAmd64); err == nil {
		t.Error("expected error for case-mismatched pattern")
	}
}

func TestSelectAssetAmbiguousPattern(t *testing.T) {
	assets := []string{"b_linux.tar.gz", "a_linux.tar.gz"}

	_, err := SelectAsset(assets, "linux", linuxAmd64)
	var ambiguous *AmbiguousAssetError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousAssetError, got %v", err)
	}
	// Matches are sorted for reproducible messages.
	want := []string{"a_linux.tar.gz", "b_linux.tar.gz"}
	if !reflect.DeepEqual(ambiguous.Matches, want) {
		t.Errorf("Matches = %v, want %v", ambiguous.Matches, want)
	}
}

func TestSelectAssetNoMatch(t *testing.T) {
	tests := []struct {
		name    string
		assets  []string
		pattern string
	}{
		{
			name:    "empty list with pattern",
			assets:  nil,
			pattern: "linux",
		},
		{
			name:   "empty list without pattern",
			assets: nil,
		},
		{
			name:   "no platform match",
			assets: []string{"tool_Windows_amd64.zip", "tool_Darwin_arm64.tar.gz"},
		},
		{
			name:    "pattern matches nothing",
			assets:  []string{"tool_Linux_amd64.tar.gz"},
			pattern: "freebsd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SelectAsset(tt.assets, tt.pattern, linuxAmd64)
			var noMatch *NoMatchingAssetError
			if !errors.As(err, &noMatch) {
				t.Fatalf("expected NoMatchingAssetError, got %v", err)
			}
		})
	}
}

func TestSelectAssetOrderIndependent(t *testing.T) {
	a := []string{"x_linux_amd64.tar.gz", "y_linux_amd64.tar.gz"}
	b := []string{"y_linux_amd64.tar.gz", "x_linux_amd64.tar.gz"}

	_, errA := SelectAsset(a, "", linuxAmd64)
	_, errB := SelectAsset(b, "", linuxAmd64)
	if errA == nil || errB == nil {
		t.Fatal("expected ambiguity errors")
	}
	if errA.Error() != errB.Error() {
		t.Errorf("error depends on asset order:\n%v\n%v", errA, errB)
	}
}
