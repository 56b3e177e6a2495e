package update

import (
	"sort"
	"strings"

	"github.com/adamancini/binfetch/internal/platform"
)

// checksumMarkers appear inside filenames of checksum and signature
// companions that should never be selected as the tool archive.
var checksumMarkers = []string{".sha256", ".sha512", ".asc", ".sig", ".pem", ".minisig"}

// manifestSuffixes mark non-archive metadata files.
var manifestSuffixes = []string{".txt", ".json", ".yaml", ".yml", ".md", ".sbom"}

// SelectAsset picks exactly one asset filename out of a release's asset list.
//
// With a pattern, assets are filtered by case-sensitive substring match. With
// no pattern, assets are filtered by the host platform heuristic and checksum,
// signature and manifest companions are dropped when any real candidate
// survives. In both modes, zero survivors is a NoMatchingAssetError and more
// than one is an AmbiguousAssetError; candidates are sorted first so the
// outcome never depends on asset order.
func SelectAsset(assets []string, pattern string, plat platform.Platform) (string, error) {
	var matches []string
	if pattern != "" {
		for _, a := range assets {
			if strings.Contains(a, pattern) {
				matches = append(matches, a)
			}
		}
	} else {
		for _, a := range assets {
			if plat.MatchesAsset(a) {
				matches = append(matches, a)
			}
		}
		if preferred := dropCompanions(matches); len(preferred) > 0 {
			matches = preferred
		}
	}

	sort.Strings(matches)
	switch len(matches) {
	case 0:
		sorted := append([]string(nil), assets...)
		sort.Strings(sorted)
		return "", &NoMatchingAssetError{Pattern: pattern, Assets: sorted}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousAssetError{Pattern: pattern, Matches: matches}
	}
}

// dropCompanions filters out checksum, signature and manifest files.
func dropCompanions(names []string) []string {
	var out []string
	for _, n := range names {
		if isCompanion(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func isCompanion(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range checksumMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	for _, s := range manifestSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}
