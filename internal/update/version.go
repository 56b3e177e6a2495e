package update

import (
	"strconv"
	"strings"
)

// Ordering is the result of comparing two version strings.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
	// Incomparable means at least one side is not a dotted numeric version
	// and the strings are not identical. Repositories tag releases in wildly
	// different formats, so this is an expected outcome, not an error.
	Incomparable
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "incomparable"
	}
}

// Compare compares two version strings under a tolerant scheme. A single
// leading non-numeric marker character (typically "v") is stripped from each
// side, the remainder split on "." and compared numerically component-wise,
// with missing trailing components treated as zero. If either side has a
// component that does not parse as a non-negative integer, Compare falls back
// to exact string equality: identical inputs are Equal, anything else is
// Incomparable.
func Compare(a, b string) Ordering {
	av, aok := parseComponents(a)
	bv, bok := parseComponents(b)
	if !aok || !bok {
		if a == b {
			return Equal
		}
		return Incomparable
	}

	n := len(av)
	if len(bv) > n {
		n = len(bv)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(av) {
			x = av[i]
		}
		if i < len(bv) {
			y = bv[i]
		}
		if x < y {
			return Less
		}
		if x > y {
			return Greater
		}
	}
	return Equal
}

// parseComponents strips an optional leading marker character and parses the
// remainder as dot-separated non-negative integers.
func parseComponents(s string) ([]int, bool) {
	if s == "" {
		return nil, false
	}
	if s[0] < '0' || s[0] > '9' {
		s = s[1:]
	}
	if s == "" {
		return nil, false
	}

	parts := strings.Split(s, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// NeedsUpdate reports whether the tool should be (re)installed. It is true
// when force is set, when no version has been recorded yet, or when the
// recorded version is older than latest. Incomparable versions also trigger a
// reinstall: when tag formats vary across repositories it is safer to install
// again than to silently skip an update.
func NeedsUpdate(current, latest string, force bool) bool {
	if force || current == "" {
		return true
	}
	switch Compare(current, latest) {
	case Less, Incomparable:
		return true
	default:
		return false
	}
}
