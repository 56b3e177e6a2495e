package config

import (
	"fmt"
	"strings"
)

// ParseRepo normalizes a repository argument to owner/name form. It accepts
// plain "owner/name" or a full GitHub URL (extra path segments like
// /releases or /issues are dropped).
func ParseRepo(input string) (string, error) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(input, "https://"), "http://")
		parts := strings.Split(trimmed, "/")
		if len(parts) >= 3 && parts[0] == "github.com" && parts[1] != "" && parts[2] != "" {
			return parts[1] + "/" + parts[2], nil
		}
		return "", fmt.Errorf("invalid repository URL: %s", input)
	}

	if repoPattern.MatchString(input) {
		return input, nil
	}
	return "", fmt.Errorf("invalid repository %q: expected owner/repo or a GitHub URL", input)
}

// RepoBase returns the name half of an owner/name pair, used as the default
// tool name.
func RepoBase(repo string) string {
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		return repo[i+1:]
	}
	return repo
}
