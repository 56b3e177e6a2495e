package config

import (
	"os"
	"strings"
)

// ExpandPath expands a leading tilde and $VAR / ${VAR} references in a
// configured path. Unset variables are left as written so a typo stays
// visible instead of silently collapsing to the empty string.
func ExpandPath(path string) string {
	expanded := path
	if home, err := os.UserHomeDir(); err == nil {
		if expanded == "~" {
			expanded = home
		} else if strings.HasPrefix(expanded, "~/") {
			expanded = home + expanded[1:]
		}
	}

	var b strings.Builder
	for i := 0; i < len(expanded); {
		ch := expanded[i]
		if ch != '$' {
			b.WriteByte(ch)
			i++
			continue
		}

		if i+1 < len(expanded) && expanded[i+1] == '{' {
			end := strings.IndexByte(expanded[i+2:], '}')
			if end < 0 {
				b.WriteString(expanded[i:])
				break
			}
			name := expanded[i+2 : i+2+end]
			if value, ok := os.LookupEnv(name); ok {
				b.WriteString(value)
			} else {
				b.WriteString("${" + name + "}")
			}
			i += 2 + end + 1
			continue
		}

		j := i + 1
		for j < len(expanded) && isVarChar(expanded[j]) {
			j++
		}
		if j == i+1 {
			b.WriteByte('$')
			i++
			continue
		}
		name := expanded[i+1 : j]
		if value, ok := os.LookupEnv(name); ok {
			b.WriteString(value)
		} else {
			b.WriteString("$" + name)
		}
		i = j
	}
	return b.String()
}

func isVarChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
