package config

import "testing"

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"owner slash name", "derailed/k9s", "derailed/k9s", false},
		{"https url", "https://github.com/derailed/k9s", "derailed/k9s", false},
		{"http url", "http://github.com/derailed/k9s", "derailed/k9s", false},
		{"url with extra segments", "https://github.com/derailed/k9s/releases/tag/v0.32.5", "derailed/k9s", false},
		{"bare name", "k9s", "", true},
		{"too many segments", "a/b/c", "", true},
		{"empty", "", "", true},
		{"wrong host", "https://gitlab.com/owner/repo", "", true},
		{"url missing repo", "https://github.com/derailed", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepo(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRepo(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepo(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRepo(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRepoBase(t *testing.T) {
	if got := RepoBase("derailed/k9s"); got != "k9s" {
		t.Errorf("RepoBase() = %q, want k9s", got)
	}
	if got := RepoBase("k9s"); got != "k9s" {
		t.Errorf("RepoBase() = %q, want k9s", got)
	}
}
