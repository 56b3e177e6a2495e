// Package github talks to the GitHub releases API and downloads release
// assets.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Release is a published release of a repository.
type Release struct {
	Tag    string  `json:"tag_name"`
	Name   string  `json:"name"`
	Assets []Asset `json:"assets"`
}

// Asset is a single downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
	Size        int64  `json:"size"`
}

// AssetNames returns the filenames of all assets in release order.
func (r *Release) AssetNames() []string {
	names := make([]string, len(r.Assets))
	for i, a := range r.Assets {
		names[i] = a.Name
	}
	return names
}

// AssetByName returns the asset with the given filename.
func (r *Release) AssetByName(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// NotFoundError is returned when the repository, or the requested release of
// it, does not exist.
type NotFoundError struct {
	Repo string
	Tag  string // empty when the repository itself was not found
}

func (e *NotFoundError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("release %s not found in %s", e.Tag, e.Repo)
	}
	return fmt.Sprintf("repository not found: %s", e.Repo)
}

// Client fetches release metadata and assets.
type Client struct {
	httpClient *http.Client
	token      string // optional, raises the API rate limit
	baseURL    string
}

// NewClient creates a client. A GITHUB_TOKEN environment variable is picked
// up automatically; BINFETCH_GITHUB_API overrides the API endpoint.
func NewClient() *Client {
	baseURL := defaultBaseURL
	if env := os.Getenv("BINFETCH_GITHUB_API"); env != "" {
		baseURL = env
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		token:      os.Getenv("GITHUB_TOKEN"),
		baseURL:    baseURL,
	}
}

// WithBaseURL points the client at a different API endpoint (for testing).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// LatestRelease fetches the latest published release of repo (owner/name).
func (c *Client) LatestRelease(ctx context.Context, repo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, repo)
	return c.getRelease(ctx, url, repo, "")
}

// ReleaseByTag fetches the release of repo with the given tag.
func (c *Client) ReleaseByTag(ctx context.Context, repo, tag string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.baseURL, repo, tag)
	return c.getRelease(ctx, url, repo, tag)
}

func (c *Client) getRelease(ctx context.Context, url, repo, tag string) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "binfetch")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Repo: repo, Tag: tag}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned status %d for %s", resp.StatusCode, repo)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}
	return &release, nil
}

// authorize attaches the token, if any. Fine-grained tokens use the Bearer
// scheme, classic tokens the token scheme.
func (c *Client) authorize(req *http.Request) {
	if c.token == "" {
		return
	}
	scheme := "token"
	if strings.HasPrefix(c.token, "github_pat_") {
		scheme = "Bearer"
	}
	req.Header.Set("Authorization", scheme+" "+c.token)
}

// Fetch downloads url into the file at dest. A partial file is removed on
// failure.
func (c *Client) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "binfetch")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed with status %d", filepath.Base(dest), resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
