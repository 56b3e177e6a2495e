// Package update implements the release resolution and installation pipeline:
// picking the right release asset, extracting the binary from the archive,
// installing it atomically, and reconciling recorded versions.
package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adamancini/binfetch/internal/config"
	"github.com/adamancini/binfetch/internal/github"
	"github.com/adamancini/binfetch/internal/platform"
)

// ReleaseSource resolves releases of a repository. Implemented by the github
// client; faked in tests.
type ReleaseSource interface {
	LatestRelease(ctx context.Context, repo string) (*github.Release, error)
	ReleaseByTag(ctx context.Context, repo, tag string) (*github.Release, error)
}

// Downloader fetches a URL into a local file.
type Downloader interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Registry stores tool entries. Implementations persist on every mutation;
// the pipeline serializes access, so they need no locking of their own.
type Registry interface {
	Get(name string) (config.Tool, bool)
	Add(t config.Tool) error
	Put(t config.Tool) error
	Remove(name string) error
	List() []config.Tool
}

// Status classifies the outcome of one pipeline run.
type Status int

const (
	StatusUpdated Status = iota
	StatusUpToDate
	StatusRemoved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusUpToDate:
		return "up to date"
	case StatusRemoved:
		return "removed"
	default:
		return "failed"
	}
}

// Result is the structured outcome of one tool's pipeline run. The core never
// prints; the command layer renders these.
type Result struct {
	Tool        string `json:"tool" yaml:"tool"`
	Status      Status `json:"-" yaml:"-"`
	StatusText  string `json:"status" yaml:"status"`
	OldVersion  string `json:"old_version,omitempty" yaml:"old_version,omitempty"`
	NewVersion  string `json:"new_version,omitempty" yaml:"new_version,omitempty"`
	InstallPath string `json:"install_path,omitempty" yaml:"install_path,omitempty"`
	Err         error  `json:"-" yaml:"-"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

func failure(tool string, err error) Result {
	return Result{Tool: tool, Status: StatusFailed, StatusText: StatusFailed.String(), Err: err, Error: err.Error()}
}

// CheckInfo reports whether a newer release exists for a tool, without
// installing anything.
type CheckInfo struct {
	Tool     string `json:"tool" yaml:"tool"`
	Current  string `json:"current,omitempty" yaml:"current,omitempty"`
	Latest   string `json:"latest,omitempty" yaml:"latest,omitempty"`
	Outdated bool   `json:"outdated" yaml:"outdated"`
	Err      error  `json:"-" yaml:"-"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Pipeline composes the release source, downloader and registry into the
// add / update / remove flows.
type Pipeline struct {
	source     ReleaseSource
	downloader Downloader
	registry   Registry
	installDir string
	platform   platform.Platform

	// mu serializes registry reads and writes. Tools updated concurrently
	// share nothing else: scratch directories, downloads and destination
	// filenames are all disjoint.
	mu sync.Mutex
}

// New builds a pipeline installing into installDir.
func New(source ReleaseSource, downloader Downloader, registry Registry, installDir string) *Pipeline {
	return &Pipeline{
		source:     source,
		downloader: downloader,
		registry:   registry,
		installDir: installDir,
		platform:   platform.Detect(),
	}
}

// WithPlatform overrides the detected host platform (for testing).
func (p *Pipeline) WithPlatform(plat platform.Platform) *Pipeline {
	p.platform = plat
	return p
}

// UpdateOptions tune a single update run.
type UpdateOptions struct {
	Force bool   // reinstall even when the recorded version matches
	Tag   string // pin to a specific release tag instead of latest
}

// Add registers the tool and immediately installs it. A duplicate name fails
// before anything touches the network or filesystem.
func (p *Pipeline) Add(ctx context.Context, tool config.Tool, opts UpdateOptions) Result {
	p.mu.Lock()
	err := p.registry.Add(tool)
	p.mu.Unlock()
	if err != nil {
		return failure(tool.Name, err)
	}
	return p.Update(ctx, tool.Name, opts)
}

// Update runs the pipeline for one registered tool: resolve the release,
// decide whether an install is needed, select and download the asset, extract
// the binary, install it, and record the new version.
func (p *Pipeline) Update(ctx context.Context, name string, opts UpdateOptions) Result {
	p.mu.Lock()
	tool, ok := p.registry.Get(name)
	p.mu.Unlock()
	if !ok {
		return failure(name, &config.UnknownToolError{Name: name})
	}

	release, err := p.resolve(ctx, tool.Repo, opts.Tag)
	if err != nil {
		return failure(name, err)
	}

	installPath := filepath.Join(p.installDir, tool.Binary())
	if !NeedsUpdate(tool.Version, release.Tag, opts.Force) && fileExists(installPath) {
		return Result{
			Tool:        name,
			Status:      StatusUpToDate,
			StatusText:  StatusUpToDate.String(),
			OldVersion:  tool.Version,
			NewVersion:  tool.Version,
			InstallPath: installPath,
		}
	}

	assetName, err := SelectAsset(release.AssetNames(), tool.AssetPattern, p.platform)
	if err != nil {
		return failure(name, fmt.Errorf("%s (%s): %w", name, tool.Repo, err))
	}
	asset, _ := release.AssetByName(assetName)

	dest, err := p.fetchAndInstall(ctx, tool, asset)
	if err != nil {
		return failure(name, fmt.Errorf("%s (%s): %w", name, tool.Repo, err))
	}

	old := tool.Version
	tool.Version = release.Tag
	p.mu.Lock()
	err = p.registry.Put(tool)
	p.mu.Unlock()
	if err != nil {
		return failure(name, fmt.Errorf("installed %s but failed to record version: %w", name, err))
	}

	return Result{
		Tool:        name,
		Status:      StatusUpdated,
		StatusText:  StatusUpdated.String(),
		OldVersion:  old,
		NewVersion:  release.Tag,
		InstallPath: dest,
	}
}

func (p *Pipeline) resolve(ctx context.Context, repo, tag string) (*github.Release, error) {
	if tag != "" {
		return p.source.ReleaseByTag(ctx, repo, tag)
	}
	return p.source.LatestRelease(ctx, repo)
}

// fetchAndInstall downloads the asset to a scratch file, extracts the binary
// and installs it. All intermediate files are cleaned up on every path.
func (p *Pipeline) fetchAndInstall(ctx context.Context, tool config.Tool, asset github.Asset) (string, error) {
	downloadDir, err := os.MkdirTemp("", "binfetch-download-*")
	if err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(downloadDir) }()

	archivePath := filepath.Join(downloadDir, asset.Name)
	if err := p.downloader.Fetch(ctx, asset.DownloadURL, archivePath); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	binary, err := Extract(archivePath, tool.Binary())
	if err != nil {
		return "", err
	}
	defer binary.Cleanup()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return Install(binary, p.installDir, tool.Binary())
}

// UpdateAll runs every registered tool's pipeline. Tools run concurrently;
// one failure never aborts the others. Results come back in registry (name)
// order.
func (p *Pipeline) UpdateAll(ctx context.Context, opts UpdateOptions) []Result {
	p.mu.Lock()
	tools := p.registry.List()
	p.mu.Unlock()

	results := make([]Result, len(tools))
	var wg sync.WaitGroup
	for i, tool := range tools {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = p.Update(ctx, name, opts)
		}(i, tool.Name)
	}
	wg.Wait()
	return results
}

// Remove deletes the installed binary, if present, and drops the registry
// entry. A missing binary is not an error.
func (p *Pipeline) Remove(name string) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	tool, ok := p.registry.Get(name)
	if !ok {
		return failure(name, &config.UnknownToolError{Name: name})
	}

	installPath := filepath.Join(p.installDir, tool.Binary())
	if err := os.Remove(installPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return failure(name, fmt.Errorf("failed to delete %s: %w", installPath, err))
	}

	if err := p.registry.Remove(name); err != nil {
		return failure(name, err)
	}
	return Result{
		Tool:        name,
		Status:      StatusRemoved,
		StatusText:  StatusRemoved.String(),
		OldVersion:  tool.Version,
		InstallPath: installPath,
	}
}

// Check resolves the latest release of every registered tool and reports
// which ones are outdated. Nothing is downloaded or installed.
func (p *Pipeline) Check(ctx context.Context) []CheckInfo {
	p.mu.Lock()
	tools := p.registry.List()
	p.mu.Unlock()

	results := make([]CheckInfo, len(tools))
	var wg sync.WaitGroup
	for i, tool := range tools {
		wg.Add(1)
		go func(i int, tool config.Tool) {
			defer wg.Done()
			info := CheckInfo{Tool: tool.Name, Current: tool.Version}
			release, err := p.source.LatestRelease(ctx, tool.Repo)
			if err != nil {
				info.Err = err
				info.Error = err.Error()
			} else {
				info.Latest = release.Tag
				info.Outdated = NeedsUpdate(tool.Version, release.Tag, false)
			}
			results[i] = info
		}(i, tool)
	}
	wg.Wait()
	return results
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
