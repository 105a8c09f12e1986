package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CacheEnvVar overrides the default cache directory.
const CacheEnvVar = "RINHA_HOME"

// DefaultCacheDir returns $RINHA_HOME, falling back to ~/.rinha.
func DefaultCacheDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(CacheEnvVar)); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cache: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".rinha"), nil
}

// FetchedProgram describes a program checked out from git.
type FetchedProgram struct {
	Path     string
	Checkout string
	Version  string
	Commit   string
}

// GitFetcher clones program repositories into a cache directory, one checkout
// per resolved revision.
type GitFetcher struct {
	cacheDir string
}

func NewGitFetcher(cacheDir string) *GitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &GitFetcher{cacheDir: cacheDir}
}

func (g *GitFetcher) Fetch(src *GitSource) (*FetchedProgram, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable")
	}
	if src == nil {
		return nil, errors.New("git fetcher: nil source")
	}
	url := strings.TrimSpace(src.Git)
	if url == "" {
		return nil, fmt.Errorf("git source: URL required")
	}
	if src.Rev == "" && src.Tag == "" && src.Branch == "" {
		return nil, fmt.Errorf("git source %s: one of rev, tag or branch required", url)
	}

	baseDir := filepath.Join(g.cacheDir, "src", cacheSegment(url))
	checkoutDir, version, commit, err := checkoutProgramRepo(baseDir, url, src)
	if err != nil {
		return nil, err
	}

	programPath := filepath.Join(checkoutDir, filepath.FromSlash(src.Path))
	rel, err := filepath.Rel(checkoutDir, programPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("git source: path %q escapes the repository", src.Path)
	}
	info, err := os.Stat(programPath)
	if err != nil {
		return nil, fmt.Errorf("git source: %s@%s has no %s: %w", url, version, src.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("git source: %s is a directory", src.Path)
	}
	return &FetchedProgram{
		Path:     programPath,
		Checkout: checkoutDir,
		Version:  version,
		Commit:   commit,
	}, nil
}

// checkoutProgramRepo returns the cached checkout for src, cloning it on first
// use. Pinned revisions are looked up in the cache before any network access;
// tags and branches are always resolved against the remote.
func checkoutProgramRepo(baseDir, url string, src *GitSource) (string, string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", "", err
	}
	if src.Rev != "" {
		cached := filepath.Join(baseDir, cacheSegment(src.Rev))
		if info, err := os.Stat(cached); err == nil && info.IsDir() {
			return cached, src.Rev, src.Rev, nil
		}
	}

	cloneDir, err := os.MkdirTemp(baseDir, "clone-*")
	if err != nil {
		return "", "", "", err
	}
	commit, err := cloneProgramRepo(cloneDir, url, src)
	if err != nil {
		_ = os.RemoveAll(cloneDir)
		return "", "", "", err
	}

	version := commit.String()
	if src.Rev == "" {
		version = src.Tag + src.Branch + "@" + version
	}
	target := filepath.Join(baseDir, cacheSegment(version))
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		_ = os.RemoveAll(cloneDir)
		return target, version, commit.String(), nil
	}
	if err := os.Rename(cloneDir, target); err != nil {
		_ = os.RemoveAll(cloneDir)
		return "", "", "", err
	}
	return target, version, commit.String(), nil
}

// cloneProgramRepo clones url into dir with the work tree at the commit src
// selects. Tags and branches only need their tip, so they are fetched shallow
// and single-branch; an arbitrary rev needs the full history to resolve.
func cloneProgramRepo(dir, url string, src *GitSource) (plumbing.Hash, error) {
	opts := &git.CloneOptions{URL: url}
	switch {
	case src.Tag != "":
		opts.ReferenceName = plumbing.NewTagReferenceName(src.Tag)
	case src.Branch != "":
		opts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
	}
	if opts.ReferenceName != "" {
		opts.SingleBranch = true
		opts.Depth = 1
	}

	repo, err := git.PlainClone(dir, false, opts)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("git clone %s: %w", url, err)
	}

	if opts.ReferenceName != "" {
		head, err := repo.Head()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("git clone %s: read %s: %w", url, opts.ReferenceName, err)
		}
		hash := head.Hash()
		if tag, err := repo.TagObject(hash); err == nil {
			commit, err := tag.Commit()
			if err != nil {
				return plumbing.ZeroHash, fmt.Errorf("git tag %s: %w", src.Tag, err)
			}
			hash = commit.Hash
		}
		return hash, nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(src.Rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve revision %s: %w", src.Rev, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("git checkout %s: %w", src.Rev, err)
	}
	return *hash, nil
}

// cacheSegment turns a URL or version into a single directory name.
func cacheSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == "." || value == ".." {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, value)
}
