package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/thomas-vilte/repograde/internal/cache"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/models"
	"github.com/thomas-vilte/repograde/internal/vcs"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultFetchTimeout     = 15 * time.Second
	defaultMaxReadmeBytes   = 8000
	defaultMaxManifestBytes = 6000
	defaultMaxTreeEntries   = 400
	fallbackBranch          = "main"
)

var defaultManifestCandidates = []string{
	"package.json",
	"go.mod",
	"pyproject.toml",
	"requirements.txt",
	"Cargo.toml",
	"pom.xml",
	"build.gradle",
	"composer.json",
	"Gemfile",
}

// ContentFetcher gathers a bounded snapshot of a repository and caches it per repository.
type ContentFetcher struct {
	host  vcs.ContentHost
	store cache.SnapshotStore
	group singleflight.Group

	timeout            time.Duration
	maxReadmeBytes     int
	maxManifestBytes   int
	maxTreeEntries     int
	manifestCandidates []string
}

type FetcherOption func(*ContentFetcher)

func WithSnapshotStore(store cache.SnapshotStore) FetcherOption {
	return func(f *ContentFetcher) {
		f.store = store
	}
}

func WithFetchTimeout(timeout time.Duration) FetcherOption {
	return func(f *ContentFetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

func WithContentLimits(readmeBytes, manifestBytes, treeEntries int) FetcherOption {
	return func(f *ContentFetcher) {
		if readmeBytes > 0 {
			f.maxReadmeBytes = readmeBytes
		}
		if manifestBytes > 0 {
			f.maxManifestBytes = manifestBytes
		}
		if treeEntries > 0 {
			f.maxTreeEntries = treeEntries
		}
	}
}

func WithManifestCandidates(paths []string) FetcherOption {
	return func(f *ContentFetcher) {
		if len(paths) > 0 {
			f.manifestCandidates = append([]string(nil), paths...)
		}
	}
}

func NewContentFetcher(host vcs.ContentHost, opts ...FetcherOption) *ContentFetcher {
	f := &ContentFetcher{
		host:               host,
		timeout:            defaultFetchTimeout,
		maxReadmeBytes:     defaultMaxReadmeBytes,
		maxManifestBytes:   defaultMaxManifestBytes,
		maxTreeEntries:     defaultMaxTreeEntries,
		manifestCandidates: defaultManifestCandidates,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.store == nil {
		f.store = cache.NewMemoryStore()
	}
	return f
}

// Fetch returns the snapshot of ref, contacting the host at most once per repository.
// Concurrent calls for the same repository share one fetch, which keeps running if a
// caller gives up.
func (f *ContentFetcher) Fetch(ctx context.Context, ref models.RepositoryRef) (models.ContentSnapshot, error) {
	log := logger.FromContext(ctx)
	key := ref.Key()

	if snapshot, ok := f.store.Get(key); ok {
		log.Debug("snapshot cache hit", "repo", key)
		return snapshot, nil
	}

	ch := f.group.DoChan(key, func() (interface{}, error) {
		if snapshot, ok := f.store.Get(key); ok {
			return snapshot, nil
		}

		snapshot, err := f.fetch(context.WithoutCancel(ctx), ref)
		if err != nil {
			return models.ContentSnapshot{}, err
		}

		f.store.Set(key, snapshot)
		return snapshot, nil
	})

	select {
	case <-ctx.Done():
		return models.ContentSnapshot{}, ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return models.ContentSnapshot{}, result.Err
		}
		if result.Shared {
			log.Debug("joined in-flight fetch", "repo", key)
		}
		return result.Val.(models.ContentSnapshot), nil
	}
}

type subFetchFailure struct {
	artifact string
	err      error
}

func (s subFetchFailure) hostLevel() bool {
	return !vcs.Unavailable(s.err)
}

func (f *ContentFetcher) fetch(ctx context.Context, ref models.RepositoryRef) (models.ContentSnapshot, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	var (
		snapshot models.ContentSnapshot
		mu       sync.Mutex
		failures = make(map[string]subFetchFailure, 3)
	)

	fail := func(artifact string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failures[artifact] = subFetchFailure{artifact: artifact, err: err}
	}

	var g errgroup.Group

	g.Go(func() error {
		readme, err := f.fetchReadme(ctx, ref)
		if err != nil {
			fail("readme", err)
			return nil
		}
		snapshot.Readme = &readme
		return nil
	})

	g.Go(func() error {
		manifest, path, err := f.fetchManifest(ctx, ref)
		if err != nil {
			fail("manifest", err)
			return nil
		}
		snapshot.Manifest = &manifest
		snapshot.ManifestPath = path
		return nil
	})

	g.Go(func() error {
		tree, branch, err := f.fetchTree(ctx, ref)
		if err != nil {
			fail("file tree", err)
			return nil
		}
		snapshot.FileTree = tree
		snapshot.Branch = branch
		return nil
	})

	_ = g.Wait()

	if failure, ok := failures["file tree"]; ok && stderrors.Is(failure.err, domainErrors.ErrRepositoryNotFound) {
		log.Warn("repository not found", "repo", ref.Key())
		return models.ContentSnapshot{}, failure.err
	}

	var hostErrs []error
	for _, artifact := range []string{"readme", "manifest", "file tree"} {
		failure, failed := failures[artifact]
		if !failed {
			continue
		}
		log.Warn("repository content unavailable",
			"repo", ref.Key(),
			"artifact", artifact,
			"error", failure.err)
		snapshot.Warnings = append(snapshot.Warnings, fmt.Sprintf("%s unavailable: %v", artifact, failure.err))
		if failure.hostLevel() {
			hostErrs = append(hostErrs, failure.err)
		}
	}

	if len(failures) == 3 && len(hostErrs) > 0 {
		return models.ContentSnapshot{}, domainErrors.ErrUpstreamHostFailure.
			WithError(stderrors.Join(hostErrs...)).
			WithContext("repo", ref.Key())
	}

	log.Info("repository content fetched",
		"repo", ref.Key(),
		"readme", snapshot.HasReadme(),
		"manifest", snapshot.ManifestPath,
		"count", len(snapshot.FileTree),
		"duration", time.Since(start))

	return snapshot, nil
}

func (f *ContentFetcher) fetchReadme(ctx context.Context, ref models.RepositoryRef) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	readme, err := f.host.GetReadme(ctx, ref.Owner, ref.Name)
	if err != nil {
		return "", err
	}
	return truncateUTF8(readme, f.maxReadmeBytes), nil
}

// fetchManifest tries each candidate in order. A missing or unreadable file moves on to the next;
// any other failure ends the search.
func (f *ContentFetcher) fetchManifest(ctx context.Context, ref models.RepositoryRef) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	for _, path := range f.manifestCandidates {
		content, err := f.host.GetFile(ctx, ref.Owner, ref.Name, path)
		if err == nil {
			return truncateUTF8(content, f.maxManifestBytes), path, nil
		}
		if !vcs.Unavailable(err) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("no manifest among %d candidates: %w", len(f.manifestCandidates), vcs.ErrContentNotFound)
}

func (f *ContentFetcher) fetchTree(ctx context.Context, ref models.RepositoryRef) ([]string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	branch, err := f.host.GetDefaultBranch(ctx, ref.Owner, ref.Name)
	if err != nil {
		if stderrors.Is(err, vcs.ErrContentNotFound) {
			return nil, "", domainErrors.ErrRepositoryNotFound.
				WithError(err).
				WithContext("repo", ref.Key())
		}
		return nil, "", err
	}
	if branch == "" {
		logger.Debug(ctx, "default branch unknown, falling back",
			"repo", ref.Key(),
			"branch", fallbackBranch)
		branch = fallbackBranch
	}

	tree, err := f.host.GetRecursiveTree(ctx, ref.Owner, ref.Name, branch)
	if err != nil {
		return nil, "", err
	}

	if tree == nil {
		tree = []string{}
	}
	if len(tree) > f.maxTreeEntries {
		tree = tree[:f.maxTreeEntries]
	}
	return tree, branch, nil
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
