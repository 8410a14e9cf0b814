package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/repograde/internal/errors"
	"github.com/thomas-vilte/repograde/internal/logger"
	"github.com/thomas-vilte/repograde/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.ContentHost = (*GitHubClient)(nil)

type RepositoriesService interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	GetReadme(ctx context.Context, owner, repo string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

type GitService interface {
	GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, *github.Response, error)
}

type GitHubClient struct {
	repoService RepositoriesService
	gitService  GitService
}

// NewGitHubClient builds a client for the public GitHub API. An empty token means
// anonymous access with the lower rate limit.
func NewGitHubClient(token string) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &GitHubClient{
		repoService: client.Repositories,
		gitService:  client.Git,
	}
}

func NewGitHubClientWithServices(repoService RepositoriesService, gitService GitService) *GitHubClient {
	return &GitHubClient{
		repoService: repoService,
		gitService:  gitService,
	}
}

func (ghc *GitHubClient) GetReadme(ctx context.Context, owner, name string) (string, error) {
	readme, resp, err := ghc.repoService.GetReadme(ctx, owner, name, nil)
	if err != nil {
		return "", ghc.mapError(ctx, err, resp, "get readme", owner, name)
	}
	if readme == nil {
		return "", fmt.Errorf("readme of %s/%s: %w", owner, name, vcs.ErrContentNotFound)
	}

	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("readme of %s/%s: %w: %w", owner, name, vcs.ErrContentUndecodable, err)
	}
	return content, nil
}

func (ghc *GitHubClient) GetFile(ctx context.Context, owner, name, path string) (string, error) {
	fileContent, _, resp, err := ghc.repoService.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		return "", ghc.mapError(ctx, err, resp, "get file", owner, name)
	}

	// A directory listing comes back with a nil file.
	if fileContent == nil {
		return "", fmt.Errorf("file %s in %s/%s: %w", path, owner, name, vcs.ErrContentNotFound)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("file %s in %s/%s: %w: %w", path, owner, name, vcs.ErrContentUndecodable, err)
	}
	return content, nil
}

func (ghc *GitHubClient) GetDefaultBranch(ctx context.Context, owner, name string) (string, error) {
	repo, resp, err := ghc.repoService.Get(ctx, owner, name)
	if err != nil {
		return "", ghc.mapError(ctx, err, resp, "get repository", owner, name)
	}

	return repo.GetDefaultBranch(), nil
}

func (ghc *GitHubClient) GetRecursiveTree(ctx context.Context, owner, name, branch string) ([]string, error) {
	log := logger.FromContext(ctx)

	tree, resp, err := ghc.gitService.GetTree(ctx, owner, name, branch, true)
	if err != nil {
		return nil, ghc.mapError(ctx, err, resp, "get tree", owner, name)
	}

	if tree.GetTruncated() {
		log.Warn("github returned a truncated tree",
			"repo", fmt.Sprintf("%s/%s", owner, name),
			"branch", branch,
			"count", len(tree.Entries))
	}

	paths := make([]string, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		paths = append(paths, entry.GetPath())
	}
	return paths, nil
}

func (ghc *GitHubClient) mapError(ctx context.Context, err error, resp *github.Response, operation, owner, name string) error {
	repo := fmt.Sprintf("%s/%s", owner, name)

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("operation", operation).
			WithContext("repo", repo)
	}

	if resp == nil || resp.Response == nil {
		logger.Debug(ctx, "github request failed without response",
			"operation", operation,
			"repo", repo,
			"error", err)
		return domainErrors.ErrGitHubRequest.
			WithError(err).
			WithContext("operation", operation).
			WithContext("repo", repo)
	}

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusConflict:
		// 409 is what GitHub answers for the tree of an empty repository.
		return fmt.Errorf("%s %s: %w", operation, repo, vcs.ErrContentNotFound)
	case http.StatusUnauthorized:
		return domainErrors.ErrGitHubTokenInvalid.
			WithError(err).
			WithContext("operation", operation)
	case http.StatusTooManyRequests:
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("retry_after", resp.Header.Get("Retry-After")).
			WithContext("operation", operation)
	default:
		return domainErrors.ErrGitHubRequest.
			WithError(err).
			WithContext("operation", operation).
			WithContext("repo", repo).
			WithContext("status_code", resp.StatusCode)
	}
}
