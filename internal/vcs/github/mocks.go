package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	return args.Get(0).(*github.Repository), args.Get(1).(*github.Response), args.Error(2)
}

func (m *MockRepoService) GetReadme(ctx context.Context, owner, repo string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	return args.Get(0).(*github.RepositoryContent), args.Get(1).(*github.Response), args.Error(2)
}

func (m *MockRepoService) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	return args.Get(0).(*github.RepositoryContent), args.Get(1).([]*github.RepositoryContent), args.Get(2).(*github.Response), args.Error(3)
}

type MockGitService struct {
	mock.Mock
}

func (m *MockGitService) GetTree(ctx context.Context, owner, repo, sha string, recursive bool) (*github.Tree, *github.Response, error) {
	args := m.Called(ctx, owner, repo, sha, recursive)
	return args.Get(0).(*github.Tree), args.Get(1).(*github.Response), args.Error(2)
}
